package auth

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

// signupForm は POST /signup の入力です。
// バリデーションはフィールドの宣言順に行われ、最初に失敗した
// フィールドのメッセージだけを利用者に返します。
// パスワードの上限は bcrypt が扱える72バイトに合わせています。
type signupForm struct {
	Name     string `form:"name" binding:"required"`
	Email    string `form:"email" binding:"required,email"`
	Password string `form:"password" binding:"required,max=72"`
}

// loginForm は POST /login の入力です。
type loginForm struct {
	Email    string `form:"email" binding:"required,email"`
	Password string `form:"password" binding:"required,max=72"`
}

// validationMessage はバインドエラーから利用者向けメッセージを組み立てます。
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			return field + " は必須です"
		case "email":
			return field + " はメールアドレスの形式で入力してください"
		case "max":
			return field + " は" + fe.Param() + "文字以内で入力してください"
		default:
			return field + " が不正です"
		}
	}
	return "入力内容が不正です"
}
