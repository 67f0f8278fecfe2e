package session

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "session:"

// RedisClient は RedisStore が使用するコマンドの最小集合です。
// *redis.Client が満たします。
type RedisClient interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// RedisStore はセッションレコードを Redis に保存します。
// レコードは RecordCipher で暗号化した上で保存し、TTLはキーの有効期限で
// 管理します。期限切れレコードの破棄は Redis 自身が行います。
type RedisStore struct {
	rdb    RedisClient
	cipher *RecordCipher
}

// NewRedisStore は RedisStore を作成します。
func NewRedisStore(rdb RedisClient, cipher *RecordCipher) *RedisStore {
	return &RedisStore{
		rdb:    rdb,
		cipher: cipher,
	}
}

// Save はレコードをTTL付きで保存します。
func (s *RedisStore) Save(ctx context.Context, rec *Record, ttl time.Duration) error {
	if rec == nil || rec.ID == "" {
		return fmt.Errorf("session record is missing id")
	}
	if ttl <= 0 {
		return fmt.Errorf("session ttl must be positive")
	}

	sealed, err := s.cipher.Seal(rec)
	if err != nil {
		return err
	}

	return s.rdb.Set(ctx, sessionKey(rec.ID), sealed, ttl).Err()
}

// Get はレコードを取得します。不在の場合は (nil, nil) を返します。
func (s *RedisStore) Get(ctx context.Context, id string) (*Record, error) {
	data, err := s.rdb.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	return s.cipher.Open(data)
}

// Delete はレコードを削除します。不在の場合もエラーにしません。
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	return s.rdb.Del(ctx, sessionKey(id)).Err()
}

func sessionKey(id string) string {
	return sessionKeyPrefix + id
}
