package sessions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// rotateScript — атомарный check-and-set ротации.
//
// Обычный GET+SET здесь недостаточен: два конкурентных обновления прочитали
// бы одно и то же значение, оба записали бы новое, и токен проигравшего
// запроса устаревал бы сразу после выдачи. Lua-скрипт выполняется в Redis
// атомарно, поэтому выигрывает ровно один запрос.
const rotateScript = `
local cur = redis.call("GET", KEYS[1])
if not cur then
  return 0
end
if cur ~= ARGV[1] then
  return 1
end
redis.call("SET", KEYS[1], ARGV[2], "EX", ARGV[3])
return 2
`

const (
	rotateStatusNotFound int64 = 0
	rotateStatusMismatch int64 = 1
	rotateStatusRotated  int64 = 2
)

var rotateLua = redis.NewScript(rotateScript)

type redisStore struct {
	rdb    *redis.Client
	prefix string
}

// NewRedis создаёт клиент Redis из URL (например, redis://:pass@host:6379/0).
// Если prefix пустой — используется "auth:rt:".
func NewRedis(ctx context.Context, redisURL, prefix string) (Store, error) {
	if prefix == "" {
		prefix = "auth:rt:"
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	rdb := redis.NewClient(opt)

	// Fail-fast на старте.
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return &redisStore{rdb: rdb, prefix: prefix}, nil
}

// NewRedisWithClient оборачивает готовый клиент (используется в тестах с miniredis).
func NewRedisWithClient(rdb *redis.Client, prefix string) Store {
	if prefix == "" {
		prefix = "auth:rt:"
	}

	return &redisStore{rdb: rdb, prefix: prefix}
}

func (s *redisStore) key(k string) string { return s.prefix + k }

func (s *redisStore) Put(ctx context.Context, key, token string, ttl time.Duration) error {
	if err := s.rdb.Set(ctx, s.key(key), token, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return nil
}

func (s *redisStore) Get(ctx context.Context, key string) (string, error) {
	val, err := s.rdb.Get(ctx, s.key(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNotFound
		}

		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return val, nil
}

func (s *redisStore) Delete(ctx context.Context, key string) error {
	// DEL несуществующего ключа возвращает 0 без ошибки — идемпотентность
	// обеспечивает сам Redis.
	if err := s.rdb.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return nil
}

func (s *redisStore) Rotate(ctx context.Context, key, presented, next string, ttl time.Duration) error {
	ttlSec := int64(ttl / time.Second)
	if ttlSec < 1 {
		ttlSec = 1
	}

	res, err := rotateLua.Run(ctx, s.rdb, []string{s.key(key)}, presented, next, ttlSec).Int64()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	switch res {
	case rotateStatusRotated:
		return nil
	case rotateStatusMismatch:
		return ErrTokenMismatch
	default:
		return ErrNotFound
	}
}

func (s *redisStore) Close() error { return s.rdb.Close() }
