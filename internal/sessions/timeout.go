package sessions

import (
	"context"
	"time"
)

// WithTimeout оборачивает Store, навешивая на каждую операцию собственный
// deadline. Общий таймаут запроса ограничивает обработку целиком, а этот —
// каждое обращение к внешнему хранилищу в отдельности: зависший Redis
// превращается в ErrUnavailable за известное время, а не висит до конца
// запроса. Значение <=0 возвращает store без обёртки.
func WithTimeout(inner Store, d time.Duration) Store {
	if d <= 0 {
		return inner
	}

	return &timeoutStore{inner: inner, d: d}
}

type timeoutStore struct {
	inner Store
	d     time.Duration
}

func (s *timeoutStore) Put(ctx context.Context, key, token string, ttl time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, s.d)
	defer cancel()

	return s.inner.Put(ctx, key, token, ttl)
}

func (s *timeoutStore) Get(ctx context.Context, key string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.d)
	defer cancel()

	return s.inner.Get(ctx, key)
}

func (s *timeoutStore) Delete(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, s.d)
	defer cancel()

	return s.inner.Delete(ctx, key)
}

func (s *timeoutStore) Rotate(ctx context.Context, key, presented, next string, ttl time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, s.d)
	defer cancel()

	return s.inner.Rotate(ctx, key, presented, next, ttl)
}

func (s *timeoutStore) Close() error { return s.inner.Close() }
