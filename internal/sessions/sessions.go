// sessions — хранилище refresh-записей: отображение "ключ участника ->
// актуальный refresh-токен" с TTL, равным окну жизни refresh-токена.
//
// Это единственный источник истины для вопроса "жив ли ещё refresh-токен":
// синтаксически валидный, непросроченный и корректно подписанный токен,
// который уже не совпадает с записью, обязан отклоняться как устаревший.
//
// Ошибки недоступности хранилища (ErrUnavailable) никогда не схлопываются
// в "записи нет" — вызывающая сторона должна уметь ретраить, а не
// принудительно разлогинивать пользователя.
package sessions

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound — записи под ключом нет (logout, истёкший TTL или сессия не выдавалась).
	ErrNotFound = errors.New("session not found")
	// ErrTokenMismatch — предъявленный токен не совпал с хранимым
	// (ротация уже прошла в другом запросе либо повторное использование).
	ErrTokenMismatch = errors.New("refresh token mismatch")
	// ErrUnavailable — сбой/таймаут I/O внешнего хранилища.
	ErrUnavailable = errors.New("session store unavailable")
)

// Store — контракт хранилища refresh-записей.
// На один ключ — не более одной живой записи; Put перезаписывает
// предыдущее значение и сбрасывает TTL.
type Store interface {
	// Put сохраняет (или перезаписывает) запись с TTL.
	Put(ctx context.Context, key, token string, ttl time.Duration) error
	// Get возвращает текущее значение; ErrNotFound, если ключа нет или TTL истёк.
	Get(ctx context.Context, key string) (string, error)
	// Delete удаляет запись. Идемпотентна: отсутствие ключа — не ошибка.
	Delete(ctx context.Context, key string) error
	// Rotate атомарно заменяет запись на next при условии, что хранимое
	// значение равно presented (check-and-set). ErrNotFound — записи нет,
	// ErrTokenMismatch — значение уже другое; в обоих случаях запись
	// не меняется.
	Rotate(ctx context.Context, key, presented, next string, ttl time.Duration) error
	// Close закрывает соединение с хранилищем.
	Close() error
}
