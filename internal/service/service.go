// service содержит бизнес-логику ядра аутентификации:
// регистрацию/вход участников, выпуск и проверку подписанных токенов
// двух классов (access/refresh), протокол ротации refresh-токена и
// построение Principal для пайплайна запросов.
//
// Основные аспекты:
//   - Пакет не хранит состояние запроса внутри Service; экземпляр Service
//     безопасен для конкурентного использования из разных горутин при условии,
//     что переданные хранилища (storage.MemberStore, sessions.Store)
//     потокобезопасны.
//   - Секреты подписи передаются через конфиг при конструировании и после
//     этого неизменяемы; глобального состояния нет.
//   - Ошибки возвращаются сентинелами и далее маппятся HTTP-слоем
//     на коды ответов (см. комментарии к переменным ошибок ниже).
package service

import (
	"errors"

	"github.com/pribylovaa/go-member-auth/internal/config"
	"github.com/pribylovaa/go-member-auth/internal/sessions"
	"github.com/pribylovaa/go-member-auth/internal/storage"
)

var (
	// ErrInvalidCredentials — пара логин/пароль неверна или участник не найден.
	// Транспорт: 401 unauthenticated.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidToken — токен некорректен по формату/подписи либо подписан
	// секретом другого класса. Транспорт: 401 unauthenticated.
	ErrInvalidToken = errors.New("invalid token")

	// ErrTokenExpired — срок действия токена истёк (граница включительно:
	// exp == now уже считается просроченным). Транспорт: 401 unauthenticated.
	ErrTokenExpired = errors.New("token expired")

	// ErrUnknownMember — claims ссылаются на участника, которого нет в
	// хранилище. Транспорт: 401 unauthenticated.
	ErrUnknownMember = errors.New("unknown member")

	// ErrSessionNotFound — refresh-записи под ключом участника нет
	// (logout, истёкший TTL или сессия не выдавалась). Требуется повторный
	// вход. Транспорт: 401 unauthenticated.
	ErrSessionNotFound = errors.New("session not found")

	// ErrSessionStale — предъявленный refresh-токен не совпал с хранимым:
	// ротация прошла в другом запросе либо токен использован повторно.
	// Сам токен при этом может быть подписан верно и не просрочен.
	// Транспорт: 401 unauthenticated.
	ErrSessionStale = errors.New("session stale")

	// ErrEmailTaken — e-mail уже занят другим участником.
	// Транспорт: 409 already_exists.
	ErrEmailTaken = errors.New("email already taken")

	// ErrInvalidEmail — e-mail имеет некорректный формат.
	// Транспорт: 400 invalid_argument.
	ErrInvalidEmail = errors.New("invalid email format")

	// ErrWeakPassword — пароль не удовлетворяет политикам сложности.
	// Транспорт: 400 invalid_argument.
	ErrWeakPassword = errors.New("password is too weak")

	// ErrEmptyPassword — пароль пустой.
	// Транспорт: 400 invalid_argument.
	ErrEmptyPassword = errors.New("password is empty")

	// ErrStoreUnavailable — сбой/таймаут I/O хранилища refresh-записей.
	// Принципиально НЕ схлопывается в "сессии нет": клиент должен ретраить,
	// а не идти на повторный вход. Транспорт: 503 unavailable.
	ErrStoreUnavailable = errors.New("session store unavailable")

	// ErrExternalLoginDisabled — вход через внешнего провайдера не
	// сконфигурирован (точка расширения, см. external.go).
	// Транспорт: 501 unimplemented.
	ErrExternalLoginDisabled = errors.New("external login disabled")
)

// Service описывает бизнес-логику ядра аутентификации.
type Service struct {
	members  storage.MemberStore
	sessions sessions.Store
	cfg      config.AuthConfig
	verifier IdentityVerifier // может быть nil, если внешний вход не подключён
}

// New создаёт новый экземпляр Service.
//
// Секреты обоих классов обязаны быть заданы и различаться: независимость
// секретов гарантирует, что компрометация access-секрета не позволяет
// подделать refresh-токен, и наоборот.
func New(members storage.MemberStore, sessions sessions.Store, cfg config.AuthConfig) (*Service, error) {
	if cfg.AccessSecret == "" || cfg.RefreshSecret == "" {
		return nil, errors.New("service: both signing secrets are required")
	}
	if cfg.AccessSecret == cfg.RefreshSecret {
		return nil, errors.New("service: access and refresh secrets must differ")
	}
	if cfg.AccessTokenTTL <= 0 || cfg.RefreshTokenTTL <= 0 {
		return nil, errors.New("service: token TTLs must be positive")
	}

	return &Service{
		members:  members,
		sessions: sessions,
		cfg:      cfg,
	}, nil
}

// SetIdentityVerifier подключает внешнего провайдера идентичности (опционально).
func (s *Service) SetIdentityVerifier(v IdentityVerifier) {
	s.verifier = v
}
