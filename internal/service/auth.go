package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/pribylovaa/go-member-auth/internal/models"
	"github.com/pribylovaa/go-member-auth/internal/pkg/log"
	"github.com/pribylovaa/go-member-auth/internal/pkg/redact"
	"github.com/pribylovaa/go-member-auth/internal/sessions"
	"github.com/pribylovaa/go-member-auth/internal/storage"
	"golang.org/x/crypto/bcrypt"
)

// Signup регистрирует нового участника с ролью USER.
func (s *Service) Signup(ctx context.Context, email, password string) (*models.Member, error) {
	const op = "service.auth.Signup"

	normEmail, err := validateEmail(email)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidEmail)
	}

	if err := validatePassword(password); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	_, err = s.members.MemberByEmail(ctx, normEmail)
	if err == nil {
		return nil, fmt.Errorf("%s: %w", op, ErrEmailTaken)
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	hashedPassword, err := hashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	member := &models.Member{
		ID:           uuid.New(),
		Email:        normEmail,
		PasswordHash: hashedPassword,
		Role:         models.RoleUser,
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}

	if err := s.members.SaveMember(ctx, member); err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return nil, fmt.Errorf("%s: %w", op, ErrEmailTaken)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.From(ctx).Info("member_registered",
		slog.String("op", op),
		slog.String("email", redact.Email(normEmail)),
	)

	return member, nil
}

// Login выполняет вход по email+пароль: выпускает пару токенов и
// записывает refresh-токен в хранилище сессий под ключом участника
// с TTL, равным окну жизни refresh-токена.
func (s *Service) Login(ctx context.Context, email, password string) (*models.TokenPair, *models.Principal, error) {
	const op = "service.auth.Login"

	normEmail, err := validateEmail(email)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	if len(password) == 0 {
		return nil, nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	member, err := s.members.MemberByEmail(ctx, normEmail)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}

		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	if !checkPassword(member.PasswordHash, password) {
		return nil, nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	principal := principalOf(member)

	pair, err := s.issuePair(ctx, principal)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.sessions.Put(ctx, sessionKey(principal), pair.RefreshToken, s.cfg.RefreshTokenTTL); err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, mapSessionErr(err))
	}

	log.From(ctx).Info("member_logged_in",
		slog.String("op", op),
		slog.String("email", redact.Email(normEmail)),
	)

	return pair, principal, nil
}

// Authenticate превращает предъявленный access-токен в Principal:
// проверяет подпись/срок и перечитывает участника из хранилища по subject.
// Роль берётся из актуальной записи, а не из токена, поэтому смена роли
// действует со следующего запроса.
func (s *Service) Authenticate(ctx context.Context, accessToken string) (*models.Principal, error) {
	const op = "service.auth.Authenticate"

	claims, err := s.parseAccessToken(accessToken)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	principal, err := s.resolve(ctx, claims)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return principal, nil
}

// Refresh обновляет пару токенов по refresh-токену.
//
// Протокол ротации: проверка подписи/срока -> разрешение участника ->
// атомарный check-and-set в хранилище (предъявленный токен обязан
// совпасть с хранимым, иначе он устаревший или использован повторно) ->
// только после успешной ротации выпускается access-токен.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, *models.Principal, error) {
	const op = "service.auth.Refresh"

	lg := log.From(ctx)

	claims, err := s.parseRefreshToken(refreshToken)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	principal, err := s.resolve(ctx, claims)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	now := time.Now().UTC()

	next, err := s.issueRefreshToken(ctx, principal, now)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.sessions.Rotate(ctx, sessionKey(principal), refreshToken, next, s.cfg.RefreshTokenTTL); err != nil {
		mapped := mapSessionErr(err)

		if errors.Is(mapped, ErrSessionStale) {
			lg.Warn("refresh_reuse_detected",
				slog.String("op", op),
				slog.String("member_id", principal.MemberID.String()),
			)
		}

		return nil, nil, fmt.Errorf("%s: %w", op, mapped)
	}

	access, expiresAt, err := s.issueAccessToken(ctx, principal, now)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	lg.Info("session_refreshed",
		slog.String("op", op),
		slog.String("member_id", principal.MemberID.String()),
	)

	return &models.TokenPair{
		AccessToken:     access,
		RefreshToken:    next,
		AccessExpiresAt: expiresAt,
	}, principal, nil
}

// Logout удаляет refresh-запись участника. Идемпотентна: повторный logout
// или отсутствие записи — не ошибка; наружу пробрасывается только
// недоступность хранилища.
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	const op = "service.auth.Logout"

	claims, err := s.parseRefreshToken(refreshToken)
	if err != nil {
		// Просроченный или битый токен: записи либо нет, либо она истечёт
		// сама по TTL. Считаем сессию завершённой.
		return nil
	}

	// claims.MemberID проверен как UUID ещё при разборе токена.
	if err := s.sessions.Delete(ctx, claims.MemberID); err != nil {
		return fmt.Errorf("%s: %w", op, mapSessionErr(err))
	}

	log.From(ctx).Info("member_logged_out",
		slog.String("op", op),
		slog.String("member_id", claims.MemberID),
	)

	return nil
}

// resolve строит Principal по claims через хранилище участников.
func (s *Service) resolve(ctx context.Context, claims *tokenClaims) (*models.Principal, error) {
	member, err := s.members.MemberByEmail(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrUnknownMember
		}

		return nil, err
	}

	// Токен обязан ссылаться на того же участника, что и subject:
	// расхождение memberId и email — признак подделки payload.
	if member.ID.String() != claims.MemberID {
		return nil, ErrInvalidToken
	}

	return principalOf(member), nil
}

// issuePair выпускает пару access+refresh с общим моментом выпуска.
func (s *Service) issuePair(ctx context.Context, p *models.Principal) (*models.TokenPair, error) {
	now := time.Now().UTC()

	access, expiresAt, err := s.issueAccessToken(ctx, p, now)
	if err != nil {
		return nil, err
	}

	refresh, err := s.issueRefreshToken(ctx, p, now)
	if err != nil {
		return nil, err
	}

	return &models.TokenPair{
		AccessToken:     access,
		RefreshToken:    refresh,
		AccessExpiresAt: expiresAt,
	}, nil
}

// sessionKey — единый ключ refresh-записи: идентификатор участника.
// Ключ сознательно один на весь код: никаких промежуточных индирекций
// "email -> id -> ключ" в разных вызовах.
func sessionKey(p *models.Principal) string {
	return p.MemberID.String()
}

// mapSessionErr переводит ошибки хранилища сессий в сентинелы сервиса.
func mapSessionErr(err error) error {
	switch {
	case errors.Is(err, sessions.ErrNotFound):
		return ErrSessionNotFound
	case errors.Is(err, sessions.ErrTokenMismatch):
		return ErrSessionStale
	case errors.Is(err, sessions.ErrUnavailable):
		return ErrStoreUnavailable
	default:
		return err
	}
}

func principalOf(m *models.Member) *models.Principal {
	return &models.Principal{
		MemberID: m.ID,
		Email:    m.Email,
		Role:     m.Role,
	}
}

// hashPassword хэширует пароль с помощью bcrypt.
func hashPassword(password string) (string, error) {
	const op = "service.auth.hashPassword"

	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return string(bytes), nil
}

// checkPassword сравнивает пароль с хэшем.
func checkPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// validateEmail проверяет базовый формат email и обрезает пробелы снаружи.
func validateEmail(raw string) (string, error) {
	const op = "service.auth.validateEmail"

	email := strings.TrimSpace(raw)
	if email == "" {
		return "", fmt.Errorf("%s: %w", op, ErrInvalidEmail)
	}

	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", fmt.Errorf("%s: %w", op, ErrInvalidEmail)
	}

	return strings.ToLower(email), nil
}

// validatePassword применяет политику сложности: минимум 8 символов,
// хотя бы одна буква и одна цифра.
func validatePassword(password string) error {
	const op = "service.auth.validatePassword"

	if len(password) == 0 {
		return fmt.Errorf("%s: %w", op, ErrEmptyPassword)
	}

	if len(password) < 8 {
		return fmt.Errorf("%s: %w", op, ErrWeakPassword)
	}

	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}

	if !hasLetter || !hasDigit {
		return fmt.Errorf("%s: %w", op, ErrWeakPassword)
	}

	return nil
}
