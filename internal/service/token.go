package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pribylovaa/go-member-auth/internal/models"
	"github.com/pribylovaa/go-member-auth/internal/pkg/log"
)

// tokenClaims — полезная нагрузка подписанного токена обоих классов:
// sub = email участника, memberId = его идентификатор, плюс iat/exp.
// Роль в токен не кладётся — она перечитывается при аутентификации.
type tokenClaims struct {
	MemberID string `json:"memberId"`
	jwt.RegisteredClaims
}

// issueToken — кодек выпуска: собирает claims из Principal и подписывает
// HMAC-SHA-256 секретом переданного класса.
//
// jti обязателен: метки iat/exp имеют секундное разрешение, и без jti два
// токена, выпущенные в одну секунду, совпали бы байт в байт — ротация
// refresh-токена превратилась бы в no-op.
func issueToken(p *models.Principal, secret string, ttl time.Duration, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(ttl)

	claims := tokenClaims{
		MemberID: p.MemberID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   p.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, err
	}

	return signed, expiresAt, nil
}

// parseToken — кодек разбора: проверяет подпись секретом переданного класса
// и срок действия. Leeway нулевой намеренно: граница истечения включительна,
// токен с exp == now уже просрочен.
//
// Ошибки: ErrTokenExpired — подпись верна, но срок вышел; ErrInvalidToken —
// всё остальное (мусор на входе, чужой секрет, чужой алгоритм).
func parseToken(tokenStr, secret string) (*tokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &tokenClaims{},
		func(t *jwt.Token) (interface{}, error) {
			if t.Method != jwt.SigningMethodHS256 {
				return nil, ErrInvalidToken
			}

			return []byte(secret), nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}

		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*tokenClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	if claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	if _, err := uuid.Parse(claims.MemberID); err != nil {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// issueAccessToken выпускает access-токен (секрет access-класса, короткое окно).
func (s *Service) issueAccessToken(ctx context.Context, p *models.Principal, now time.Time) (string, time.Time, error) {
	const op = "service.token.issueAccessToken"

	signed, expiresAt, err := issueToken(p, s.cfg.AccessSecret, s.cfg.AccessTokenTTL, now)
	if err != nil {
		log.From(ctx).Error("access_token_sign_failed",
			slog.String("op", op),
			slog.String("err", err.Error()),
		)
		return "", time.Time{}, fmt.Errorf("%s: %w", op, err)
	}

	return signed, expiresAt, nil
}

// issueRefreshToken выпускает refresh-токен (секрет refresh-класса, длинное окно).
func (s *Service) issueRefreshToken(ctx context.Context, p *models.Principal, now time.Time) (string, error) {
	const op = "service.token.issueRefreshToken"

	signed, _, err := issueToken(p, s.cfg.RefreshSecret, s.cfg.RefreshTokenTTL, now)
	if err != nil {
		log.From(ctx).Error("refresh_token_sign_failed",
			slog.String("op", op),
			slog.String("err", err.Error()),
		)
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return signed, nil
}

// parseAccessToken валидирует access-токен.
func (s *Service) parseAccessToken(tokenStr string) (*tokenClaims, error) {
	const op = "service.token.parseAccessToken"

	claims, err := parseToken(tokenStr, s.cfg.AccessSecret)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return claims, nil
}

// parseRefreshToken валидирует refresh-токен.
func (s *Service) parseRefreshToken(tokenStr string) (*tokenClaims, error) {
	const op = "service.token.parseRefreshToken"

	claims, err := parseToken(tokenStr, s.cfg.RefreshSecret)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return claims, nil
}
