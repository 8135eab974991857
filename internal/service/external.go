package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/pribylovaa/go-member-auth/internal/models"
	"github.com/pribylovaa/go-member-auth/internal/storage"
)

// ExternalIdentity — личность, подтверждённая внешним провайдером
// (social login). Ядро не ходит к провайдерам само: проверка подписи
// провайдера — обязанность реализации IdentityVerifier.
type ExternalIdentity struct {
	Provider string
	Email    string
}

// IdentityVerifier — точка расширения "внешняя личность подтверждена ->
// Principal". Реализации в репозитории нет; хук подключается через
// Service.SetIdentityVerifier при появлении провайдера.
type IdentityVerifier interface {
	// Verify проверяет предъявленный провайдерский артефакт (code/assertion)
	// и возвращает подтверждённую личность.
	Verify(ctx context.Context, provider, assertion string) (*ExternalIdentity, error)
}

// ExternalLogin выполняет вход по подтверждённой внешней личности:
// verifier проверяет артефакт провайдера, участник ищется по email,
// дальше — обычная выдача пары токенов, как при Login.
func (s *Service) ExternalLogin(ctx context.Context, provider, assertion string) (*models.TokenPair, *models.Principal, error) {
	const op = "service.external.ExternalLogin"

	if s.verifier == nil {
		return nil, nil, fmt.Errorf("%s: %w", op, ErrExternalLoginDisabled)
	}

	identity, err := s.verifier.Verify(ctx, provider, assertion)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	member, err := s.members.MemberByEmail(ctx, identity.Email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil, fmt.Errorf("%s: %w", op, ErrUnknownMember)
		}

		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	principal := principalOf(member)

	pair, err := s.issuePair(ctx, principal)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.sessions.Put(ctx, sessionKey(principal), pair.RefreshToken, s.cfg.RefreshTokenTTL); err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, mapSessionErr(err))
	}

	return pair, principal, nil
}
