package middleware

import (
	"context"

	"github.com/pribylovaa/go-member-auth/internal/models"
)

type ctxRequestID struct{}
type ctxPrincipal struct{}

// RequestIDFrom возвращает request id, положенный мидлваром RequestID.
func RequestIDFrom(ctx context.Context) string {
	if v, ok := ctx.Value(ctxRequestID{}).(string); ok {
		return v
	}

	return ""
}

// PrincipalFrom возвращает Principal текущего запроса.
// Второе значение false — запрос анонимный (аутентификация не проходила
// либо путь публичный).
func PrincipalFrom(ctx context.Context) (*models.Principal, bool) {
	p, ok := ctx.Value(ctxPrincipal{}).(*models.Principal)
	return p, ok && p != nil
}

func withPrincipal(ctx context.Context, p *models.Principal) context.Context {
	return context.WithValue(ctx, ctxPrincipal{}, p)
}
