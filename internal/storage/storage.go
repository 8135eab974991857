// storage задаёт контракт хранилища участников.
//
// Персистентность участников — внешний коллаборатор ядра аутентификации:
// ядро описывает только интерфейс и ошибки, конкретная реализация
// (см. storage/memory для локального окружения и тестов) подключается
// при сборке приложения.
package storage

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/pribylovaa/go-member-auth/internal/models"
)

var (
	// ErrNotFound — запись не найдена.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists — нарушение уникальности (email).
	ErrAlreadyExists = errors.New("already exists")
)

// MemberStore выполняет операции над участниками.
type MemberStore interface {
	// SaveMember создаёт нового участника.
	SaveMember(ctx context.Context, member *models.Member) error
	// MemberByEmail находит участника по email.
	MemberByEmail(ctx context.Context, email string) (*models.Member, error)
	// MemberByID находит участника по ID.
	MemberByID(ctx context.Context, id uuid.UUID) (*models.Member, error)
}
