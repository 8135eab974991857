package models

import (
	"time"

	"github.com/google/uuid"
)

// Role — роль участника. Фиксированный набор из двух уровней:
// обычный аутентифицированный пользователь и администратор.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// Valid сообщает, входит ли значение в известный набор ролей.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// Member — модель участника в системе.
//
// Хранение участников — внешний коллаборатор (см. пакет storage);
// ядро аутентификации использует только ID, Email и Role.
type Member struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
