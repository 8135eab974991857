package models

import "github.com/google/uuid"

// Principal — аутентифицированная личность запроса.
//
// Создаётся сервисом из проверенных claims токена и актуальной записи
// участника; живёт ровно один запрос и никогда не персистится.
// Роль не зашита в токен — она перечитывается из хранилища при каждой
// аутентификации, поэтому смена роли действует со следующего запроса.
type Principal struct {
	MemberID uuid.UUID
	Email    string
	Role     Role
}

// IsAdmin — признак административной роли.
func (p *Principal) IsAdmin() bool {
	return p != nil && p.Role == RoleAdmin
}
