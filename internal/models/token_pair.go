package models

import "time"

// TokenPair — пара токенов, выдаваемая при входе и обновлении сессии.
//
// Описание:
//   - AccessToken — короткоживущий JWT (секрет access-класса) для доступа к API;
//   - RefreshToken — долгоживущий JWT (секрет refresh-класса); актуальное
//     значение дополнительно хранится на сервере (см. пакет sessions) и
//     ротируется при каждом обновлении;
//   - AccessExpiresAt — момент истечения access-токена (UTC).
type TokenPair struct {
	AccessToken     string
	RefreshToken    string
	AccessExpiresAt time.Time
}
