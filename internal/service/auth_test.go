package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/pribylovaa/go-member-auth/internal/config"
	"github.com/pribylovaa/go-member-auth/internal/models"
	"github.com/pribylovaa/go-member-auth/internal/sessions"
	"github.com/pribylovaa/go-member-auth/internal/storage"
	"github.com/pribylovaa/go-member-auth/mocks"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func testCfg() config.AuthConfig {
	return config.AuthConfig{
		AccessSecret:    "unit-access-secret",
		RefreshSecret:   "unit-refresh-secret",
		AccessTokenTTL:  30 * time.Minute,
		RefreshTokenTTL: 7 * 24 * time.Hour,
	}
}

// newSvc собирает сервис с gomock-хранилищем участников и реальным
// Redis-хранилищем сессий поверх miniredis.
func newSvc(t *testing.T) (*Service, *mocks.MockMemberStore, sessions.Store) {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	st := mocks.NewMockMemberStore(ctrl)
	sess := sessions.NewRedisWithClient(rdb, "auth:rt:")

	svc, err := New(st, sess, testCfg())
	require.NoError(t, err)

	return svc, st, sess
}

func testMember(t *testing.T, email, password string, role models.Role) *models.Member {
	t.Helper()

	hash, err := hashPassword(password)
	require.NoError(t, err)

	return &models.Member{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}
}

func TestNew_SecretsValidated(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	st := mocks.NewMockMemberStore(ctrl)
	sess := mocks.NewMockStore(ctrl)

	cfg := testCfg()
	cfg.RefreshSecret = cfg.AccessSecret
	_, err := New(st, sess, cfg)
	require.Error(t, err)

	cfg = testCfg()
	cfg.AccessSecret = ""
	_, err = New(st, sess, cfg)
	require.Error(t, err)
}

func TestSignup_OK(t *testing.T) {
	t.Parallel()

	svc, st, _ := newSvc(t)

	ctx := context.Background()
	email := "User@Example.com"
	norm := "user@example.com"

	st.EXPECT().MemberByEmail(gomock.Any(), norm).Return(nil, storage.ErrNotFound)
	st.EXPECT().SaveMember(gomock.Any(), gomock.Any()).Return(nil)

	member, err := svc.Signup(ctx, email, "Abcdef12")
	require.NoError(t, err)
	require.Equal(t, norm, member.Email)
	require.Equal(t, models.RoleUser, member.Role)
	require.NotEqual(t, uuid.Nil, member.ID)
	require.NotEqual(t, "Abcdef12", member.PasswordHash)
}

func TestSignup_Validation(t *testing.T) {
	t.Parallel()

	svc, _, _ := newSvc(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, "not-an-email", "Abcdef12")
	require.ErrorIs(t, err, ErrInvalidEmail)

	_, err = svc.Signup(ctx, "u@e.com", "")
	require.ErrorIs(t, err, ErrEmptyPassword)

	_, err = svc.Signup(ctx, "u@e.com", "short1")
	require.ErrorIs(t, err, ErrWeakPassword)

	_, err = svc.Signup(ctx, "u@e.com", "abcdefgh")
	require.ErrorIs(t, err, ErrWeakPassword)
}

func TestSignup_EmailTaken(t *testing.T) {
	t.Parallel()

	svc, st, _ := newSvc(t)
	ctx := context.Background()

	st.EXPECT().MemberByEmail(gomock.Any(), "user@example.com").
		Return(&models.Member{ID: uuid.New(), Email: "user@example.com"}, nil)

	_, err := svc.Signup(ctx, "user@example.com", "Abcdef12")
	require.ErrorIs(t, err, ErrEmailTaken)

	// Гонка на вставке: SaveMember вернул already exists.
	st.EXPECT().MemberByEmail(gomock.Any(), "user@example.com").
		Return(nil, storage.ErrNotFound)
	st.EXPECT().SaveMember(gomock.Any(), gomock.Any()).
		Return(storage.ErrAlreadyExists)

	_, err = svc.Signup(ctx, "user@example.com", "Abcdef12")
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestLogin_OK_RecordsRefreshSession(t *testing.T) {
	t.Parallel()

	svc, st, sess := newSvc(t)
	ctx := context.Background()

	member := testMember(t, "user@example.com", "Abcdef12", models.RoleUser)
	st.EXPECT().MemberByEmail(gomock.Any(), member.Email).Return(member, nil)

	pair, principal, err := svc.Login(ctx, member.Email, "Abcdef12")
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	require.Equal(t, member.ID, principal.MemberID)
	require.WithinDuration(t, time.Now().Add(svc.cfg.AccessTokenTTL), pair.AccessExpiresAt, 2*time.Second)

	// Запись в хранилище сессий: ключ — ID участника, значение — refresh-токен.
	stored, err := sess.Get(ctx, member.ID.String())
	require.NoError(t, err)
	require.Equal(t, pair.RefreshToken, stored)
}

func TestLogin_BadCredentials(t *testing.T) {
	t.Parallel()

	svc, st, _ := newSvc(t)
	ctx := context.Background()

	member := testMember(t, "user@example.com", "Abcdef12", models.RoleUser)

	st.EXPECT().MemberByEmail(gomock.Any(), member.Email).Return(member, nil)
	_, _, err := svc.Login(ctx, member.Email, "wrong-pass")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	st.EXPECT().MemberByEmail(gomock.Any(), "ghost@example.com").Return(nil, storage.ErrNotFound)
	_, _, err = svc.Login(ctx, "ghost@example.com", "Abcdef12")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login(ctx, member.Email, "")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthenticate_OK_ReResolvesRole(t *testing.T) {
	t.Parallel()

	svc, st, _ := newSvc(t)
	ctx := context.Background()

	member := testMember(t, "user@example.com", "Abcdef12", models.RoleUser)
	st.EXPECT().MemberByEmail(gomock.Any(), member.Email).Return(member, nil)

	pair, _, err := svc.Login(ctx, member.Email, "Abcdef12")
	require.NoError(t, err)

	st.EXPECT().MemberByEmail(gomock.Any(), member.Email).Return(member, nil)
	principal, err := svc.Authenticate(ctx, pair.AccessToken)
	require.NoError(t, err)
	require.Equal(t, models.RoleUser, principal.Role)

	// Роль не зашита в токен: после смены роли тот же токен даёт ADMIN.
	promoted := *member
	promoted.Role = models.RoleAdmin
	st.EXPECT().MemberByEmail(gomock.Any(), member.Email).Return(&promoted, nil)

	principal, err = svc.Authenticate(ctx, pair.AccessToken)
	require.NoError(t, err)
	require.Equal(t, models.RoleAdmin, principal.Role)
}

func TestAuthenticate_Failures(t *testing.T) {
	t.Parallel()

	svc, st, _ := newSvc(t)
	ctx := context.Background()

	member := testMember(t, "user@example.com", "Abcdef12", models.RoleUser)

	// Участник удалён после выпуска токена.
	st.EXPECT().MemberByEmail(gomock.Any(), member.Email).Return(member, nil)
	pair, _, err := svc.Login(ctx, member.Email, "Abcdef12")
	require.NoError(t, err)

	st.EXPECT().MemberByEmail(gomock.Any(), member.Email).Return(nil, storage.ErrNotFound)
	_, err = svc.Authenticate(ctx, pair.AccessToken)
	require.ErrorIs(t, err, ErrUnknownMember)

	// Refresh-токен не проходит как access (другой секрет).
	_, err = svc.Authenticate(ctx, pair.RefreshToken)
	require.ErrorIs(t, err, ErrInvalidToken)

	// Мусор.
	_, err = svc.Authenticate(ctx, "garbage")
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefresh_RotationSupersedes(t *testing.T) {
	t.Parallel()

	svc, st, sess := newSvc(t)
	ctx := context.Background()

	member := testMember(t, "user@example.com", "Abcdef12", models.RoleUser)
	st.EXPECT().MemberByEmail(gomock.Any(), member.Email).Return(member, nil).AnyTimes()

	pair, _, err := svc.Login(ctx, member.Email, "Abcdef12")
	require.NoError(t, err)
	r1 := pair.RefreshToken

	pair2, _, err := svc.Refresh(ctx, r1)
	require.NoError(t, err)
	r2 := pair2.RefreshToken
	require.NotEqual(t, r1, r2)
	require.NotEmpty(t, pair2.AccessToken)

	stored, err := sess.Get(ctx, member.ID.String())
	require.NoError(t, err)
	require.Equal(t, r2, stored)

	// R1 подписан верно и не просрочен, но записью уже не является —
	// повторное использование отклоняется как устаревшее.
	_, _, err = svc.Refresh(ctx, r1)
	require.ErrorIs(t, err, ErrSessionStale)

	// Запись при этом не тронута.
	stored, err = sess.Get(ctx, member.ID.String())
	require.NoError(t, err)
	require.Equal(t, r2, stored)

	// Актуальный токен продолжает ротироваться.
	pair3, _, err := svc.Refresh(ctx, r2)
	require.NoError(t, err)
	require.NotEqual(t, r2, pair3.RefreshToken)
}

func TestRefresh_NoSession(t *testing.T) {
	t.Parallel()

	svc, st, _ := newSvc(t)
	ctx := context.Background()

	member := testMember(t, "user@example.com", "Abcdef12", models.RoleUser)
	st.EXPECT().MemberByEmail(gomock.Any(), member.Email).Return(member, nil).AnyTimes()

	// Refresh-токен валиден, но записи в хранилище нет (logout/TTL).
	principal := &models.Principal{MemberID: member.ID, Email: member.Email, Role: member.Role}
	refresh, _, err := issueToken(principal, testCfg().RefreshSecret, time.Hour, time.Now().UTC())
	require.NoError(t, err)

	_, _, err = svc.Refresh(ctx, refresh)
	require.ErrorIs(t, err, ErrSessionNotFound)
}

func TestRefresh_TokenClassAndExpiry(t *testing.T) {
	t.Parallel()

	svc, st, _ := newSvc(t)
	ctx := context.Background()

	member := testMember(t, "user@example.com", "Abcdef12", models.RoleUser)
	st.EXPECT().MemberByEmail(gomock.Any(), member.Email).Return(member, nil).AnyTimes()

	pair, _, err := svc.Login(ctx, member.Email, "Abcdef12")
	require.NoError(t, err)

	// Access-токен не принимается в refresh-потоке.
	_, _, err = svc.Refresh(ctx, pair.AccessToken)
	require.ErrorIs(t, err, ErrInvalidToken)

	// Просроченный refresh отклоняется до обращения к хранилищу.
	principal := &models.Principal{MemberID: member.ID, Email: member.Email, Role: member.Role}
	expired, _, err := issueToken(principal, testCfg().RefreshSecret, -time.Minute, time.Now().UTC())
	require.NoError(t, err)

	_, _, err = svc.Refresh(ctx, expired)
	require.ErrorIs(t, err, ErrTokenExpired)
}

func TestLogout_Idempotent(t *testing.T) {
	t.Parallel()

	svc, st, sess := newSvc(t)
	ctx := context.Background()

	member := testMember(t, "user@example.com", "Abcdef12", models.RoleUser)
	st.EXPECT().MemberByEmail(gomock.Any(), member.Email).Return(member, nil)

	pair, _, err := svc.Login(ctx, member.Email, "Abcdef12")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, pair.RefreshToken))

	_, err = sess.Get(ctx, member.ID.String())
	require.ErrorIs(t, err, sessions.ErrNotFound)

	// Повторный logout — не ошибка.
	require.NoError(t, svc.Logout(ctx, pair.RefreshToken))

	// Битый токен — тоже не ошибка: сессию завершать нечем и незачем.
	require.NoError(t, svc.Logout(ctx, "garbage"))
}

func TestLogin_StoreUnavailable(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	st := mocks.NewMockMemberStore(ctrl)
	sess := mocks.NewMockStore(ctrl)

	svc, err := New(st, sess, testCfg())
	require.NoError(t, err)

	ctx := context.Background()
	member := testMember(t, "user@example.com", "Abcdef12", models.RoleUser)

	st.EXPECT().MemberByEmail(gomock.Any(), member.Email).Return(member, nil)
	sess.EXPECT().Put(gomock.Any(), member.ID.String(), gomock.Any(), gomock.Any()).
		Return(sessions.ErrUnavailable)

	// Недоступность хранилища не схлопывается в "сессии нет".
	_, _, err = svc.Login(ctx, member.Email, "Abcdef12")
	require.ErrorIs(t, err, ErrStoreUnavailable)
	require.False(t, errors.Is(err, ErrSessionNotFound))
}

func TestExternalLogin_Disabled(t *testing.T) {
	t.Parallel()

	svc, _, _ := newSvc(t)

	_, _, err := svc.ExternalLogin(context.Background(), "google", "assertion")
	require.ErrorIs(t, err, ErrExternalLoginDisabled)
}
