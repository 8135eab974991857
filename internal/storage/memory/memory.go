// memory — потокобезопасная in-process реализация storage.MemberStore.
//
// Используется в локальном окружении и тестах; продовая реализация
// хранилища участников живёт вне этого репозитория (внешний коллаборатор).
package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/pribylovaa/go-member-auth/internal/models"
	"github.com/pribylovaa/go-member-auth/internal/storage"
)

// Store — in-memory хранилище участников.
type Store struct {
	mu      sync.RWMutex
	byID    map[uuid.UUID]*models.Member
	byEmail map[string]uuid.UUID
}

// New создаёт пустое хранилище.
func New() *Store {
	return &Store{
		byID:    make(map[uuid.UUID]*models.Member),
		byEmail: make(map[string]uuid.UUID),
	}
}

// SaveMember создаёт нового участника. Email уникален без учёта регистра.
func (s *Store) SaveMember(ctx context.Context, member *models.Member) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	key := strings.ToLower(member.Email)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byEmail[key]; ok {
		return storage.ErrAlreadyExists
	}
	if _, ok := s.byID[member.ID]; ok {
		return storage.ErrAlreadyExists
	}

	cp := *member
	s.byID[member.ID] = &cp
	s.byEmail[key] = member.ID

	return nil
}

// MemberByEmail находит участника по email.
func (s *Store) MemberByEmail(ctx context.Context, email string) (*models.Member, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, storage.ErrNotFound
	}

	cp := *s.byID[id]
	return &cp, nil
}

// MemberByID находит участника по ID.
func (s *Store) MemberByID(ctx context.Context, id uuid.UUID) (*models.Member, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.byID[id]
	if !ok {
		return nil, storage.ErrNotFound
	}

	cp := *m
	return &cp, nil
}

// UpdateRole меняет роль существующего участника.
// Нужна администраторскими сценариями; смена роли действует со следующей
// аутентификации, так как роль не зашита в токен.
func (s *Store) UpdateRole(ctx context.Context, id uuid.UUID, role models.Role) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.byID[id]
	if !ok {
		return storage.ErrNotFound
	}

	m.Role = role
	return nil
}
