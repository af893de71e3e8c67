package users

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/yourusername/storefront-api/internal/apperr"
)

// MemoryStore はプロセス内メモリにユーザーを保持する Store 実装です。
// テストやローカル動作確認で使用します。
type MemoryStore struct {
	mu      sync.RWMutex
	byID    map[string]*memoryRecord
	byEmail map[string]string
	now     func() time.Time
}

type memoryRecord struct {
	user User
	hash string
}

// NewMemoryStore は空の MemoryStore を作成します。
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID:    make(map[string]*memoryRecord),
		byEmail: make(map[string]string),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (s *MemoryStore) Create(ctx context.Context, in NewUser) (*User, error) {
	if err := validateNew(in); err != nil {
		return nil, err
	}
	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	email := NormalizeEmail(in.Email)
	if _, exists := s.byEmail[email]; exists {
		return nil, apperr.Validation("Duplicate field value entered")
	}

	rec := &memoryRecord{
		user: User{
			ID:        primitive.NewObjectID().Hex(),
			Name:      strings.TrimSpace(in.Name),
			Email:     email,
			CreatedAt: s.now(),
		},
		hash: hash,
	}
	s.byID[rec.user.ID] = rec
	s.byEmail[email] = rec.user.ID

	u := rec.user
	return &u, nil
}

func (s *MemoryStore) FindByID(ctx context.Context, id string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.byID[id]
	if !ok {
		return nil, apperr.NotFound("Resource not found")
	}
	u := rec.user
	return &u, nil
}

func (s *MemoryStore) FindCredentialsByEmail(ctx context.Context, email string) (*Credentials, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[NormalizeEmail(email)]
	if !ok {
		return nil, apperr.NotFound("Resource not found")
	}
	rec := s.byID[id]
	return &Credentials{User: rec.user, PasswordHash: rec.hash}, nil
}

func (s *MemoryStore) List(ctx context.Context) ([]User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]User, 0, len(s.byID))
	for _, rec := range s.byID {
		list = append(list, rec.user)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].CreatedAt.Before(list[j].CreatedAt) ||
			(list[i].CreatedAt.Equal(list[j].CreatedAt) && list[i].ID < list[j].ID)
	})
	return list, nil
}

func (s *MemoryStore) Update(ctx context.Context, id string, in UpdateUser) (*User, error) {
	if err := validateUpdate(in); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.byID[id]
	if !ok {
		return nil, apperr.NotFound("Resource not found")
	}
	if in.Email != nil {
		email := NormalizeEmail(*in.Email)
		if owner, exists := s.byEmail[email]; exists && owner != id {
			return nil, apperr.Validation("Duplicate field value entered")
		}
		delete(s.byEmail, rec.user.Email)
		rec.user.Email = email
		s.byEmail[email] = id
	}
	if in.Name != nil {
		rec.user.Name = strings.TrimSpace(*in.Name)
	}
	u := rec.user
	return &u, nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.byID[id]
	if !ok {
		return apperr.NotFound("Resource not found")
	}
	delete(s.byEmail, rec.user.Email)
	delete(s.byID, id)
	return nil
}

func (s *MemoryStore) RecordLogin(ctx context.Context, id string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.byID[id]
	if !ok {
		return apperr.NotFound("Resource not found")
	}
	at = at.UTC()
	rec.user.LastLoginAt = &at
	return nil
}

// PasswordHashOf は保存済みハッシュを返します。テストでの検証用です。
func (s *MemoryStore) PasswordHashOf(id string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if rec, ok := s.byID[id]; ok {
		return rec.hash
	}
	return ""
}
