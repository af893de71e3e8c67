package products

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/yourusername/storefront-api/internal/apperr"
)

// MemoryStore はプロセス内メモリに商品を保持する Store 実装です。
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]Product
}

// NewMemoryStore は空の MemoryStore を作成します。
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string]Product)}
}

func (s *MemoryStore) Create(ctx context.Context, userID string, in Input) (*Product, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	p := Product{
		ID:          primitive.NewObjectID().Hex(),
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Price:       in.Price,
		User:        userID,
		CreatedAt:   time.Now().UTC(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[p.ID] = p
	return &p, nil
}

func (s *MemoryStore) FindByID(ctx context.Context, id string) (*Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.items[id]
	if !ok {
		return nil, apperr.NotFound("Resource not found")
	}
	return &p, nil
}

func (s *MemoryStore) List(ctx context.Context) ([]Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := make([]Product, 0, len(s.items))
	for _, p := range s.items {
		list = append(list, p)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (s *MemoryStore) Update(ctx context.Context, id string, patch Patch) (*Product, error) {
	if err := validatePatch(patch); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.items[id]
	if !ok {
		return nil, apperr.NotFound("Resource not found")
	}
	if patch.Name != nil {
		p.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	s.items[id] = p
	return &p, nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return apperr.NotFound("Resource not found")
	}
	delete(s.items, id)
	return nil
}
