package account

import (
	"context"
	"sync"
)

// MemStore 内存账号存储。
type MemStore struct {
	mu       sync.RWMutex
	accounts map[string]*Account // key = namespace + "/" + username
	order    []string
}

func NewMemStore() *MemStore {
	return &MemStore{
		accounts: make(map[string]*Account),
	}
}

func memKey(namespace, username string) string {
	return namespace + "/" + username
}

func (s *MemStore) Create(_ context.Context, a *Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := memKey(a.Namespace, a.Username)
	if _, ok := s.accounts[key]; ok {
		return ErrAlreadyExists
	}
	cp := *a
	s.accounts[key] = &cp
	s.order = append(s.order, key)
	return nil
}

func (s *MemStore) FindByName(_ context.Context, namespace, username string) (*Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.accounts[memKey(namespace, username)]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (s *MemStore) ListUsernames(_ context.Context, namespace string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var names []string
	for _, key := range s.order {
		a, ok := s.accounts[key]
		if !ok || a.Namespace != namespace {
			continue
		}
		names = append(names, a.Username)
	}
	return names, nil
}
