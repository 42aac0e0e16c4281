package booking

import (
	"context"
	"sync"
)

// MemStore 内存预订存储。
// 每个 owner 一个有序切片，对应旧系统的 username -> [booking] 结构。
type MemStore struct {
	mu       sync.RWMutex
	byOwner  map[string][]*Booking
	ownerSeq []string // owner 首次出现的顺序
}

func NewMemStore() *MemStore {
	return &MemStore{
		byOwner: make(map[string][]*Booking),
	}
}

func (s *MemStore) Create(_ context.Context, b *Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byOwner[b.Owner]; !ok {
		s.ownerSeq = append(s.ownerSeq, b.Owner)
	}
	cp := *b
	s.byOwner[b.Owner] = append(s.byOwner[b.Owner], &cp)
	return nil
}

func (s *MemStore) Get(_ context.Context, owner, id string) (*Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, b := range s.byOwner[owner] {
		if b.ID == id {
			cp := *b
			return &cp, nil
		}
	}
	return nil, ErrBookingNotFound
}

func (s *MemStore) Update(_ context.Context, b *Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.byOwner[b.Owner]
	for i, cur := range list {
		if cur.ID == b.ID {
			cp := *b
			list[i] = &cp
			return nil
		}
	}
	return ErrBookingNotFound
}

func (s *MemStore) Delete(_ context.Context, owner, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.byOwner[owner]
	for i, cur := range list {
		if cur.ID == id {
			s.byOwner[owner] = append(list[:i], list[i+1:]...)
			return nil
		}
	}
	return ErrBookingNotFound
}

func (s *MemStore) ListForOwner(_ context.Context, owner string) ([]Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := s.byOwner[owner]
	out := make([]Booking, 0, len(list))
	for _, b := range list {
		out = append(out, *b)
	}
	return out, nil
}

func (s *MemStore) ListAll(_ context.Context) (map[string][]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string][]string)
	for _, owner := range s.ownerSeq {
		list := s.byOwner[owner]
		if len(list) == 0 {
			continue
		}
		ids := make([]string, 0, len(list))
		for _, b := range list {
			ids = append(ids, b.ID)
		}
		out[owner] = ids
	}
	return out, nil
}
