package catalog

import (
	"context"
	"sync"
)

// MemStore 内存车辆存储（driver=memory 时使用，也是测试的默认后端）。
// 所有读写都返回副本，调用方拿不到内部指针。
type MemStore struct {
	mu    sync.RWMutex
	byID  map[string]*Vehicle
	order []string // 创建顺序
}

func NewMemStore() *MemStore {
	return &MemStore{
		byID: make(map[string]*Vehicle),
	}
}

func (s *MemStore) Create(_ context.Context, v *Vehicle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *v
	s.byID[v.ID] = &cp
	s.order = append(s.order, v.ID)
	return nil
}

func (s *MemStore) Get(_ context.Context, id string) (*Vehicle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *v
	return &cp, nil
}

func (s *MemStore) List(_ context.Context) ([]Vehicle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Vehicle, 0, len(s.order))
	for _, id := range s.order {
		if v, ok := s.byID[id]; ok {
			out = append(out, *v)
		}
	}
	return out, nil
}

func (s *MemStore) Update(_ context.Context, v *Vehicle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[v.ID]; !ok {
		return ErrNotFound
	}
	cp := *v
	s.byID[v.ID] = &cp
	return nil
}

func (s *MemStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[id]; !ok {
		return ErrNotFound
	}
	delete(s.byID, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}
