package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Service 封装车辆目录的核心用例（不依赖 HTTP），便于复用和测试。
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// VehicleInput 创建/编辑车辆的入参。
type VehicleInput struct {
	Name        string
	Type        string
	Description string
	PricePerDay int64
	ImageRef    string
}

func (s *Service) Create(ctx context.Context, in VehicleInput) (*Vehicle, error) {
	if s == nil || s.store == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, ErrInvalidName
	}
	if in.PricePerDay < 0 {
		return nil, ErrInvalidPrice
	}

	v := &Vehicle{
		ID:          uuid.NewString(),
		Name:        name,
		Type:        strings.TrimSpace(in.Type),
		Description: strings.TrimSpace(in.Description),
		PricePerDay: in.PricePerDay,
		ImageRef:    strings.TrimSpace(in.ImageRef),
	}
	if err := s.store.Create(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Vehicle, error) {
	if s == nil || s.store == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrNotFound
	}
	return s.store.Get(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]Vehicle, error) {
	if s == nil || s.store == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	return s.store.List(ctx)
}

// Update 编辑车辆。入参 ImageRef 为空时保留原图片引用（编辑表单不改图片）。
func (s *Service) Update(ctx context.Context, id string, in VehicleInput) (*Vehicle, error) {
	if s == nil || s.store == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	if in.PricePerDay < 0 {
		return nil, ErrInvalidPrice
	}

	v, err := s.store.Get(ctx, strings.TrimSpace(id))
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(in.Name); name != "" {
		v.Name = name
	}
	v.Type = strings.TrimSpace(in.Type)
	v.Description = strings.TrimSpace(in.Description)
	v.PricePerDay = in.PricePerDay
	if ref := strings.TrimSpace(in.ImageRef); ref != "" {
		v.ImageRef = ref
	}

	if err := s.store.Update(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

// Delete 删除车辆。已有预订不受影响（快照字段仍可展示），
// 其后对这些预订的续租会因车辆缺失而失败。
func (s *Service) Delete(ctx context.Context, id string) error {
	if s == nil || s.store == nil {
		return fmt.Errorf("service not initialized")
	}
	return s.store.Delete(ctx, strings.TrimSpace(id))
}
