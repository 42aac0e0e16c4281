package catalog

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// GormStore 基于 GORM 的车辆存储。
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) withCtx(ctx context.Context) *gorm.DB {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.WithContext(ctx)
}

func (s *GormStore) Create(ctx context.Context, v *Vehicle) error {
	db := s.withCtx(ctx)
	if db == nil {
		return fmt.Errorf("store db is nil")
	}
	return db.Create(v).Error
}

func (s *GormStore) Get(ctx context.Context, id string) (*Vehicle, error) {
	db := s.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("store db is nil")
	}
	var v Vehicle
	if err := db.Where("id = ?", id).First(&v).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &v, nil
}

func (s *GormStore) List(ctx context.Context) ([]Vehicle, error) {
	db := s.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("store db is nil")
	}
	var vehicles []Vehicle
	if err := db.Order("created_at ASC, id ASC").Find(&vehicles).Error; err != nil {
		return nil, err
	}
	return vehicles, nil
}

func (s *GormStore) Update(ctx context.Context, v *Vehicle) error {
	db := s.withCtx(ctx)
	if db == nil {
		return fmt.Errorf("store db is nil")
	}
	res := db.Model(&Vehicle{}).Where("id = ?", v.ID).Updates(map[string]interface{}{
		"name":          v.Name,
		"type":          v.Type,
		"description":   v.Description,
		"price_per_day": v.PricePerDay,
		"image_ref":     v.ImageRef,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) Delete(ctx context.Context, id string) error {
	db := s.withCtx(ctx)
	if db == nil {
		return fmt.Errorf("store db is nil")
	}
	res := db.Where("id = ?", id).Delete(&Vehicle{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
