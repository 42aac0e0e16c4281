package booking

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// GormStore 基于 GORM 的预订存储。
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

func (s *GormStore) Create(ctx context.Context, b *Booking) error {
	db := s.withCtx(ctx)
	if db == nil {
		return fmt.Errorf("store db is nil")
	}
	return db.Create(b).Error
}

func (s *GormStore) Get(ctx context.Context, owner, id string) (*Booking, error) {
	db := s.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("store db is nil")
	}
	var b Booking
	err := db.Where("owner = ? AND id = ?", owner, id).First(&b).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (s *GormStore) Update(ctx context.Context, b *Booking) error {
	db := s.withCtx(ctx)
	if db == nil {
		return fmt.Errorf("store db is nil")
	}
	res := db.Model(&Booking{}).
		Where("owner = ? AND id = ?", b.Owner, b.ID).
		Updates(map[string]interface{}{
			"end_date":   b.EndDate,
			"total_cost": b.TotalCost,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrBookingNotFound
	}
	return nil
}

func (s *GormStore) Delete(ctx context.Context, owner, id string) error {
	db := s.withCtx(ctx)
	if db == nil {
		return fmt.Errorf("store db is nil")
	}
	res := db.Where("owner = ? AND id = ?", owner, id).Delete(&Booking{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrBookingNotFound
	}
	return nil
}

func (s *GormStore) ListForOwner(ctx context.Context, owner string) ([]Booking, error) {
	db := s.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("store db is nil")
	}
	var bookings []Booking
	err := db.Where("owner = ?", owner).
		Order("created_at ASC, id ASC").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

func (s *GormStore) ListAll(ctx context.Context) (map[string][]string, error) {
	db := s.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("store db is nil")
	}
	var bookings []Booking
	err := db.Select("id", "owner").
		Order("created_at ASC, id ASC").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	out := make(map[string][]string)
	for _, b := range bookings {
		out[b.Owner] = append(out[b.Owner], b.ID)
	}
	return out, nil
}
