package account

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// GormStore 基于 GORM 的账号存储。
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

func (s *GormStore) Create(ctx context.Context, a *Account) error {
	db := s.withCtx(ctx)
	if db == nil {
		return fmt.Errorf("store db is nil")
	}
	if err := db.Create(a).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (s *GormStore) FindByName(ctx context.Context, namespace, username string) (*Account, error) {
	db := s.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("store db is nil")
	}
	var a Account
	err := db.Where("namespace = ? AND username = ?", namespace, username).First(&a).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (s *GormStore) ListUsernames(ctx context.Context, namespace string) ([]string, error) {
	db := s.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("store db is nil")
	}
	var names []string
	err := db.Model(&Account{}).
		Where("namespace = ?", namespace).
		Order("created_at ASC").
		Pluck("username", &names).Error
	if err != nil {
		return nil, err
	}
	return names, nil
}
