package catalog

import (
	"errors"
	"time"
)

var (
	// ErrNotFound 车辆不存在
	ErrNotFound = errors.New("vehicle not found")
	// ErrInvalidPrice 日租金非法（负数或无法解析）
	ErrInvalidPrice = errors.New("invalid price_per_day")
	// ErrInvalidName 车辆名称为空
	ErrInvalidName = errors.New("vehicle name required")
)

// Vehicle 是 vehicles 表的 GORM 模型。
// ImageRef 只是一个指向资源存储的不透明引用，图片字节由 asset 层负责。
type Vehicle struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	Name        string    `gorm:"size:64;not null" json:"name"`
	Type        string    `gorm:"size:32" json:"type"`
	Description string    `gorm:"size:512" json:"description"`
	PricePerDay int64     `gorm:"not null;default:0" json:"price_per_day"` // 单位：分
	ImageRef    string    `gorm:"size:255" json:"image_reference"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
