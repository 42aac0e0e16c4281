package catalog

import "context"

// Store 车辆存储抽象。
// 提供 GORM（mysql）与内存两种实现，便于在无数据库环境下开发与测试。
type Store interface {
	Create(ctx context.Context, v *Vehicle) error
	Get(ctx context.Context, id string) (*Vehicle, error)
	// List 按创建顺序返回全部车辆。
	List(ctx context.Context) ([]Vehicle, error)
	Update(ctx context.Context, v *Vehicle) error
	Delete(ctx context.Context, id string) error
}
