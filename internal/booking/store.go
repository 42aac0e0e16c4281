package booking

import "context"

// Store 预订存储抽象（GORM / 内存两种实现）。
// 读写都以 owner 为边界：Get / Delete 只在该 owner 名下查找，
// 拿着别人的 booking_id 也只会得到 ErrBookingNotFound。
type Store interface {
	Create(ctx context.Context, b *Booking) error
	Get(ctx context.Context, owner, id string) (*Booking, error)
	Update(ctx context.Context, b *Booking) error
	Delete(ctx context.Context, owner, id string) error
	// ListForOwner 按创建顺序返回 owner 的全部预订。
	ListForOwner(ctx context.Context, owner string) ([]Booking, error)
	// ListAll 返回 owner -> booking_id 列表（管理端概览）。
	ListAll(ctx context.Context) (map[string][]string, error)
}
