package account

import "context"

// Store 账号存储抽象（GORM / 内存两种实现）。
type Store interface {
	Create(ctx context.Context, a *Account) error
	// FindByName 按 (namespace, username) 查找，不存在返回 ErrNotFound。
	FindByName(ctx context.Context, namespace, username string) (*Account, error)
	// ListUsernames 返回命名空间内全部用户名（管理端概览用）。
	ListUsernames(ctx context.Context, namespace string) ([]string, error)
}
