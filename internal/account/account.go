package account

import (
	"errors"
	"time"
)

// 账号命名空间。user 与 admin 互不相通，同名互不冲突。
const (
	NamespaceUser  = "user"
	NamespaceAdmin = "admin"
)

var (
	// ErrNotFound 账号不存在
	ErrNotFound = errors.New("account not found")
	// ErrAlreadyExists 同命名空间内用户名已存在
	ErrAlreadyExists = errors.New("account already exists")
	// ErrInvalidCredentials 用户名或密码不正确（二者不区分，避免枚举用户名）
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidNamespace 非法命名空间
	ErrInvalidNamespace = errors.New("invalid account namespace")
	// ErrInvalidInput 注册入参非法（用户名或密码为空）
	ErrInvalidInput = errors.New("username and password required")
)

// Account 是 accounts 表的 GORM 模型。
// 唯一约束是 (namespace, username) 组合，密码只存盐值哈希。
type Account struct {
	ID           string    `gorm:"primaryKey;size:36"`
	Namespace    string    `gorm:"uniqueIndex:idx_ns_username;size:16;not null"`
	Username     string    `gorm:"uniqueIndex:idx_ns_username;size:64;not null"`
	PasswordHash string    `gorm:"size:128;not null"`
	PasswordSalt string    `gorm:"size:64;not null"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

// ValidNamespace 校验命名空间取值。
func ValidNamespace(ns string) bool {
	return ns == NamespaceUser || ns == NamespaceAdmin
}
