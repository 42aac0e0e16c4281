package account

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Service 账号注册 / 认证用例。
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Register 在指定命名空间注册账号。
// 存在性检查 + 写入；同名（同命名空间）返回 ErrAlreadyExists。
func (s *Service) Register(ctx context.Context, namespace, username, password string) (*Account, error) {
	if s == nil || s.store == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	if !ValidNamespace(namespace) {
		return nil, ErrInvalidNamespace
	}
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrInvalidInput
	}

	// check existence
	if _, err := s.store.FindByName(ctx, namespace, username); err == nil {
		return nil, ErrAlreadyExists
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	salt, err := GenerateSaltHex()
	if err != nil {
		return nil, err
	}
	hash, err := HashPassword(password, salt)
	if err != nil {
		return nil, err
	}

	a := &Account{
		ID:           uuid.NewString(),
		Namespace:    namespace,
		Username:     username,
		PasswordHash: hash,
		PasswordSalt: salt,
	}
	if err := s.store.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// Authenticate 校验凭据。任何失败（账号不存在 / 密码不匹配）
// 统一返回 ErrInvalidCredentials。
func (s *Service) Authenticate(ctx context.Context, namespace, username, password string) (*Account, error) {
	if s == nil || s.store == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	if !ValidNamespace(namespace) {
		return nil, ErrInvalidNamespace
	}
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	a, err := s.store.FindByName(ctx, namespace, username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !VerifyPassword(password, a.PasswordSalt, a.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return a, nil
}

// ListUsernames 管理端概览：命名空间内全部用户名。
func (s *Service) ListUsernames(ctx context.Context, namespace string) ([]string, error) {
	if s == nil || s.store == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	if !ValidNamespace(namespace) {
		return nil, ErrInvalidNamespace
	}
	return s.store.ListUsernames(ctx, namespace)
}
