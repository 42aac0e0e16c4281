package asset

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotFound 资源不存在
var ErrNotFound = errors.New("asset not found")

// Store 文件系统资源存储（车辆图片）。
// 引用名 = 内容哈希前缀 + 清洗后的原始文件名，内容不变则引用稳定。
type Store struct {
	dir string
}

func NewStore(dir string) (*Store, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("asset dir is empty")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create asset dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Save 存储一份资源内容，返回不透明引用。
func (s *Store) Save(name string, r io.Reader) (string, error) {
	if s == nil || s.dir == "" {
		return "", fmt.Errorf("store not initialized")
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read asset: %w", err)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("asset is empty")
	}

	sum := sha256.Sum256(data)
	ref := hex.EncodeToString(sum[:])[:12] + "_" + sanitizeName(name)

	if err := os.WriteFile(filepath.Join(s.dir, ref), data, 0644); err != nil {
		return "", fmt.Errorf("failed to write asset: %w", err)
	}
	return ref, nil
}

// Open 按引用读取资源内容。
func (s *Store) Open(ref string) (io.ReadCloser, error) {
	if s == nil || s.dir == "" {
		return nil, fmt.Errorf("store not initialized")
	}
	if ref == "" || ref != sanitizeName(ref) {
		// 引用里不允许出现路径分隔符等字符
		return nil, ErrNotFound
	}
	f, err := os.Open(filepath.Join(s.dir, ref))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return f, nil
}

// sanitizeName 清洗文件名：只保留字母/数字/点/下划线/连字符。
func sanitizeName(name string) string {
	name = filepath.Base(strings.TrimSpace(name))
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '_' || r == '-':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	out := b.String()
	if out == "" || out == "." || out == ".." {
		out = "asset"
	}
	return out
}
