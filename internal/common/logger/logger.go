package logger

import (
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Logger 日志接口
type Logger interface {
	Debug(args ...interface{})
	Debugf(format string, args ...interface{})
	Info(args ...interface{})
	Infof(format string, args ...interface{})
	Warn(args ...interface{})
	Warnf(format string, args ...interface{})
	Error(args ...interface{})
	Errorf(format string, args ...interface{})
	Fatal(args ...interface{})
	Fatalf(format string, args ...interface{})
	WithFields(fields map[string]interface{}) Logger
	WithField(key string, value interface{}) Logger
}

// NewLogger 按 driver 创建 Logger（logrus / zap，默认 logrus）
func NewLogger(driver, level, format, output, path string) (Logger, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "zap":
		return NewZapLogger(level, format, output, path)
	default:
		return NewLogrusLogger(level, format, output, path)
	}
}

// buildWriter 根据 output 配置构建日志输出目标。
// output=file 时同时写 stdout 和文件，便于容器内排查。
func buildWriter(output, path string) (io.Writer, error) {
	if output != "file" {
		return os.Stdout, nil
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return nil, err
	}
	return io.MultiWriter(os.Stdout, file), nil
}
