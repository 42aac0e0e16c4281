package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

// Config 应用配置
type Config struct {
	Server    ServerConfig    `json:"server"`
	Database  DatabaseConfig  `json:"database"`
	Consul    ConsulConfig    `json:"consul"`
	Jaeger    JaegerConfig    `json:"jaeger"`
	Auth      AuthConfig      `json:"auth"`
	Notify    NotifyConfig    `json:"notify"`
	Asset     AssetConfig     `json:"asset"`
	RateLimit RateLimitConfig `json:"rate_limit"`
	Log       LogConfig       `json:"log"`
}

// ServerConfig 服务配置
type ServerConfig struct {
	Name string `json:"name"` // 服务名称
	Host string `json:"host"` // 服务地址
	Port int    `json:"port"` // HTTP端口
}

// DatabaseConfig 数据库配置
// driver 支持 mysql / memory（memory 用于本地开发与测试）
type DatabaseConfig struct {
	Driver   string `json:"driver"`   // 数据库驱动
	Host     string `json:"host"`     // 数据库地址
	Port     int    `json:"port"`     // 数据库端口
	User     string `json:"user"`     // 用户名
	Password string `json:"password"` // 密码
	Database string `json:"database"` // 数据库名
	MaxIdle  int    `json:"max_idle"` // 最大空闲连接
	MaxOpen  int    `json:"max_open"` // 最大打开连接
}

// ConsulConfig Consul配置
type ConsulConfig struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

// JaegerConfig Jaeger配置
type JaegerConfig struct {
	Endpoint string  `json:"endpoint"`
	Sampler  float64 `json:"sampler"` // 采样率 0.0-1.0
}

// AuthConfig 鉴权配置（HS256 JWT）
type AuthConfig struct {
	Enabled     bool     `json:"enabled"`
	JWTSecret   string   `json:"jwt_secret"`
	Issuer      string   `json:"issuer"`
	Audience    string   `json:"audience"`
	TokenTTLMin int      `json:"token_ttl_min"` // access token 有效期（分钟）
	PublicPaths []string `json:"public_paths"`  // 无需 token 的路径
}

// NotifyConfig 通知配置（webhook，尽力而为投递）
type NotifyConfig struct {
	Enabled   bool   `json:"enabled"`
	Endpoint  string `json:"endpoint"`   // webhook 地址
	TimeoutMS int    `json:"timeout_ms"` // 单次投递超时
}

// AssetConfig 静态资源（车辆图片）存储配置
type AssetConfig struct {
	Dir string `json:"dir"` // 上传文件根目录
}

// RateLimitConfig 限流配置（令牌桶）
type RateLimitConfig struct {
	Enabled      bool  `json:"enabled"`
	Capacity     int64 `json:"capacity"`       // 桶容量
	RefillPerSec int64 `json:"refill_per_sec"` // 每秒补充令牌
}

// LogConfig 日志配置
type LogConfig struct {
	Driver string `json:"driver"` // logrus, zap
	Level  string `json:"level"`  // debug, info, warn, error
	Format string `json:"format"` // json, text
	Output string `json:"output"` // stdout, file
	Path   string `json:"path"`   // 日志文件路径
}

var (
	globalConfig *Config
	configOnce   sync.Once
)

// LoadConfig 加载配置
func LoadConfig(configPath string) (*Config, error) {
	var err error
	configOnce.Do(func() {
		globalConfig = &Config{}
		// 如果配置文件不存在，使用默认配置
		if _, err = os.Stat(configPath); os.IsNotExist(err) {
			logrus.Warnf("Config file not found: %s, using default config", configPath)
			globalConfig = defaultConfig()
			err = nil
			return
		}

		data, readErr := os.ReadFile(configPath)
		if readErr != nil {
			err = fmt.Errorf("failed to read config file: %w", readErr)
			return
		}

		if unmarshalErr := json.Unmarshal(data, globalConfig); unmarshalErr != nil {
			err = fmt.Errorf("failed to parse config file: %w", unmarshalErr)
			return
		}
	})

	if err != nil {
		return nil, err
	}

	return globalConfig, nil
}

// defaultConfig 默认配置（开发环境）
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Name: "rental-service",
			Host: "0.0.0.0",
			Port: 8080,
		},
		Database: DatabaseConfig{
			Driver:   "memory",
			Host:     "localhost",
			Port:     3306,
			User:     "root",
			Password: "root",
			Database: "driveezzy",
			MaxIdle:  10,
			MaxOpen:  100,
		},
		Consul: ConsulConfig{
			Host: "localhost",
			Port: 8500,
		},
		Jaeger: JaegerConfig{
			Endpoint: "localhost:6831",
			Sampler:  1.0,
		},
		Auth: AuthConfig{
			Enabled:     true,
			JWTSecret:   "dev-only-secret",
			Issuer:      "driveezzy",
			Audience:    "driveezzy",
			TokenTTLMin: 24 * 60,
			PublicPaths: []string{
				"/healthz",
				"/api/v1/signup",
				"/api/v1/login",
				"/api/v1/admin/signup",
				"/api/v1/admin/login",
			},
		},
		Notify: NotifyConfig{
			Enabled:   false,
			Endpoint:  "http://localhost:9090/events",
			TimeoutMS: 2000,
		},
		Asset: AssetConfig{
			Dir: "static/uploads",
		},
		RateLimit: RateLimitConfig{
			Enabled:      true,
			Capacity:     200,
			RefillPerSec: 100,
		},
		Log: LogConfig{
			Driver: "logrus",
			Level:  "debug",
			Format: "text",
			Output: "stdout",
			Path:   "logs/app.log",
		},
	}
}
