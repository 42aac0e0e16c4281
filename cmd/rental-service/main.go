package main

import (
	"flag"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"

	"github.com/DriveEzzy/DriveEzzy/internal/account"
	"github.com/DriveEzzy/DriveEzzy/internal/adminview"
	"github.com/DriveEzzy/DriveEzzy/internal/asset"
	"github.com/DriveEzzy/DriveEzzy/internal/booking"
	"github.com/DriveEzzy/DriveEzzy/internal/catalog"
	"github.com/DriveEzzy/DriveEzzy/internal/common/config"
	"github.com/DriveEzzy/DriveEzzy/internal/common/db"
	"github.com/DriveEzzy/DriveEzzy/internal/common/logger"
	"github.com/DriveEzzy/DriveEzzy/internal/common/middleware"
	"github.com/DriveEzzy/DriveEzzy/internal/common/server"
	"github.com/DriveEzzy/DriveEzzy/internal/common/tracing"
	"github.com/DriveEzzy/DriveEzzy/internal/notify"
)

var (
	configPath      = flag.String("config", "configs/rental-service.json", "配置文件路径")
	configConsulKey = flag.String("config-consul-key", "", "从 Consul KV 覆盖配置的 key（可选）")
)

func main() {
	flag.Parse()

	// 加载配置：先读文件（拿到 Consul 地址），指定了 KV key 时再整体覆盖
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}
	if *configConsulKey != "" {
		cfg, err = config.LoadConfigFromConsulKV(cfg.Consul.Host, cfg.Consul.Port, *configConsulKey)
		if err != nil {
			panic(fmt.Sprintf("failed to load config from consul kv: %v", err))
		}
	}

	// 初始化日志
	log, err := logger.NewLogger(cfg.Log.Driver, cfg.Log.Level, cfg.Log.Format, cfg.Log.Output, cfg.Log.Path)
	if err != nil {
		panic(fmt.Sprintf("failed to init logger: %v", err))
	}

	// 初始化链路追踪
	tracer, closer, err := tracing.InitTracer(
		cfg.Server.Name,
		cfg.Jaeger.Endpoint,
		cfg.Jaeger.Sampler,
	)
	if err != nil {
		log.Warnf("failed to init tracer: %v", err)
	} else {
		defer closer.Close()
	}
	_ = tracer

	// 存储层：mysql 或 memory
	vehicleStore, accountStore, bookingStore, err := buildStores(cfg, log)
	if err != nil {
		log.Fatalf("failed to init stores: %v", err)
	}

	// 车辆图片存储
	assets, err := asset.NewStore(cfg.Asset.Dir)
	if err != nil {
		log.Fatalf("failed to init asset store: %v", err)
	}

	// 通知投递（尽力而为，失败只记日志）
	var sink notify.Sink = notify.NopSink{}
	if cfg.Notify.Enabled {
		sink = notify.NewWebhookSink(cfg.Notify.Endpoint, time.Duration(cfg.Notify.TimeoutMS)*time.Millisecond)
	}
	dispatcher := notify.NewDispatcher(sink, log, time.Duration(cfg.Notify.TimeoutMS)*time.Millisecond)
	defer dispatcher.Close()

	// 业务层
	vehicleSvc := catalog.NewService(vehicleStore)
	accountSvc := account.NewService(accountStore)
	ledger := booking.NewLedger(bookingStore, vehicleSvc, dispatcher)

	// 传输层
	accountHandler := account.NewHandler(accountSvc, cfg.Auth, dispatcher)
	catalogHandler := catalog.NewHandler(vehicleSvc, assets)
	bookingHandler := booking.NewHandler(ledger)
	adminHandler := adminview.NewHandler(vehicleSvc, accountSvc, ledger)

	router := buildRouter(cfg, log, accountHandler, catalogHandler, bookingHandler, adminHandler)

	if err := server.RunHTTPServer(cfg, log, router); err != nil {
		log.Fatalf("rental-service exited with error: %v", err)
	}
}

// buildStores 按配置选择存储实现。memory 用于本地开发，不落盘。
func buildStores(cfg *config.Config, log logger.Logger) (catalog.Store, account.Store, booking.Store, error) {
	switch cfg.Database.Driver {
	case "memory":
		log.Warn("using in-memory stores, data will not survive a restart")
		return catalog.NewMemStore(), account.NewMemStore(), booking.NewMemStore(), nil
	case "mysql", "":
		gdb, err := db.NewMySQL(
			cfg.Database.Host,
			cfg.Database.Port,
			cfg.Database.User,
			cfg.Database.Password,
			cfg.Database.Database,
			cfg.Database.MaxIdle,
			cfg.Database.MaxOpen,
		)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := autoMigrate(gdb); err != nil {
			return nil, nil, nil, err
		}
		return catalog.NewGormStore(gdb), account.NewGormStore(gdb), booking.NewGormStore(gdb), nil
	default:
		return nil, nil, nil, fmt.Errorf("unknown database driver: %s", cfg.Database.Driver)
	}
}

func autoMigrate(gdb *gorm.DB) error {
	if err := gdb.AutoMigrate(
		&catalog.Vehicle{},
		&account.Account{},
		&booking.Booking{},
	); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// buildRouter 组装中间件链与路由树。
// 公开路径（注册/登录/健康检查）由 auth.public_paths 放行，
// 其余接口先过 JWT，再按命名空间分流。
func buildRouter(
	cfg *config.Config,
	log logger.Logger,
	accountHandler *account.Handler,
	catalogHandler *catalog.Handler,
	bookingHandler *booking.Handler,
	adminHandler *adminview.Handler,
) http.Handler {
	r := chi.NewRouter()

	r.Use(server.Recovery(log))
	r.Use(server.Tracing(cfg.Server.Name))
	r.Use(server.AccessLog(log))
	if cfg.RateLimit.Enabled {
		r.Use(server.RateLimit(middleware.NewTokenBucket(cfg.RateLimit.Capacity, cfg.RateLimit.RefillPerSec)))
	}
	if cfg.Auth.Enabled {
		r.Use(server.JWTAuth(cfg.Auth, log))
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api/v1", func(r chi.Router) {
		// 注册 / 登录（含 admin 入口），无需 token
		accountHandler.Register(r)

		// 车辆浏览：任何已登录身份均可访问
		catalogHandler.Register(r)

		// 预订接口：仅限 user 命名空间
		r.Group(func(r chi.Router) {
			r.Use(server.RequireNamespace(account.NamespaceUser))
			bookingHandler.Register(r)
		})

		// 管理端接口
		r.Group(func(r chi.Router) {
			r.Use(server.RequireNamespace(account.NamespaceAdmin))
			r.Route("/admin", func(r chi.Router) {
				catalogHandler.RegisterAdmin(r)
				bookingHandler.RegisterAdmin(r)
				adminHandler.Register(r)
			})
		})
	})

	return r
}
