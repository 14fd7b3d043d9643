package main // Entry point package

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	glog "github.com/labstack/gommon/log"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/restroom-web/internal/api"
	"github.com/iliyamo/restroom-web/internal/config"
	"github.com/iliyamo/restroom-web/internal/database"
	"github.com/iliyamo/restroom-web/internal/handler"
	"github.com/iliyamo/restroom-web/internal/middleware"
	"github.com/iliyamo/restroom-web/internal/queue"
	"github.com/iliyamo/restroom-web/internal/router"
	queue_publisher "github.com/iliyamo/restroom-web/internal/service"
	"github.com/iliyamo/restroom-web/internal/store"
	"github.com/iliyamo/restroom-web/internal/view"
)

func main() {
	// .env is optional; real deployments set the environment directly
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("load .env: %v", err)
	}
	cfg := config.Load()
	rlCfg := config.LoadRateLimitConfig()
	auditCfg := config.LoadAuditConfig()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var rdb *redis.Client
	if cfg.Store.Driver == "redis" || rlCfg.Enabled {
		c, err := config.NewRedisClient()
		switch {
		case err == nil:
			rdb = c
			defer rdb.Close()
		case cfg.Store.Driver == "redis":
			log.Fatalf("redis connection failed: %v", err)
		default:
			log.Printf("redis unavailable, rate limiting disabled: %v", err)
		}
	}

	kv, closeKV := openKV(ctx, cfg.Store, rdb, cfg.VisitorTTL)
	defer closeKV()

	var sealer *store.Sealer
	if cfg.Store.EncryptionKey != "" {
		s, err := store.NewSealer(cfg.Store.EncryptionKey)
		if err != nil {
			log.Fatalf("STORE_ENCRYPTION_KEY: %v", err)
		}
		sealer = s
	}
	tokens := store.NewProvider(kv, cfg.Store.Prefix, sealer)

	listeners := []middleware.ListenerFactory{middleware.LogEvents}
	if auditCfg.Enabled {
		listeners = append(listeners, queue_publisher.NewPublisher(auditCfg).Listener)
		if auditCfg.Consumer {
			go func() {
				if err := queue.StartAuditConsumer(ctx, auditCfg); err != nil && !errors.Is(err, context.Canceled) {
					log.Printf("audit consumer stopped: %v", err)
				}
			}()
		}
	}

	renderer, err := view.New()
	if err != nil {
		log.Fatalf("templates: %v", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.Logger.SetLevel(logLevel(cfg.LogLevel))
	e.Renderer = renderer
	e.HTTPErrorHandler = handler.ErrorHandler
	e.Use(echomw.Recover())
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			c.Logger().Infof("%s %s %d %s", v.Method, v.URI, v.Status, v.Latency)
			return nil
		},
	}))

	client := api.New(cfg.APIBaseURL, cfg.APITimeout).WithHTTPClient(&http.Client{
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConnsPerHost: 16,
			IdleConnTimeout:     90 * time.Second,
		},
	})

	router.RegisterRoutes(e)
	router.RegisterViews(e, router.Views{
		Handler: handler.New(client),
		Tokens:  tokens,
		Visitor: middleware.VisitorConfig{
			Secret: cfg.SessionSecret,
			TTL:    cfg.VisitorTTL,
			Secure: cfg.SecureCookie,
		},
		RateLimit: rlCfg,
		Redis:     rdb,
		Listeners: listeners,
	})

	addr := ":" + cfg.Port
	go func() {
		log.Printf("listening on %s (env=%s, api=%s, store=%s)", addr, cfg.Env, client.BaseURL(), cfg.Store.Driver)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}

// openKV returns the key/value backend selected by STORE_DRIVER and a func
// releasing it.
func openKV(ctx context.Context, cfg config.StoreConfig, rdb *redis.Client, ttl time.Duration) (store.KV, func()) {
	switch cfg.Driver {
	case "redis":
		return store.NewRedisKV(rdb, ttl), func() {}
	case "mysql":
		db, err := database.Open(cfg)
		if err != nil {
			log.Fatalf("db connection failed: %v", err)
		}
		if err := database.Migrate(ctx, db); err != nil {
			log.Fatalf("db migrate failed: %v", err)
		}
		return store.NewSQLKV(db), func() { _ = db.Close() }
	default:
		log.Printf("using in-memory storage; login data is lost on restart")
		return store.NewMemoryKV(), func() {}
	}
}

func logLevel(s string) glog.Lvl {
	switch strings.ToLower(s) {
	case "debug":
		return glog.DEBUG
	case "warn":
		return glog.WARN
	case "error":
		return glog.ERROR
	case "off":
		return glog.OFF
	}
	return glog.INFO
}
