package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/malusanacoza-ui/TodoListManager/internal/auth"
	"github.com/malusanacoza-ui/TodoListManager/internal/config"
	"github.com/malusanacoza-ui/TodoListManager/internal/logging"
	"github.com/malusanacoza-ui/TodoListManager/internal/repo"
	"github.com/malusanacoza-ui/TodoListManager/migrations"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type App struct {
	cfg    config.Config
	logger *slog.Logger
	pg     *pgxpool.Pool
	gdb    *gorm.DB
	redis  *redis.Client
	store  store
	router *gin.Engine
}

// store is the persistence picked by DB_DRIVER.
type store struct {
	tasks repo.TaskRepo
	users repo.UserRepo
	ping  func(ctx context.Context) error
}

func New(cfg config.Config) (*App, error) {
	a := &App{cfg: cfg, logger: logging.New(cfg.Log, os.Stdout)}
	slog.SetDefault(a.logger)

	if err := a.openStore(); err != nil {
		return nil, err
	}

	rdb, err := newRedis(cfg.Redis)
	if err != nil {
		_ = a.Close(context.Background())
		return nil, err
	}
	a.redis = rdb

	a.router = newRouter(a)
	return a, nil
}

// Handler is the router behind the anti-forgery guard; serve this one.
func (a *App) Handler() http.Handler {
	return auth.Protect(a.router, auth.CSRFOptions{
		Key:            []byte(a.cfg.CSRF.Key),
		Secure:         a.cfg.CSRF.Secure,
		TrustedOrigins: trustedHosts(a.cfg.HTTP.Origins()),
	})
}

func (a *App) Close(ctx context.Context) error {
	_ = ctx
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if a.pg != nil {
		a.pg.Close()
	}
	if a.gdb != nil {
		if sqlDB, err := a.gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	return nil
}

func (a *App) openStore() error {
	switch a.cfg.DB.Driver {
	case config.DriverSQLite:
		db, err := repo.OpenSQLite(a.cfg.DB.SQLitePath, a.logger.Enabled(context.Background(), slog.LevelDebug))
		if err != nil {
			return err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return fmt.Errorf("sqlite handle: %w", err)
		}
		a.gdb = db
		a.store = store{
			tasks: repo.NewGormTaskRepo(db),
			users: repo.NewGormUserRepo(db),
			ping:  sqlDB.PingContext,
		}
		a.logger.Info("using sqlite", "path", a.cfg.DB.SQLitePath)
	default:
		if a.cfg.DB.AutoMigrate {
			if err := migrations.Up(a.cfg.DB.DSN); err != nil {
				return err
			}
		}
		pool, err := newPostgres(a.cfg.DB.DSN)
		if err != nil {
			return err
		}
		a.pg = pool
		a.store = store{
			tasks: repo.NewPGTaskRepo(pool),
			users: repo.NewPGUserRepo(pool),
			ping:  pool.Ping,
		}
		a.logger.Info("using postgres")
	}
	return nil
}

func newPostgres(dsn string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("pg parse config: %w", err)
	}
	cfg.MaxConns = 10
	cfg.MinConns = 2
	cfg.MaxConnIdleTime = 5 * time.Minute
	cfg.MaxConnLifetime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(context.Background(), cfg)
	if err != nil {
		return nil, fmt.Errorf("pg connect: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pg ping: %w", err)
	}

	return pool, nil
}

func newRedis(cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return rdb, nil
}

func newRouter(a *App) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), logging.Middleware(a.logger))

	origins := a.cfg.HTTP.Origins()
	// Browsers reject credentialed responses for a wildcard origin.
	anyOrigin := len(origins) == 0 || slices.Contains(origins, "*")
	if anyOrigin {
		origins = []string{"*"}
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowCredentials: !anyOrigin,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS", "HEAD"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "Cookie", auth.CSRFHeader, logging.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", "Content-Type", "Location", auth.CSRFHeader, logging.RequestIDHeader},
		MaxAge:           12 * time.Hour,
	}))

	Setup(r, a)
	return r
}

// trustedHosts turns CORS origins into the host list gorilla/csrf compares Origin against.
func trustedHosts(origins []string) []string {
	var hosts []string
	for _, o := range origins {
		if o == "*" {
			continue
		}
		if u, err := url.Parse(o); err == nil && u.Host != "" {
			hosts = append(hosts, u.Host)
			continue
		}
		hosts = append(hosts, strings.TrimSuffix(o, "/"))
	}
	return hosts
}
