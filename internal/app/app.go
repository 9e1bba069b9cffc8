package app

import (
	"context"
	"fmt"
	"time"

	"github.com/hello-jai/banking-management-system/internal/config"
	"github.com/hello-jai/banking-management-system/internal/repo"
	"github.com/hello-jai/banking-management-system/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

type App struct {
	cfg    config.Config
	rdb    *redis.Client
	bank   *service.BankService
	router *gin.Engine
}

func New(cfg config.Config) (*App, error) {
	a := &App{cfg: cfg}

	store := repo.NewJSONLedgerRepo(cfg.Data.CustomerFile, cfg.Data.AccountFile)
	bank, err := service.NewBankService(context.Background(), store)
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}
	a.bank = bank

	// Redis is optional; without it money endpoints still work, they just
	// lose idempotent replay.
	if cfg.Redis.Addr != "" {
		rdb, err := newRedis(cfg.Redis)
		if err != nil {
			return nil, err
		}
		a.rdb = rdb
	}

	a.router = newRouter(cfg, bank, a.rdb)
	return a, nil
}

func (a *App) Router() *gin.Engine {
	return a.router
}

func (a *App) Bank() *service.BankService {
	return a.bank
}

// Close releases the Redis connection and writes the ledger out one last
// time.
func (a *App) Close(ctx context.Context) error {
	if a.rdb != nil {
		_ = a.rdb.Close()
	}
	return a.bank.Flush(ctx)
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

func newRouter(cfg config.Config, bank *service.BankService, rdb *redis.Client) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS", "HEAD"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", "Idempotency-Key", "X-Admin-Password"},
		ExposeHeaders: []string{"Content-Length", "Content-Type", "X-Idempotency-Replay"},
		MaxAge:        12 * time.Hour,
	}))

	Setup(r, cfg, bank, rdb)
	return r
}
