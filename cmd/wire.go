package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/YelzhanWeb/cafebot/internal/adapter/logger"
	"github.com/YelzhanWeb/cafebot/internal/adapter/memory"
	"github.com/YelzhanWeb/cafebot/internal/adapter/postgres"
	"github.com/YelzhanWeb/cafebot/internal/adapter/redis"
	"github.com/YelzhanWeb/cafebot/internal/adapter/sqlite"
	"github.com/YelzhanWeb/cafebot/internal/config"
	"github.com/YelzhanWeb/cafebot/internal/interfaces"

	backend "github.com/redis/go-redis/v9"
)

// storage is every repository a command may need, plus what to close on exit
type storage struct {
	orders   interfaces.OrderRepository
	sessions interfaces.SessionRepository
	// checkout is set only when orders and sessions share a Postgres database
	checkout interfaces.OrderCheckout
	errorLog interfaces.ErrorLogRepository
	locker   interfaces.UserLocker
	closers  []func()
}

func (s *storage) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

func loadConfig() (*config.Config, logger.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger.New(cfg.App.Service, logger.ParseLevel(cfg.Log.Level)), nil
}

// openStorage connects the configured database and, when asked for, the
// session backend and distributed lock
func openStorage(ctx context.Context, cfg *config.Config, lgr logger.Logger, withSessions bool) (*storage, error) {
	st := &storage{}

	switch cfg.Database.Driver {
	case config.DriverPostgres:
		db, err := postgres.Connect(ctx, cfg.Database.DSN())
		if err != nil {
			return nil, err
		}
		st.closers = append(st.closers, db.Close)
		st.orders = postgres.NewOrderRepository(db)
		st.sessions = postgres.NewSessionRepository(db)
		st.errorLog = postgres.NewErrorLogRepository(db)
		st.checkout = postgres.NewOrderCheckout(db)

		lgr.Info("db_connected", "Connected to PostgreSQL database", "startup", map[string]interface{}{
			"host": cfg.Database.Host,
			"db":   cfg.Database.Database,
		})

	case config.DriverSQLite:
		if dir := filepath.Dir(cfg.Database.Path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
		store, err := sqlite.Open(cfg.Database.Path)
		if err != nil {
			return nil, err
		}
		st.closers = append(st.closers, func() { store.Close() })
		st.orders = sqlite.NewOrderRepository(store)
		st.sessions = sqlite.NewSessionRepository(store)
		st.errorLog = sqlite.NewErrorLogRepository(store)

		lgr.Info("db_connected", "Opened SQLite database", "startup", map[string]interface{}{
			"path": cfg.Database.Path,
		})
	}

	if !withSessions {
		return st, nil
	}

	var client *backend.Client
	if cfg.Sessions.Backend == config.SessionsRedis || cfg.Sessions.DistributedLock {
		c, err := redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			st.Close()
			return nil, err
		}
		client = c
		st.closers = append(st.closers, func() { c.Close() })

		lgr.Info("redis_connected", "Connected to Redis", "startup", map[string]interface{}{
			"addr": cfg.Redis.Addr,
		})
	}

	switch cfg.Sessions.Backend {
	case config.SessionsRedis:
		st.sessions = redis.NewSessionStore(client, redis.WithPrefix(cfg.Redis.Prefix), redis.WithTTL(cfg.Sessions.TTL))
		st.checkout = nil
	case config.SessionsMemory:
		st.sessions = memory.NewSessionStore()
		st.checkout = nil
	}

	if cfg.Sessions.DistributedLock {
		st.locker = redis.NewLocker(client, cfg.Redis.Prefix)
	}

	return st, nil
}
