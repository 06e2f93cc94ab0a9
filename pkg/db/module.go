package db

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/smallbiznis/orderdesk/internal/config"
	"github.com/smallbiznis/orderdesk/internal/observability/logger"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("db",
	fx.Provide(Open),
)

// Open builds the shared gorm handle and ties its lifecycle to the fx app.
func Open(lc fx.Lifecycle, cfg config.Config, log *zap.Logger) (*gorm.DB, error) {
	if cfg.DBType == "sqlite" {
		if dir := filepath.Dir(cfg.DBPath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, err
			}
		}
	}

	dialector, err := Dialect(cfg)
	if err != nil {
		return nil, err
	}

	conn, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.NewGormLogger(logger.DefaultGormLoggerConfig()),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return nil, err
	}

	if cfg.DBMaxIdleConn > 0 {
		sqlDB.SetMaxIdleConns(cfg.DBMaxIdleConn)
	}
	if cfg.DBMaxOpenConn > 0 {
		sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConn)
	}
	if cfg.DBConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(time.Duration(cfg.DBConnMaxLifetime) * time.Second)
	}
	if cfg.DBConnMaxIdleTime > 0 {
		sqlDB.SetConnMaxIdleTime(time.Duration(cfg.DBConnMaxIdleTime) * time.Second)
	}

	if cfg.DBType == "sqlite" {
		// Single-writer embedded store: WAL keeps readers unblocked,
		// foreign_keys enforces the order -> reference links.
		if err := conn.Exec("PRAGMA journal_mode = WAL").Error; err != nil {
			return nil, err
		}
		if err := conn.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
			return nil, err
		}
	}

	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			log.Info("closing database handle", zap.String("type", cfg.DBType))
			return sqlDB.Close()
		},
	})

	return conn, nil
}
