package migration

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/orderdesk/internal/config"
	"github.com/smallbiznis/orderdesk/internal/seed"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config, genID *snowflake.Node) error {
		sqlDB, err := conn.DB()
		if err != nil {
			return err
		}

		if err := RunMigrations(sqlDB, cfg.DBType); err != nil {
			return err
		}

		return seed.EnsureDefaultCity(conn, genID, cfg.DefaultCity)
	}),
)
