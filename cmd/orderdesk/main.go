package main

import (
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"

	"github.com/smallbiznis/orderdesk/internal/clock"
	"github.com/smallbiznis/orderdesk/internal/config"
	"github.com/smallbiznis/orderdesk/internal/migration"
	"github.com/smallbiznis/orderdesk/internal/observability"
	"github.com/smallbiznis/orderdesk/internal/server"
	"github.com/smallbiznis/orderdesk/pkg/db"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		server.Module,
		migration.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
