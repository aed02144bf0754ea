package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/shopcore/internal/clock"
	"github.com/smallbiznis/shopcore/internal/config"
	"github.com/smallbiznis/shopcore/internal/migration"
	"github.com/smallbiznis/shopcore/internal/observability"
	"github.com/smallbiznis/shopcore/internal/scheduler"
	"github.com/smallbiznis/shopcore/internal/server"
	"github.com/smallbiznis/shopcore/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core Infrastructure
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,

		// HTTP surface and the domain modules behind it
		server.Module,

		// Background maintenance
		scheduler.Module,
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
