package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/billhub/internal/clock"
	"github.com/smallbiznis/billhub/internal/config"
	"github.com/smallbiznis/billhub/internal/migration"
	"github.com/smallbiznis/billhub/internal/observability"
	"github.com/smallbiznis/billhub/internal/seed"
	"github.com/smallbiznis/billhub/internal/server"
	"github.com/smallbiznis/billhub/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,
		server.Module,
		seed.Module,
	)
	app.Run()
}

func RegisterSnowflake() (*snowflake.Node, error) {
	return snowflake.NewNode(1)
}
