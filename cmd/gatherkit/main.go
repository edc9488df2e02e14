package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/gatherkit/gatherkit/internal/config"
	"github.com/gatherkit/gatherkit/internal/logger"
	"github.com/gatherkit/gatherkit/internal/migration"
	"github.com/gatherkit/gatherkit/internal/server"
	"github.com/gatherkit/gatherkit/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		logger.Module,
		fx.Provide(registerSnowflake),
		db.Module,
		migration.Module,
		server.Module,
	)
	app.Run()
}

func registerSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
