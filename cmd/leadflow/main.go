package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/leadflowhq/leadflow/internal/clock"
	"github.com/leadflowhq/leadflow/internal/migration"
	"github.com/leadflowhq/leadflow/internal/observability"
	"github.com/leadflowhq/leadflow/internal/server"
	"github.com/leadflowhq/leadflow/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,
		server.Module,
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
