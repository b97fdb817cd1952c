package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/lankaconnect/eventpricing/internal/clock"
	"github.com/lankaconnect/eventpricing/internal/config"
	"github.com/lankaconnect/eventpricing/internal/migration"
	"github.com/lankaconnect/eventpricing/internal/observability"
	"github.com/lankaconnect/eventpricing/internal/server"
	"github.com/lankaconnect/eventpricing/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

func main() {
	app := fx.New(
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log.Named("fx")}
		}),

		// Core Infrastructure
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

func RegisterSnowflake(cfg config.Config) (*snowflake.Node, error) {
	return snowflake.NewNode(cfg.SnowflakeNode)
}
