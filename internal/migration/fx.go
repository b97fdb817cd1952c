package migration

import (
	"github.com/bwmarrin/snowflake"
	"github.com/lankaconnect/eventpricing/internal/config"
	"github.com/lankaconnect/eventpricing/internal/seed"
	taxratedomain "github.com/lankaconnect/eventpricing/internal/taxrate/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config, node *snowflake.Node, repo taxratedomain.Repository, log *zap.Logger) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else if err := AutoMigrate(conn); err != nil {
			return err
		}

		if err := seed.EnsureStateTaxRates(conn, node, repo); err != nil {
			return err
		}
		log.Info("schema ready", zap.String("db_type", cfg.DBType))
		return nil
	}),
)
