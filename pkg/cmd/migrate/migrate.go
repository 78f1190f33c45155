package migrate

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/ayyushutup/boxbox/log"
	"github.com/ayyushutup/boxbox/pkg/config"
	dbmigrate "github.com/ayyushutup/boxbox/pkg/db/migrate"
	"github.com/ayyushutup/boxbox/pkg/utils"
)

func NewMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "creates or updates the catalog tables (track/driver/compound/scenario)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return startMigration()
		},
	}
	return cmd
}

func startMigration() error {
	timeout, err := time.ParseDuration(config.WaitForServices)
	if err != nil {
		log.Warn("invalid wait-for-services duration, using 60s", log.ErrorField(err))
		timeout = 60 * time.Second
	}
	if addr := utils.ExtractFromDBURL(config.DB); addr != "" {
		if err := utils.WaitForTCP(addr, timeout); err != nil {
			log.Fatal("database not ready", log.ErrorField(err))
		}
	}

	log.Info("running catalog migrations", log.String("db", config.DB))
	if config.MigrationSourceURL != "" {
		log.Info("using migration source override", log.String("source", config.MigrationSourceURL))
		return dbmigrate.MigrateDbFrom(config.MigrationSourceURL, config.DB)
	}
	return dbmigrate.MigrateDb(config.DB)
}
