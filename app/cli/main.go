// Command caseassist-cli provisions accounts and trains the initial model.
package main

import (
	"fmt"
	"os"

	"caseAssist/pkg/config"
	"caseAssist/pkg/database"
	"caseAssist/pkg/logger"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var rootCmd = &cobra.Command{
	Use:           "caseassist-cli",
	Short:         "Case management admin tools",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// openDB loads config, initialises the logger and returns a migrated
// connection.
func openDB(models ...any) (*config.Config, *gorm.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	logger.Init(cfg.App.Environment)

	db, err := database.InitPostgres(cfg)
	if err != nil {
		return nil, nil, err
	}
	if err := database.AutoMigrate(db, models...); err != nil {
		_ = database.Close(db)
		return nil, nil, err
	}
	return cfg, db, nil
}
