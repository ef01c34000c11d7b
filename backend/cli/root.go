package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mehulBhatt911/Studysyn/backend/config"
	"github.com/mehulBhatt911/Studysyn/backend/storage"
	"github.com/mehulBhatt911/Studysyn/backend/tracker"
	"github.com/mehulBhatt911/Studysyn/backend/utils"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	EnvFile string
	Verbose bool

	// Clock decides "today" for every command.
	Clock tracker.Clock
}

// NewRootCommand creates the root command for the studysyn CLI.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{Clock: tracker.SystemClock{}})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "studysyn",
		Short: "Studysyn - exam countdowns and streak challenges",
		Long:  "Track exam countdowns and day-by-day streak challenges on a month calendar.",
	}

	cmd.PersistentFlags().StringVar(&opts.EnvFile, "env", "", "dotenv file to load (default .env)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "debug logging")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewImportCommand(opts))
	cmd.AddCommand(NewExportCommand(opts))
	cmd.AddCommand(NewTodayCommand(opts))

	return cmd
}

// env bundles what every data command needs.
type env struct {
	cfg   *config.Config
	log   *zap.Logger
	store *storage.Store
	close func()
}

// open loads configuration, builds the logger and opens a migrated store.
func (o *RootOptions) open(ctx context.Context) (*env, error) {
	var files []string
	if o.EnvFile != "" {
		files = append(files, o.EnvFile)
	}
	cfg, err := config.LoadConfig(files...)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	level := cfg.LogLevel
	if o.Verbose {
		level = "debug"
	}
	log, err := utils.InitLogger(utils.LoggerConfig{Format: cfg.LogFormat, Level: level})
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	db, err := utils.InitDB(cfg)
	if err != nil {
		return nil, err
	}
	closeDB := func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
		_ = log.Sync()
	}

	store := storage.New(db)
	if err := store.Migrate(ctx); err != nil {
		closeDB()
		return nil, err
	}
	return &env{cfg: cfg, log: log, store: store, close: closeDB}, nil
}
