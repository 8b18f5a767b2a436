package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/stitts-dev/nba-lineup/internal/dfs"
	"github.com/stitts-dev/nba-lineup/internal/report"
	"github.com/stitts-dev/nba-lineup/pkg/config"
	"github.com/stitts-dev/nba-lineup/pkg/logger"
)

// Exit statuses.
const (
	ExitOK         = 0
	ExitError      = 1
	ExitInfeasible = 2
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:           "lineup",
	Short:         "lineup projects NBA players from recent game logs and builds the best FanDuel lineup.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
		logger.InitLogger(cfg.LogLevel, cfg.IsDevelopment())
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("env", "", "runtime environment (development, production)")
	rootCmd.PersistentFlags().String("base-url", "", "stats site base URL")
	rootCmd.PersistentFlags().Int("season", 0, "season end year for game logs (default: current season)")
	rootCmd.PersistentFlags().String("database-url", "", "directory database (SQLite path or postgres:// URL)")

	bindFlag(rootCmd.PersistentFlags().Lookup("log-level"), "LOG_LEVEL")
	bindFlag(rootCmd.PersistentFlags().Lookup("env"), "ENV")
	bindFlag(rootCmd.PersistentFlags().Lookup("base-url"), "BASE_URL")
	bindFlag(rootCmd.PersistentFlags().Lookup("season"), "SEASON")
	bindFlag(rootCmd.PersistentFlags().Lookup("database-url"), "DATABASE_URL")
}

// ExecuteContext runs the CLI and returns the process exit status.
func ExecuteContext(ctx context.Context) int {
	err := rootCmd.ExecuteContext(ctx)
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, dfs.ErrInfeasible):
		fmt.Fprintln(rootCmd.OutOrStdout(), report.InfeasibleMessage)
		return ExitInfeasible
	default:
		fmt.Fprintln(rootCmd.ErrOrStderr(), err)
		return ExitError
	}
}

func bindFlag(flag *pflag.Flag, key string) {
	if err := viper.BindPFlag(key, flag); err != nil {
		panic(fmt.Sprintf("bind flag %s: %v", flag.Name, err))
	}
}
