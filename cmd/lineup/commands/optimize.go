package commands

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/stitts-dev/nba-lineup/internal/providers"
	"github.com/stitts-dev/nba-lineup/internal/report"
	"github.com/stitts-dev/nba-lineup/internal/services"
	"github.com/stitts-dev/nba-lineup/internal/slate"
	"github.com/stitts-dev/nba-lineup/pkg/logger"
)

var optimizeOpts struct {
	directoryFile string
	useDB         bool
	noProjection  bool
	format        string
}

var optimizeCmd = &cobra.Command{
	Use:   "optimize <slate.csv>",
	Short: "Project every player on a FanDuel slate and print the optimal lineup",
	Args:  cobra.ExactArgs(1),
	RunE:  runOptimize,
}

func init() {
	flags := optimizeCmd.Flags()
	flags.StringVar(&optimizeOpts.directoryFile, "directory", "", "CSV of Nickname,URL overrides for profile lookup")
	flags.BoolVar(&optimizeOpts.useDB, "use-db", false, "load profile overrides from the directory database")
	flags.BoolVar(&optimizeOpts.noProjection, "no-projection", false, "optimize on the slate's FPPG without fetching game logs")
	flags.StringVarP(&optimizeOpts.format, "format", "f", report.FormatPlain,
		"output format ("+strings.Join(report.Formats(), ", ")+")")

	flags.Int("workers", 0, "concurrent game log fetches")
	flags.Int("project-limit", 0, "project at most this many players, in slate order (0 = all)")
	flags.Duration("request-delay", 0, "minimum delay between stats site requests")
	flags.Duration("fetch-timeout", 0, "timeout for a single page fetch")
	flags.Int("salary-cap", 0, "lineup salary cap")
	flags.Int("game-window", 0, "number of recent games each projection uses")
	flags.Int("max-nodes", 0, "branch and bound node limit (0 = unlimited)")
	flags.String("redis-url", "", "Redis URL for the page cache")

	bindFlag(flags.Lookup("workers"), "WORKERS")
	bindFlag(flags.Lookup("project-limit"), "PROJECT_LIMIT")
	bindFlag(flags.Lookup("request-delay"), "REQUEST_DELAY")
	bindFlag(flags.Lookup("fetch-timeout"), "FETCH_TIMEOUT")
	bindFlag(flags.Lookup("salary-cap"), "SALARY_CAP")
	bindFlag(flags.Lookup("game-window"), "GAME_WINDOW")
	bindFlag(flags.Lookup("max-nodes"), "MAX_NODES")
	bindFlag(flags.Lookup("redis-url"), "REDIS_URL")

	rootCmd.AddCommand(optimizeCmd)
}

func runOptimize(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	runID := uuid.New().String()
	log := logger.WithRunID(runID)

	players, err := slate.LoadPlayers(args[0], logger.WithComponent("slate"))
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{
		"slate":   args[0],
		"players": len(players),
		"season":  cfg.Season,
	}).Info("loaded slate")

	rt := newRuntime(ctx, cfg)
	defer rt.Close()

	var projector *services.Projector
	if !optimizeOpts.noProjection {
		directory, err := loadDirectory(cmd, rt)
		if err != nil {
			return err
		}
		projector = rt.projector(directory)
	}

	pipeline := services.NewPipeline(projector, rt.rules(), rt.solverOptions(), logger.WithComponent("pipeline"))
	run, err := pipeline.Run(ctx, runID, players)
	if err != nil {
		return err
	}

	log.WithFields(logrus.Fields{
		"objective": run.Result.Objective,
		"nodes":     run.Result.Nodes,
		"duration":  run.Duration,
	}).Info("lineup optimized")

	return report.Write(cmd.OutOrStdout(), optimizeOpts.format, run.Result)
}

// loadDirectory merges the database overrides with the CSV file; the file
// wins on conflicting nicknames. nil means every player uses a guessed URL.
func loadDirectory(cmd *cobra.Command, rt *runtime) (providers.Directory, error) {
	if optimizeOpts.directoryFile == "" && !optimizeOpts.useDB {
		return nil, nil
	}

	directory := providers.DirectoryMap{}
	if optimizeOpts.useDB {
		store, err := rt.directoryStore()
		if err != nil {
			return nil, fmt.Errorf("failed to open directory database: %w", err)
		}
		stored, err := store.Load(cmd.Context())
		if err != nil {
			return nil, err
		}
		for nickname, url := range stored {
			directory[nickname] = url
		}
	}

	if optimizeOpts.directoryFile != "" {
		entries, err := slate.LoadDirectory(optimizeOpts.directoryFile)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			directory[e.Nickname] = e.URL
		}
	}

	logger.WithComponent("directory").WithField("entries", len(directory)).Info("loaded profile directory")
	return directory, nil
}
