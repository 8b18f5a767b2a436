package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/stitts-dev/nba-lineup/internal/models"
	"github.com/stitts-dev/nba-lineup/internal/providers"
	"github.com/stitts-dev/nba-lineup/internal/slate"
	"github.com/stitts-dev/nba-lineup/pkg/logger"
)

var directoryBuildOut string

var directoryCmd = &cobra.Command{
	Use:   "directory",
	Short: "Manage the nickname to game log URL directory",
}

var directoryBuildCmd = &cobra.Command{
	Use:   "build",
	Short: "Crawl the player index and store every active player's game log URL",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		log := logger.WithComponent("directory")

		rt := newRuntime(ctx, cfg)
		defer rt.Close()

		store, err := rt.directoryStore()
		if err != nil {
			return fmt.Errorf("failed to open directory database: %w", err)
		}

		crawler := providers.NewDirectoryCrawler(rt.client, cfg.BaseURL, cfg.Season, logger.WithComponent("crawler"))
		entries, err := crawler.Crawl(ctx)
		if err != nil {
			return err
		}
		if err := store.Upsert(ctx, entries); err != nil {
			return err
		}
		log.WithField("entries", len(entries)).Info("directory built")

		if directoryBuildOut != "" {
			return writeDirectoryFile(directoryBuildOut, entries)
		}
		return nil
	},
}

var directoryExportCmd = &cobra.Command{
	Use:   "export <file.csv>",
	Short: "Write the stored directory as CSV",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt := newRuntime(cmd.Context(), cfg)
		defer rt.Close()

		store, err := rt.directoryStore()
		if err != nil {
			return fmt.Errorf("failed to open directory database: %w", err)
		}
		entries, err := store.All(cmd.Context())
		if err != nil {
			return err
		}
		return writeDirectoryFile(args[0], entries)
	},
}

var directoryImportCmd = &cobra.Command{
	Use:   "import <file.csv>",
	Short: "Load Nickname,URL rows from CSV into the directory database",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		entries, err := slate.LoadDirectory(args[0])
		if err != nil {
			return err
		}

		rt := newRuntime(cmd.Context(), cfg)
		defer rt.Close()

		store, err := rt.directoryStore()
		if err != nil {
			return fmt.Errorf("failed to open directory database: %w", err)
		}
		if err := store.Upsert(cmd.Context(), entries); err != nil {
			return err
		}
		logger.WithComponent("directory").WithField("entries", len(entries)).Info("directory imported")
		return nil
	},
}

func init() {
	directoryBuildCmd.Flags().StringVarP(&directoryBuildOut, "out", "o", "", "also write the crawled directory to this CSV file")

	directoryCmd.AddCommand(directoryBuildCmd, directoryExportCmd, directoryImportCmd)
	rootCmd.AddCommand(directoryCmd)
}

func writeDirectoryFile(path string, entries []models.DirectoryEntry) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := slate.WriteDirectory(f, entries); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
