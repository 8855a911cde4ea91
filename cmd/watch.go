package cmd

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"ShellFM/core/library"
	"ShellFM/db"
	"ShellFM/repository"
)

var watchDebounceSeconds int

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the music directory and rescan on changes",
	Long:  `Runs an initial scan, then watches the music directory and rescans whenever audio files are added. Stops on interrupt.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := bootstrap()
		if err != nil {
			return err
		}
		defer db.Close()

		scanner := library.NewScanner(repository.NewSQLiteTrackRepository(db.DB), nil)
		added, err := scanner.Scan(cfg.MusicDir)
		if err != nil {
			return err
		}
		fmt.Printf("Added %d new tracks to library\n", added)

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		watcher := library.NewWatcher(scanner, cfg.MusicDir, time.Duration(watchDebounceSeconds)*time.Second)
		return watcher.Watch(ctx)
	},
}

func init() {
	watchCmd.Flags().IntVar(&watchDebounceSeconds, "debounce", 2, "seconds to wait after the last event before rescanning")
	rootCmd.AddCommand(watchCmd)
}
