package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"ShellFM/core/library"
	"ShellFM/db"
	"ShellFM/repository"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan the music directory and exit",
	Long:  `Walks the music directory once, catalogs every new audio file, prints the number of tracks added, and exits. Suitable for cron.`,
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
		return nil
	},
}

func init() {
	rootCmd.AddCommand(scanCmd)
}
