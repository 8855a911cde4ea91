package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ShellFM/config"
	"ShellFM/core/library"
	"ShellFM/core/player"
	"ShellFM/core/shell"
	"ShellFM/db"
	"ShellFM/logger"
	"ShellFM/repository"
)

var musicDir string

var rootCmd = &cobra.Command{
	Use:   "shellfm",
	Short: "ShellFM is a command-driven audio library manager.",
	Long:  `ShellFM indexes audio files into a persistent catalog and drives an external player process from an interactive shell.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := bootstrap()
		if err != nil {
			return err
		}
		defer db.Close()

		tracks := repository.NewSQLiteTrackRepository(db.DB)
		playlists := repository.NewSQLitePlaylistRepository(db.DB)
		scanner := library.NewScanner(tracks, nil)
		ctrl := player.NewController(player.NewProcessLauncher(cfg.PlayerPath), cfg.StopTimeout)
		defer ctrl.Stop()

		return shell.New(tracks, playlists, scanner, ctrl, cfg.MusicDir, os.Stdin, os.Stdout).Run()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&musicDir, "dir", "d", "", "music directory (overrides MUSIC_DIR)")
}

// bootstrap loads configuration, initializes logging, and connects the
// catalog. Shared by the root command and its subcommands.
func bootstrap() (*config.Config, error) {
	cfg := config.Load()
	if musicDir != "" {
		cfg.MusicDir = musicDir
	}

	logger.InitLogger(logger.Config{
		Level:      logger.LogLevel(cfg.LogLevel),
		OutputPath: cfg.LogPath,
		MaxSize:    cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
		MaxAge:     cfg.LogMaxAgeDays,
		Compress:   true,
	})

	if err := db.Connect(cfg); err != nil {
		return nil, fmt.Errorf("failed to connect catalog: %w", err)
	}
	if err := db.InitDB(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize catalog: %w", err)
	}
	return cfg, nil
}

// Execute executes the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
