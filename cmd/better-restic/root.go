package main

import (
	"io"
	"os"

	"github.com/fgeck/better-restic/internal/config"
	"github.com/fgeck/better-restic/internal/logging"
	"github.com/fgeck/better-restic/internal/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	// Version is set at build time.
	Version = "dev"

	// Configuration flags.
	configFile string
	verbose    bool
	quiet      bool
	jsonOutput bool
	dryRun     bool
)

var rootCmd = &cobra.Command{
	Use:   "better-restic",
	Short: "Run restic backups from a YAML configuration",
	Long: `better-restic reads a YAML configuration and runs one restic backup of the
configured directories. Failures are classified and explained with concrete
remediation steps (uninitialized repository, wrong password, missing restic).

The operational log is written to logging.directory and rotated when it
reaches logging.max_size, rounded up to whole MiB (a "100KB" limit rotates
at 1 MiB). Three rotated files are kept.

Run without a subcommand to back up once, or use "serve" for the local web UI.
Scheduling is left to an external scheduler (cron, systemd timer, etc.)`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging()
	},
	SilenceUsage: true,
	RunE:         runBackup,
	Version:      Version,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", config.DefaultPath, "config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output (debug logs, restic --verbose)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "enable quiet mode (errors only)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output logs in JSON format")
	rootCmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "show what would be backed up without writing to the repository")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(snapshotsCmd)
}

func setupLogging() {
	log.Logger = zerolog.New(logging.ConsoleWriter(os.Stderr, jsonOutput)).With().Timestamp().Logger()
	zerolog.SetGlobalLevel(logging.Level(quiet, verbose))
}

// loadConfig reads the config file and attaches the rotating operational log.
// The returned closer releases the log file.
func loadConfig() (*models.Config, io.Closer, error) {
	cfg, err := config.NewParser().LoadFile(configFile)
	if err != nil {
		log.Error().Err(err).Str("file", configFile).Msg("failed to load config")
		return nil, nil, err
	}

	file, err := logging.NewFileWriter(cfg.Logging)
	if err != nil {
		log.Error().Err(err).Str("directory", cfg.Logging.Directory).Msg("failed to set up log file")
		return nil, nil, err
	}

	console := logging.ConsoleWriter(os.Stderr, jsonOutput)
	log.Logger = zerolog.New(logging.Tee(console, file)).With().Timestamp().Logger()

	log.Debug().
		Str("config", configFile).
		Str("frequency", cfg.Backup.Frequency).
		Str("time", cfg.Backup.Time).
		Strs("directories", cfg.Backup.Directories).
		Strs("exclude", cfg.Backup.Exclude).
		Str("log_directory", cfg.Logging.Directory).
		Str("log_max_size", cfg.Logging.MaxSize).
		Int("log_rotate_mib", logging.RotationSizeMB(cfg.Logging.MaxSizeBytes)).
		Msg("settings")

	log.Info().
		Str("config", configFile).
		Str("repository", cfg.Restic.Repository).
		Int("directories", len(cfg.Backup.Directories)).
		Msg("configuration loaded")

	return cfg, file, nil
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
