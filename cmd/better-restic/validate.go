package main

import (
	"fmt"
	"os"

	"github.com/fgeck/better-restic/internal/config"
	"github.com/fgeck/better-restic/internal/logging"
	"github.com/fgeck/better-restic/internal/models"
	"github.com/fgeck/better-restic/internal/services/restic"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var printConfig bool

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration file",
	Long:  `Validate the configuration file without running restic.`,
	RunE:  validateConfig,
}

func init() {
	validateCmd.Flags().BoolVar(&printConfig, "print", false, "print the parsed configuration with secrets redacted")
}

func validateConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.NewParser().LoadFile(configFile)
	if err != nil {
		log.Error().Err(err).Str("file", configFile).Msg("configuration validation failed")
		return err
	}

	if printConfig {
		out, err := config.EncodeRedactedYAML(*cfg)
		if err != nil {
			return fmt.Errorf("failed to encode config: %w", err)
		}
		_, err = os.Stdout.Write(out)
		return err
	}

	fmt.Println("Configuration is valid!")
	fmt.Println()
	fmt.Println("Summary:")
	fmt.Printf("  Repository: %s\n", cfg.Restic.Repository)
	fmt.Printf("  Directories: %v\n", cfg.Backup.Directories)
	fmt.Printf("  Exclude: %v\n", cfg.Backup.Exclude)
	fmt.Printf("  Schedule: %s at %s (informational)\n", cfg.Backup.Frequency, cfg.Backup.Time)
	fmt.Println()
	fmt.Println("Logging:")
	fmt.Printf("  Directory: %s\n", cfg.Logging.Directory)
	fmt.Printf("  Max size: %s (%d bytes, rotates at %d MiB)\n",
		cfg.Logging.MaxSize, cfg.Logging.MaxSizeBytes, logging.RotationSizeMB(cfg.Logging.MaxSizeBytes))
	fmt.Println()
	fmt.Println("Credentials:")
	fmt.Printf("  Password command: %v\n", cfg.Restic.HasPasswordCommand())
	fmt.Printf("  Inline password: %v\n", cfg.Restic.HasPassword())
	fmt.Printf("  SSH command: %v\n", cfg.Restic.HasSSHCommand())
	fmt.Println()
	fmt.Printf("Command: %s\n", restic.BuildBackup(cfg.Backup, cfg.Restic, models.RunOptions{Verbose: verbose}).String())

	return nil
}
