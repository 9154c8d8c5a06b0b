package config

import (
	"fmt"

	"github.com/fgeck/better-restic/internal/models"
	"gopkg.in/yaml.v3"
)

// Redacted is the configuration with credentials replaced by presence flags.
type Redacted struct {
	Backup  RedactedBackup  `json:"backup" yaml:"backup"`
	Logging RedactedLogging `json:"logging" yaml:"logging"`
	Restic  RedactedRestic  `json:"restic" yaml:"restic"`
}

// RedactedBackup mirrors models.BackupConfig.
type RedactedBackup struct {
	Frequency   string   `json:"frequency" yaml:"frequency"`
	Time        string   `json:"time" yaml:"time"`
	Directories []string `json:"directories" yaml:"directories"`
	Exclude     []string `json:"exclude" yaml:"exclude"`
}

// RedactedLogging mirrors models.LoggingConfig.
type RedactedLogging struct {
	Directory string `json:"directory" yaml:"directory"`
	MaxSize   string `json:"max_size" yaml:"max_size"`
}

// RedactedRestic exposes only the repository and which credential mechanisms exist.
type RedactedRestic struct {
	Repository         string `json:"repository" yaml:"repository"`
	HasSSHCommand      bool   `json:"has_ssh_command" yaml:"has_ssh_command"`
	HasPasswordCommand bool   `json:"has_password_command" yaml:"has_password_command"`
	HasPassword        bool   `json:"has_password" yaml:"has_password"`
}

// Redact builds the secret-free view of cfg.
func Redact(cfg models.Config) Redacted {
	dirs := cfg.Backup.Directories
	if dirs == nil {
		dirs = []string{}
	}
	excl := cfg.Backup.Exclude
	if excl == nil {
		excl = []string{}
	}

	return Redacted{
		Backup: RedactedBackup{
			Frequency:   cfg.Backup.Frequency,
			Time:        cfg.Backup.Time,
			Directories: append([]string{}, dirs...),
			Exclude:     append([]string{}, excl...),
		},
		Logging: RedactedLogging{
			Directory: cfg.Logging.Directory,
			MaxSize:   cfg.Logging.MaxSize,
		},
		Restic: RedactedRestic{
			Repository:         cfg.Restic.Repository,
			HasSSHCommand:      cfg.Restic.HasSSHCommand(),
			HasPasswordCommand: cfg.Restic.HasPasswordCommand(),
			HasPassword:        cfg.Restic.HasPassword(),
		},
	}
}

// EncodeRedactedYAML renders the redacted configuration as YAML.
func EncodeRedactedYAML(cfg models.Config) ([]byte, error) {
	out, err := yaml.Marshal(Redact(cfg))
	if err != nil {
		return nil, fmt.Errorf("encoding config: %w", err)
	}
	return out, nil
}
