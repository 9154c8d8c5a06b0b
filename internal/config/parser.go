// Package config provides configuration file parsing.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fgeck/better-restic/internal/models"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// DefaultPath is where the CLI and the web UI look for the configuration file.
const DefaultPath = "config.yaml"

// ErrInvalidConfig is returned when the configuration cannot be read or is malformed.
var ErrInvalidConfig = errors.New("invalid configuration")

// requiredKeys must be present in every configuration file.
var requiredKeys = []string{
	"backup.frequency",
	"backup.time",
	"backup.directories",
	"logging.directory",
	"logging.max_size",
	"restic.repository",
}

// fileConfig is the on-disk layout. Values are decoded as written so that
// numeric-looking secrets such as 0123 are not reinterpreted.
type fileConfig struct {
	Backup struct {
		Frequency   string   `yaml:"frequency"`
		Time        string   `yaml:"time"`
		Directories []string `yaml:"directories"`
		Exclude     []string `yaml:"exclude"`
	} `yaml:"backup"`
	Logging struct {
		Directory string `yaml:"directory"`
		MaxSize   string `yaml:"max_size"`
	} `yaml:"logging"`
	Restic struct {
		Repository      string `yaml:"repository"`
		SSHCommand      string `yaml:"ssh_command"`
		PasswordCommand string `yaml:"password_command"`
		Password        string `yaml:"password"`
	} `yaml:"restic"`
}

// Parser handles configuration file parsing.
// viper checks which keys are present; the values come from a typed yaml decode.
type Parser struct {
	v   *viper.Viper
	raw []byte
}

// NewParser creates a new configuration parser.
func NewParser() *Parser {
	v := viper.New()
	v.SetConfigType("yaml")
	return &Parser{v: v}
}

// LoadFile loads configuration from a file path.
func (p *Parser) LoadFile(path string) (*models.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading config file: %w", ErrInvalidConfig, err)
	}

	return p.load(data)
}

// LoadReader loads configuration from YAML text.
func (p *Parser) LoadReader(content string) (*models.Config, error) {
	return p.load([]byte(content))
}

func (p *Parser) load(data []byte) (*models.Config, error) {
	if err := p.v.ReadConfig(bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("%w: reading config: %w", ErrInvalidConfig, err)
	}
	p.raw = data

	return p.parse()
}

func (p *Parser) parse() (*models.Config, error) {
	for _, key := range requiredKeys {
		if !p.v.IsSet(key) {
			return nil, fmt.Errorf("%w: %s is required", ErrInvalidConfig, key)
		}
	}

	var fc fileConfig
	if err := yaml.Unmarshal(p.raw, &fc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	cfg := &models.Config{
		Backup: models.BackupConfig{
			Frequency:   fc.Backup.Frequency,
			Time:        fc.Backup.Time,
			Directories: fc.Backup.Directories,
			Exclude:     fc.Backup.Exclude,
		},
		Logging: models.LoggingConfig{
			Directory: ExpandHome(fc.Logging.Directory),
			MaxSize:   fc.Logging.MaxSize,
		},
		Restic: models.ResticConfig{
			Repository:      fc.Restic.Repository,
			SSHCommand:      fc.Restic.SSHCommand,
			PasswordCommand: fc.Restic.PasswordCommand,
			Password:        fc.Restic.Password,
		},
	}

	size, err := ParseSize(cfg.Logging.MaxSize)
	if err != nil {
		return nil, fmt.Errorf("%w: logging.max_size: %w", ErrInvalidConfig, err)
	}
	cfg.Logging.MaxSizeBytes = size

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ExpandHome replaces a leading ~ with the value of $HOME.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home := os.Getenv("HOME")
	if home == "" {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// Validate performs validation on the loaded configuration.
func Validate(cfg *models.Config) error {
	if cfg == nil {
		return fmt.Errorf("%w: configuration is nil", ErrInvalidConfig)
	}

	if cfg.Restic.Repository == "" {
		return fmt.Errorf("%w: restic.repository is required", ErrInvalidConfig)
	}

	if cfg.Logging.Directory == "" {
		return fmt.Errorf("%w: logging.directory is required", ErrInvalidConfig)
	}

	for i, dir := range cfg.Backup.Directories {
		if strings.TrimSpace(dir) == "" {
			return fmt.Errorf("%w: backup.directories[%d] is empty", ErrInvalidConfig, i)
		}
	}

	return nil
}
