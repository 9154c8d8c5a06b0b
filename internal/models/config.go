// Package models contains the data structures used throughout better-restic.
package models

// Config holds the complete configuration loaded from config.yaml.
type Config struct {
	Backup  BackupConfig
	Logging LoggingConfig
	Restic  ResticConfig
}

// BackupConfig describes what gets backed up.
type BackupConfig struct {
	Frequency   string // informational only, no scheduler acts on it
	Time        string // informational only
	Directories []string
	Exclude     []string
}

// LoggingConfig controls the operational log file.
type LoggingConfig struct {
	Directory    string
	MaxSize      string // e.g. "10MB", "100KB"
	MaxSizeBytes uint64 // parsed from MaxSize
}

// ResticConfig holds repository location and credentials.
type ResticConfig struct {
	Repository      string
	SSHCommand      string // optional, exported as RESTIC_SSH_COMMAND
	PasswordCommand string // optional, wins over Password
	Password        string // optional, exported as RESTIC_PASSWORD
}

// HasPasswordCommand reports whether a password command is configured.
func (c ResticConfig) HasPasswordCommand() bool { return c.PasswordCommand != "" }

// HasPassword reports whether an inline password is configured.
func (c ResticConfig) HasPassword() bool { return c.Password != "" }

// HasSSHCommand reports whether a custom SSH command is configured.
func (c ResticConfig) HasSSHCommand() bool { return c.SSHCommand != "" }

// Clone returns a deep copy so callers can hold a snapshot without sharing slices.
func (c Config) Clone() Config {
	out := c
	out.Backup.Directories = append([]string(nil), c.Backup.Directories...)
	out.Backup.Exclude = append([]string(nil), c.Backup.Exclude...)
	return out
}
