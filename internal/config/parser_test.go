package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalYAML = `
backup:
  frequency: daily
  time: "02:00"
  directories:
    - /data
logging:
  directory: /var/log/better-restic
  max_size: 10MB
restic:
  repository: /backup
`

func TestParser_LoadReader_MinimalConfig(t *testing.T) {
	parser := NewParser()
	cfg, err := parser.LoadReader(minimalYAML)

	require.NoError(t, err)
	assert.Equal(t, "daily", cfg.Backup.Frequency)
	assert.Equal(t, "02:00", cfg.Backup.Time)
	assert.Equal(t, []string{"/data"}, cfg.Backup.Directories)
	assert.Empty(t, cfg.Backup.Exclude)
	assert.Equal(t, "/var/log/better-restic", cfg.Logging.Directory)
	assert.Equal(t, uint64(10*1024*1024), cfg.Logging.MaxSizeBytes)
	assert.Equal(t, "/backup", cfg.Restic.Repository)
	assert.False(t, cfg.Restic.HasPassword())
	assert.False(t, cfg.Restic.HasPasswordCommand())
	assert.False(t, cfg.Restic.HasSSHCommand())
}

func TestParser_LoadReader_FullConfig(t *testing.T) {
	yaml := `
backup:
  frequency: weekly
  time: "23:30"
  directories:
    - /home/user/documents
    - ./relative
  exclude:
    - /home/user/documents/tmp
    - "*.iso"
logging:
  directory: ./logs
  max_size: 500kb
restic:
  repository: "sftp:backup@nas:/srv/restic"
  ssh_command: "ssh -i /root/.ssh/backup -p 2222 backup@nas -s sftp"
  password_command: "pass show restic"
  password: "inline-secret"
`
	parser := NewParser()
	cfg, err := parser.LoadReader(yaml)

	require.NoError(t, err)

	// Order is preserved.
	assert.Equal(t, []string{"/home/user/documents", "./relative"}, cfg.Backup.Directories)
	assert.Equal(t, []string{"/home/user/documents/tmp", "*.iso"}, cfg.Backup.Exclude)

	assert.Equal(t, "./logs", cfg.Logging.Directory)
	assert.Equal(t, "500kb", cfg.Logging.MaxSize)
	assert.Equal(t, uint64(500*1024), cfg.Logging.MaxSizeBytes)

	assert.Equal(t, "sftp:backup@nas:/srv/restic", cfg.Restic.Repository)
	assert.Equal(t, "ssh -i /root/.ssh/backup -p 2222 backup@nas -s sftp", cfg.Restic.SSHCommand)
	assert.Equal(t, "pass show restic", cfg.Restic.PasswordCommand)
	assert.Equal(t, "inline-secret", cfg.Restic.Password)
}

func TestParser_LoadReader_MissingRequired(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name: "missing repository",
			yaml: `
backup:
  frequency: daily
  time: "02:00"
  directories: [/data]
logging:
  directory: /tmp/logs
  max_size: 1MB
`,
			wantErr: "restic.repository is required",
		},
		{
			name: "empty repository",
			yaml: `
backup:
  frequency: daily
  time: "02:00"
  directories: [/data]
logging:
  directory: /tmp/logs
  max_size: 1MB
restic:
  repository: ""
`,
			wantErr: "restic.repository is required",
		},
		{
			name: "missing directories",
			yaml: `
backup:
  frequency: daily
  time: "02:00"
logging:
  directory: /tmp/logs
  max_size: 1MB
restic:
  repository: /backup
`,
			wantErr: "backup.directories is required",
		},
		{
			name: "missing logging section",
			yaml: `
backup:
  frequency: daily
  time: "02:00"
  directories: [/data]
restic:
  repository: /backup
`,
			wantErr: "logging.directory is required",
		},
		{
			name: "missing frequency",
			yaml: `
backup:
  time: "02:00"
  directories: [/data]
logging:
  directory: /tmp/logs
  max_size: 1MB
restic:
  repository: /backup
`,
			wantErr: "backup.frequency is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewParser().LoadReader(tt.yaml)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidConfig)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParser_LoadReader_InvalidMaxSize(t *testing.T) {
	yaml := `
backup:
  frequency: daily
  time: "02:00"
  directories: [/data]
logging:
  directory: /tmp/logs
  max_size: 10XB
restic:
  repository: /backup
`
	_, err := NewParser().LoadReader(yaml)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.ErrorIs(t, err, ErrInvalidSize)
	assert.Contains(t, err.Error(), "logging.max_size")
}

func TestParser_LoadReader_InvalidYAML(t *testing.T) {
	_, err := NewParser().LoadReader("backup: [unclosed")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestParser_LoadReader_KeepsScalarsAsWritten(t *testing.T) {
	yaml := `
backup:
  frequency: daily
  time: 02:00
  directories:
    - /data
logging:
  directory: /tmp/logs
  max_size: 1MB
restic:
  repository: 0x1F
  password: 0123
  password_command: 1e3
  ssh_command: 0o17
`
	cfg, err := NewParser().LoadReader(yaml)

	require.NoError(t, err)
	assert.Equal(t, "02:00", cfg.Backup.Time)
	assert.Equal(t, "0x1F", cfg.Restic.Repository)
	assert.Equal(t, "0123", cfg.Restic.Password)
	assert.Equal(t, "1e3", cfg.Restic.PasswordCommand)
	assert.Equal(t, "0o17", cfg.Restic.SSHCommand)
}

func TestParser_LoadReader_ScalarDirectoriesRejected(t *testing.T) {
	yaml := `
backup:
  frequency: daily
  time: "02:00"
  directories: "/srv/my data"
logging:
  directory: /tmp/logs
  max_size: 1MB
restic:
  repository: /backup
`
	cfg, err := NewParser().LoadReader(yaml)

	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestParser_LoadReader_ExpandsHomeInLogDirectory(t *testing.T) {
	t.Setenv("HOME", "/home/tester")

	yaml := `
backup:
  frequency: daily
  time: "02:00"
  directories: [/data]
logging:
  directory: ~/logs/restic
  max_size: 1MB
restic:
  repository: /backup
`
	cfg, err := NewParser().LoadReader(yaml)

	require.NoError(t, err)
	assert.Equal(t, "/home/tester/logs/restic", cfg.Logging.Directory)
}

func TestParser_LoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(minimalYAML), 0o600))

	cfg, err := NewParser().LoadFile(path)

	require.NoError(t, err)
	assert.Equal(t, "/backup", cfg.Restic.Repository)
}

func TestParser_LoadFile_NotFound(t *testing.T) {
	_, err := NewParser().LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.Contains(t, err.Error(), "reading config file")
}

func TestExpandHome(t *testing.T) {
	t.Setenv("HOME", "/home/tester")

	assert.Equal(t, "/home/tester", ExpandHome("~"))
	assert.Equal(t, "/home/tester/logs", ExpandHome("~/logs"))
	assert.Equal(t, "/var/log", ExpandHome("/var/log"))
	assert.Equal(t, "~other/logs", ExpandHome("~other/logs"))
}

func TestValidate(t *testing.T) {
	assert.ErrorIs(t, Validate(nil), ErrInvalidConfig)

	cfg, err := NewParser().LoadReader(minimalYAML)
	require.NoError(t, err)
	assert.NoError(t, Validate(cfg))

	cfg.Backup.Directories = []string{"/data", "  "}
	err = Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "backup.directories[1] is empty")
}
