package restic

import (
	"testing"

	"github.com/fgeck/better-restic/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestBuildBackup_ArgumentOrder(t *testing.T) {
	backup := models.BackupConfig{
		Frequency:   "daily",
		Time:        "02:00",
		Directories: []string{"/home/user", "/etc"},
		Exclude:     []string{"/home/user/.cache", "/home/user/tmp"},
	}
	cfg := models.ResticConfig{
		Repository:      "sftp:nas:/restic",
		PasswordCommand: "pass show restic",
	}

	inv := BuildBackup(backup, cfg, models.RunOptions{DryRun: true, Verbose: true})

	assert.Equal(t, "restic", inv.Name)
	assert.Equal(t, []string{
		"backup",
		"--repo", "sftp:nas:/restic",
		"--password-command", "pass show restic",
		"--verbose",
		"/home/user", "/etc",
		"--exclude", "/home/user/.cache",
		"--exclude", "/home/user/tmp",
		"--dry-run",
	}, inv.Args)
	assert.Empty(t, inv.Env)
}

func TestBuildBackup_Minimal(t *testing.T) {
	inv := BuildBackup(
		models.BackupConfig{Directories: []string{"/data"}},
		models.ResticConfig{Repository: "/backup"},
		models.RunOptions{},
	)

	assert.Equal(t, []string{"backup", "--repo", "/backup", "/data"}, inv.Args)
	assert.NotNil(t, inv.Env)
	assert.Empty(t, inv.Env)
}

func TestBuildBackup_IgnoresScheduleFields(t *testing.T) {
	base := models.BackupConfig{Directories: []string{"/data"}}
	other := base
	other.Frequency = "hourly"
	other.Time = "13:37"
	cfg := models.ResticConfig{Repository: "/backup"}

	assert.Equal(t,
		BuildBackup(base, cfg, models.RunOptions{}),
		BuildBackup(other, cfg, models.RunOptions{}),
	)
}

func TestBuildBackup_Credentials(t *testing.T) {
	backup := models.BackupConfig{Directories: []string{"/data"}}

	tests := []struct {
		name     string
		cfg      models.ResticConfig
		wantArgs []string
		wantEnv  map[string]string
	}{
		{
			name:     "inline password goes to env only",
			cfg:      models.ResticConfig{Repository: "/r", Password: "s3cret"},
			wantArgs: []string{"backup", "--repo", "/r", "/data"},
			wantEnv:  map[string]string{"RESTIC_PASSWORD": "s3cret"},
		},
		{
			name:     "password command wins over inline password",
			cfg:      models.ResticConfig{Repository: "/r", Password: "s3cret", PasswordCommand: "cat /pw"},
			wantArgs: []string{"backup", "--repo", "/r", "--password-command", "cat /pw", "/data"},
			wantEnv:  map[string]string{},
		},
		{
			name:     "no credentials",
			cfg:      models.ResticConfig{Repository: "/r"},
			wantArgs: []string{"backup", "--repo", "/r", "/data"},
			wantEnv:  map[string]string{},
		},
		{
			name:     "ssh command is always env",
			cfg:      models.ResticConfig{Repository: "sftp:h:/r", SSHCommand: "ssh -p 2222 h -s sftp", Password: "pw"},
			wantArgs: []string{"backup", "--repo", "sftp:h:/r", "/data"},
			wantEnv: map[string]string{
				"RESTIC_PASSWORD":    "pw",
				"RESTIC_SSH_COMMAND": "ssh -p 2222 h -s sftp",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := BuildBackup(backup, tt.cfg, models.RunOptions{})
			assert.Equal(t, tt.wantArgs, inv.Args)
			assert.Equal(t, tt.wantEnv, inv.Env)
			if tt.cfg.Password != "" {
				assert.NotContains(t, inv.Args, tt.cfg.Password)
				assert.NotContains(t, inv.String(), tt.cfg.Password)
			}
		})
	}
}

func TestBuildBackup_PasswordNeverInArgs(t *testing.T) {
	passwords := []string{"pw", "--dry-run", "/data", "with space", "backup"}
	for _, pw := range passwords {
		for _, opts := range []models.RunOptions{{}, {DryRun: true}, {Verbose: true}, {DryRun: true, Verbose: true}} {
			cfg := models.ResticConfig{Repository: "/r", Password: pw}
			backup := models.BackupConfig{Directories: []string{"/src"}, Exclude: []string{"/src/x"}}

			inv := BuildBackup(backup, cfg, opts)

			expected := BuildBackup(backup, models.ResticConfig{Repository: "/r"}, opts)
			assert.Equal(t, expected.Args, inv.Args)
			assert.Equal(t, pw, inv.Env[models.EnvPassword])
		}
	}
}

func TestBuildSnapshots(t *testing.T) {
	inv := BuildSnapshots(models.ResticConfig{
		Repository:      "/backup",
		PasswordCommand: "pass show restic",
		SSHCommand:      "ssh nas",
	})

	assert.Equal(t, "restic", inv.Name)
	assert.Equal(t, []string{"snapshots", "--repo", "/backup", "--json", "--password-command", "pass show restic"}, inv.Args)
	assert.Equal(t, map[string]string{"RESTIC_SSH_COMMAND": "ssh nas"}, inv.Env)
}

func TestBuildSnapshots_InlinePassword(t *testing.T) {
	inv := BuildSnapshots(models.ResticConfig{Repository: "/backup", Password: "pw"})

	assert.Equal(t, []string{"snapshots", "--repo", "/backup", "--json"}, inv.Args)
	assert.Equal(t, map[string]string{"RESTIC_PASSWORD": "pw"}, inv.Env)
}

func TestInvocation_String(t *testing.T) {
	inv := BuildBackup(
		models.BackupConfig{Directories: []string{"/my docs"}},
		models.ResticConfig{Repository: "/backup", Password: "topsecret", SSHCommand: "ssh -p 22 nas"},
		models.RunOptions{DryRun: true},
	)

	assert.Equal(t,
		`RESTIC_PASSWORD=*** RESTIC_SSH_COMMAND='ssh -p 22 nas' restic backup --repo /backup '/my docs' --dry-run`,
		inv.String(),
	)
}
