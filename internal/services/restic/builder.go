package restic

import "github.com/fgeck/better-restic/internal/models"

// Binary is the executable invoked for every restic operation.
const Binary = "restic"

// BuildBackup maps the configuration and per-call flags to a `restic backup` invocation.
//
// Argument order: backup, --repo, --password-command (if set), --verbose, directories,
// --exclude pairs, --dry-run. An inline password is only ever placed in the environment.
func BuildBackup(backup models.BackupConfig, cfg models.ResticConfig, opts models.RunOptions) models.Invocation {
	inv := newInvocation("backup", cfg)

	if opts.Verbose {
		inv.Args = append(inv.Args, "--verbose")
	}

	inv.Args = append(inv.Args, backup.Directories...)

	for _, path := range backup.Exclude {
		inv.Args = append(inv.Args, "--exclude", path)
	}

	if opts.DryRun {
		inv.Args = append(inv.Args, "--dry-run")
	}

	return inv
}

// BuildSnapshots returns the `restic snapshots --json` invocation.
func BuildSnapshots(cfg models.ResticConfig) models.Invocation {
	inv := models.Invocation{
		Name: Binary,
		Args: []string{"snapshots", "--repo", cfg.Repository, "--json"},
		Env:  map[string]string{},
	}
	applyCredentials(&inv, cfg)
	return inv
}

// BuildInit returns the `restic init` invocation suggested for an uninitialized repository.
func BuildInit(cfg models.ResticConfig) models.Invocation {
	return newInvocation("init", cfg)
}

func newInvocation(subcommand string, cfg models.ResticConfig) models.Invocation {
	inv := models.Invocation{
		Name: Binary,
		Args: []string{subcommand, "--repo", cfg.Repository},
		Env:  map[string]string{},
	}
	applyCredentials(&inv, cfg)
	return inv
}

// applyCredentials appends the password flag and sets child-only env overrides.
// A password command wins over an inline password.
func applyCredentials(inv *models.Invocation, cfg models.ResticConfig) {
	switch {
	case cfg.HasPasswordCommand():
		inv.Args = append(inv.Args, "--password-command", cfg.PasswordCommand)
	case cfg.HasPassword():
		inv.Env[models.EnvPassword] = cfg.Password
	}

	if cfg.HasSSHCommand() {
		inv.Env[models.EnvSSHCommand] = cfg.SSHCommand
	}
}
