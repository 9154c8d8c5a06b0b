package restic

import (
	"github.com/fgeck/better-restic/internal/models"
)

// Remediation returns operator-facing suggestions for a classified failure.
func Remediation(outcome models.Outcome, cfg models.ResticConfig) []string {
	switch outcome {
	case models.OutcomeSpawnFailure:
		return []string{
			"restic could not be started. Install it (https://restic.net) and make sure it is on your PATH.",
		}
	case models.OutcomeRepositoryUninitialized:
		lines := []string{
			"The repository does not appear to be initialized. Initialize it with:",
			"  " + BuildInit(cfg).String(),
		}
		switch {
		case cfg.HasPasswordCommand():
			lines = append(lines, "The password will be read from restic.password_command.")
		case cfg.HasPassword():
			lines = append(lines, "The password will be taken from restic.password (exported as RESTIC_PASSWORD).")
		default:
			lines = append(lines, "No password is configured; restic will prompt for one.")
		}
		if cfg.HasSSHCommand() {
			lines = append(lines, "SFTP connections use restic.ssh_command (exported as RESTIC_SSH_COMMAND).")
		}
		return lines
	case models.OutcomePasswordError:
		return []string{
			"restic rejected or could not obtain the repository password. Supported mechanisms:",
			"  1. restic.password_command: a command printing the password (passed as --password-command)",
			"  2. restic.password: an inline password (passed to restic as RESTIC_PASSWORD)",
			"  3. neither: restic uses its own RESTIC_PASSWORD / RESTIC_PASSWORD_FILE environment or prompts",
		}
	default:
		return nil
	}
}

// Hints collects remediation lines for every category attached to result.
func Hints(result *models.InvocationResult, cfg models.ResticConfig) []string {
	if result.Outcome == models.OutcomeSpawnFailure {
		return Remediation(result.Outcome, cfg)
	}

	var lines []string
	for _, h := range result.Hints {
		lines = append(lines, Remediation(h, cfg)...)
	}
	return lines
}
