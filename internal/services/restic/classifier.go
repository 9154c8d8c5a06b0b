package restic

import (
	"fmt"
	"strings"

	"github.com/fgeck/better-restic/internal/models"
)

type rule struct {
	outcome  models.Outcome
	patterns []string
}

// failureRules are matched in order, case-insensitively, against restic's stderr.
// They follow restic's human-readable wording and can stop matching after a restic
// upgrade; a failure then falls through to OutcomeGenericFailure.
var failureRules = []rule{
	{
		outcome:  models.OutcomeRepositoryUninitialized,
		patterns: []string{"unable to open config file", "is there a repository", "repository not found"},
	},
	{
		outcome:  models.OutcomePasswordError,
		patterns: []string{"empty password", "password"},
	},
}

// Classify derives the outcome of a finished (or unstartable) invocation.
// It returns the primary outcome and every failure rule that matched, in rule order.
func Classify(res *models.ExecResult, spawnErr error, dryRun bool) (models.Outcome, []models.Outcome) {
	if spawnErr != nil || res == nil {
		return models.OutcomeSpawnFailure, nil
	}

	if res.ExitCode == 0 {
		if dryRun {
			return models.OutcomeDryRunSuccess, nil
		}
		return models.OutcomeSuccess, nil
	}

	stderr := strings.ToLower(res.Stderr)

	var matched []models.Outcome
	for _, r := range failureRules {
		for _, p := range r.patterns {
			if strings.Contains(stderr, p) {
				matched = append(matched, r.outcome)
				break
			}
		}
	}

	if len(matched) == 0 {
		return models.OutcomeGenericFailure, nil
	}
	return matched[0], matched
}

// FailureDetail returns the most useful text describing a failed invocation.
func FailureDetail(result *models.InvocationResult) string {
	switch {
	case result.SpawnErr != nil:
		return result.SpawnErr.Error()
	case strings.TrimSpace(result.Stderr) != "":
		return strings.TrimSpace(result.Stderr)
	case strings.TrimSpace(result.Stdout) != "":
		return strings.TrimSpace(result.Stdout)
	default:
		return fmt.Sprintf("restic exited with status %d", result.ExitCode)
	}
}
