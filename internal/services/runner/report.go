package runner

import (
	"fmt"
	"io"
	"strings"

	"github.com/fgeck/better-restic/internal/models"
	"github.com/fgeck/better-restic/internal/services/restic"
)

var outcomeTitles = map[models.Outcome]string{
	models.OutcomeSuccess:                 "Backup completed",
	models.OutcomeDryRunSuccess:           "Dry run completed (no data was written)",
	models.OutcomeRepositoryUninitialized: "Backup failed: repository not initialized",
	models.OutcomePasswordError:           "Backup failed: password problem",
	models.OutcomeGenericFailure:          "Backup failed",
	models.OutcomeSpawnFailure:            "Backup failed: restic could not be started",
}

const rule = "========================================"

// WriteOutput prints a successful run and restic's stdout for review.
func WriteOutput(w io.Writer, result *models.InvocationResult) {
	fmt.Fprintln(w, outcomeTitles[result.Outcome])
	if out := strings.TrimSpace(result.Stdout); out != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, out)
	}
}

// WriteDiagnostics prints the human-oriented failure block for a failed run.
func WriteDiagnostics(w io.Writer, result *models.InvocationResult, cfg models.ResticConfig) {
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, " %s\n", outcomeTitles[result.Outcome])
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "Command:   %s\n", result.Command)
	if result.Outcome != models.OutcomeSpawnFailure {
		fmt.Fprintf(w, "Exit code: %d\n", result.ExitCode)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output:")
	for _, line := range strings.Split(restic.FailureDetail(result), "\n") {
		fmt.Fprintf(w, "  %s\n", line)
	}

	if hints := restic.Hints(result, cfg); len(hints) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Suggestions:")
		for _, line := range hints {
			fmt.Fprintf(w, "  %s\n", line)
		}
	}
}
