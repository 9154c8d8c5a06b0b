package models

import (
	"encoding/json"
	"sort"
	"strings"
	"time"

	"github.com/kballard/go-shellquote"
)

// Environment variables set on the restic child process only.
const (
	EnvPassword   = "RESTIC_PASSWORD"
	EnvSSHCommand = "RESTIC_SSH_COMMAND"
)

// RunOptions are the per-call flags of a backup invocation.
type RunOptions struct {
	DryRun  bool
	Verbose bool
}

// Invocation describes a subprocess to run: executable, ordered args and env overrides.
type Invocation struct {
	Name string
	Args []string
	Env  map[string]string
}

// EnvList returns the env overrides as sorted KEY=VALUE pairs.
func (i Invocation) EnvList() []string {
	env := make([]string, 0, len(i.Env))
	for _, k := range i.envKeys() {
		env = append(env, k+"="+i.Env[k])
	}
	return env
}

func (i Invocation) envKeys() []string {
	keys := make([]string, 0, len(i.Env))
	for k := range i.Env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// String renders the invocation as a shell command line with the password masked.
func (i Invocation) String() string {
	var parts []string
	for _, k := range i.envKeys() {
		if k == EnvPassword {
			parts = append(parts, k+"=***")
			continue
		}
		parts = append(parts, k+"="+shellquote.Join(i.Env[k]))
	}
	parts = append(parts, shellquote.Join(append([]string{i.Name}, i.Args...)...))
	return strings.Join(parts, " ")
}

// ExecResult is the raw outcome of a finished subprocess.
type ExecResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Outcome is the classified result of one invocation.
type Outcome string

// Outcome categories, see the restic package for the classification rules.
const (
	OutcomeSuccess                 Outcome = "success"
	OutcomeDryRunSuccess           Outcome = "dry_run_success"
	OutcomeRepositoryUninitialized Outcome = "repository_uninitialized"
	OutcomePasswordError           Outcome = "password_error"
	OutcomeGenericFailure          Outcome = "generic_failure"
	OutcomeSpawnFailure            Outcome = "spawn_failure"
)

// Succeeded reports whether the outcome is Success or DryRunSuccess.
func (o Outcome) Succeeded() bool {
	return o == OutcomeSuccess || o == OutcomeDryRunSuccess
}

// InvocationResult holds a classified backup invocation.
type InvocationResult struct {
	Command  string // display form, secrets masked
	DryRun   bool
	ExitCode int
	Stdout   string
	Stderr   string
	Outcome  Outcome
	Hints    []Outcome // every diagnostic category whose patterns matched, in rule order
	SpawnErr error
	Duration time.Duration
}

// Snapshot is the subset of a restic snapshot shown by the CLI.
type Snapshot struct {
	ID       string    `json:"id"`
	ShortID  string    `json:"short_id"`
	Time     time.Time `json:"time"`
	Hostname string    `json:"hostname"`
	Tags     []string  `json:"tags"`
	Paths    []string  `json:"paths"`
}

// DecodeSnapshot decodes one raw entry of `restic snapshots --json`.
func DecodeSnapshot(raw json.RawMessage) (Snapshot, error) {
	var s Snapshot
	err := json.Unmarshal(raw, &s)
	return s, err
}
