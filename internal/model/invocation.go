package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// Invocation status constants.
const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Failure kind constants. A completed invocation has an empty kind; a
// failed one carries exactly one of these.
const (
	KindDirectoryNotFound = "directory_not_found"
	KindLaunchFailure     = "launch_failure"
	KindExecutionFailure  = "execution_failure"
	KindDecodeFailure     = "decode_failure"
)

// Invocation represents one engine subprocess round-trip, from spawn to
// exit or launch failure. Records are immutable once written: one call,
// one subprocess, one record.
type Invocation struct {
	ID         string     `json:"id"`
	Status     string     `json:"status"`
	Args       []string   `json:"args"`
	Kind       string     `json:"kind,omitempty"`
	Output     string     `json:"output,omitempty"`
	Error      string     `json:"error,omitempty"`
	ExitCode   *int       `json:"exit_code,omitempty"`
	DurationMS int        `json:"duration_ms"`
	CreatedAt  time.Time  `json:"created_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

// EncodeArgs serializes an argument list for storage in a single column.
func EncodeArgs(args []string) (string, error) {
	if args == nil {
		args = []string{}
	}
	b, err := json.Marshal(args)
	if err != nil {
		return "", fmt.Errorf("encode args: %w", err)
	}
	return string(b), nil
}

// DecodeArgs reverses EncodeArgs.
func DecodeArgs(s string) ([]string, error) {
	if s == "" {
		return []string{}, nil
	}
	var args []string
	if err := json.Unmarshal([]byte(s), &args); err != nil {
		return nil, fmt.Errorf("decode args: %w", err)
	}
	return args, nil
}
