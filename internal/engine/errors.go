package engine

import (
	"errors"
	"fmt"

	"github.com/seantiz/draftbridge/internal/model"
	"github.com/seantiz/draftbridge/internal/resolver"
)

// LaunchError reports that the engine subprocess could not be started at
// all (interpreter missing, permission denied, and so on).
type LaunchError struct {
	Err error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("failed to execute engine: %v", e.Err)
}

func (e *LaunchError) Unwrap() error { return e.Err }

// ExecError reports that the engine ran and exited with a nonzero status.
// Stderr carries the primary error text; Stdout, when non-empty, is
// appended to the message as auxiliary context since the engine may have
// written a partial response before failing.
type ExecError struct {
	ExitCode int
	Stderr   string
	Stdout   string
}

func (e *ExecError) Error() string {
	msg := fmt.Sprintf("engine command failed: %s", e.Stderr)
	if e.Stdout != "" {
		msg += fmt.Sprintf("\nOutput: %s", e.Stdout)
	}
	return msg
}

// DecodeError reports that the engine exited successfully but its standard
// output was not valid UTF-8. Offset is the byte position of the first
// invalid sequence.
type DecodeError struct {
	Offset int
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode engine output: invalid UTF-8 at byte %d", e.Offset)
}

// FailureKind maps an invocation error to its taxonomy label for storage
// and metrics. Returns "" for nil or unrecognized errors.
func FailureKind(err error) string {
	var launchErr *LaunchError
	var execErr *ExecError
	var decodeErr *DecodeError

	switch {
	case err == nil:
		return ""
	case errors.Is(err, resolver.ErrNotFound):
		return model.KindDirectoryNotFound
	case errors.As(err, &launchErr):
		return model.KindLaunchFailure
	case errors.As(err, &execErr):
		return model.KindExecutionFailure
	case errors.As(err, &decodeErr):
		return model.KindDecodeFailure
	default:
		return ""
	}
}
