package engine

import (
	"bytes"
	"errors"
	"log/slog"
	"os/exec"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/seantiz/draftbridge/internal/resolver"
)

// moduleFlag invokes the engine as a Python module: python3 -m engine <args>.
// The module name is the same literal the resolver probes for.
const moduleFlag = "-m"

// replacement substitutes invalid byte sequences when decoding the failure
// streams, mirroring a lossy UTF-8 conversion.
const replacement = "�"

// Invoker runs the engine CLI synchronously. Each Run call owns its
// subprocess exclusively for the call's lifetime, so concurrent calls need
// no coordination beyond the read-only filesystem probes in the resolver.
type Invoker struct {
	resolver *resolver.Resolver
	python   string
	logger   *slog.Logger
}

// NewInvoker creates an invoker that launches the engine with the given
// Python interpreter.
func NewInvoker(r *resolver.Resolver, python string, logger *slog.Logger) *Invoker {
	return &Invoker{
		resolver: r,
		python:   python,
		logger:   logger,
	}
}

// Run resolves the engine root, spawns `<python> -m engine <args...>` with
// the resolved root as its working directory, and blocks until the process
// exits. The caller's arguments are forwarded verbatim and the engine's
// stdout is returned verbatim on success. Exactly one subprocess is spawned
// per call, with no retries and no deadline: the engine carries no timeout
// contract, so a hung engine hangs the call.
//
// Failures come back as resolver.ErrNotFound (propagated unchanged),
// *LaunchError, *ExecError, or *DecodeError.
func (inv *Invoker) Run(args []string) (string, error) {
	start := time.Now()

	dir, err := inv.resolver.Resolve()
	if err != nil {
		inv.observe(args, start, err)
		return "", err
	}

	cmd := exec.Command(inv.python, append([]string{moduleFlag, resolver.Marker}, args...)...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()

	var exitErr *exec.ExitError
	switch {
	case runErr == nil:
		out := stdout.Bytes()
		if off := invalidOffset(out); off >= 0 {
			err = &DecodeError{Offset: off}
			break
		}
		inv.observe(args, start, nil)
		return string(out), nil

	case errors.As(runErr, &exitErr):
		err = &ExecError{
			ExitCode: exitErr.ExitCode(),
			Stderr:   lossyDecode(stderr.Bytes()),
			Stdout:   lossyDecode(stdout.Bytes()),
		}

	default:
		err = &LaunchError{Err: runErr}
	}

	inv.observe(args, start, err)
	return "", err
}

// observe records metrics and a log line for one completed invocation.
func (inv *Invoker) observe(args []string, start time.Time, err error) {
	duration := time.Since(start)
	outcome := outcomeSuccess
	if err != nil {
		outcome = FailureKind(err)
	}

	invocationsTotal.WithLabelValues(outcome).Inc()
	invocationDuration.Observe(duration.Seconds())

	if err != nil {
		inv.logger.Error("engine invocation failed",
			"outcome", outcome,
			"args", len(args),
			"duration_ms", duration.Milliseconds(),
			"error", err,
		)
		return
	}
	inv.logger.Debug("engine invocation completed",
		"args", len(args),
		"duration_ms", duration.Milliseconds(),
	)
}

// invalidOffset returns the byte offset of the first invalid UTF-8
// sequence in b, or -1 if b is valid.
func invalidOffset(b []byte) int {
	for i := 0; i < len(b); {
		r, size := utf8.DecodeRune(b[i:])
		if r == utf8.RuneError && size == 1 {
			return i
		}
		i += size
	}
	return -1
}

// lossyDecode converts b to a string, replacing invalid sequences so the
// failure message stays printable.
func lossyDecode(b []byte) string {
	return strings.ToValidUTF8(string(b), replacement)
}
