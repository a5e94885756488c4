package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/seantiz/draftbridge/internal/engine"
	"github.com/seantiz/draftbridge/internal/model"
)

// runEngineRequest is the JSON body for POST /v1/engine/run. Args are
// forwarded to the engine CLI verbatim, in order, unvalidated: the engine
// owns its own argument contract.
type runEngineRequest struct {
	Args []string `json:"args"`
}

// runEngineResponse is returned on success. Output is the engine's stdout,
// byte-for-byte; callers expecting JSON parse it themselves.
type runEngineResponse struct {
	ID     string `json:"id"`
	Output string `json:"output"`
}

// runEngineFailure is returned when the invocation fails. Kind is the
// authoritative classification; the HTTP status is a convenience mapping.
type runEngineFailure struct {
	ID    string `json:"id"`
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

// handleRunEngine invokes the engine synchronously and responds once the
// subprocess has fully exited. Every call is recorded in the invocation
// history regardless of outcome.
func (s *Server) handleRunEngine(w http.ResponseWriter, r *http.Request) {
	var req runEngineRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	start := time.Now().UTC()
	output, runErr := s.runner.Run(req.Args)

	inv := s.recordInvocation(req.Args, output, start, runErr)

	if runErr != nil {
		s.writeJSON(w, failureStatus(inv.Kind), runEngineFailure{
			ID:    inv.ID,
			Error: runErr.Error(),
			Kind:  inv.Kind,
		})
		return
	}

	s.writeJSON(w, http.StatusOK, runEngineResponse{
		ID:     inv.ID,
		Output: output,
	})
}

// recordInvocation persists one finished invocation. A storage failure is
// logged but does not mask the engine's result: history is telemetry, not
// part of the bridge contract.
func (s *Server) recordInvocation(args []string, output string, start time.Time, runErr error) *model.Invocation {
	finished := time.Now().UTC()
	inv := &model.Invocation{
		ID:         model.NewID(),
		Status:     model.StatusCompleted,
		Args:       args,
		Output:     output,
		DurationMS: int(finished.Sub(start).Milliseconds()),
		CreatedAt:  start,
		FinishedAt: &finished,
	}

	if runErr != nil {
		inv.Status = model.StatusFailed
		inv.Kind = engine.FailureKind(runErr)
		inv.Error = runErr.Error()
	}

	if code, ok := exitCode(runErr); ok {
		inv.ExitCode = &code
	}

	// The request context may already be cancelled by an impatient client;
	// the record is written either way.
	if err := s.store.CreateInvocation(context.Background(), inv); err != nil {
		s.logger.Error("record invocation", "invocation_id", inv.ID, "error", err)
	}

	return inv
}

// exitCode reports the subprocess exit status for outcomes where the
// process actually ran: 0 on success and on decode failures (the engine
// exited cleanly; its output was the problem), the reported status for
// execution failures. Launch and resolution failures have no exit status.
func exitCode(runErr error) (int, bool) {
	var execErr *engine.ExecError
	var decodeErr *engine.DecodeError

	switch {
	case runErr == nil:
		return 0, true
	case errors.As(runErr, &execErr):
		return execErr.ExitCode, true
	case errors.As(runErr, &decodeErr):
		return 0, true
	default:
		return 0, false
	}
}

// failureStatus maps a failure kind to an HTTP status code.
func failureStatus(kind string) int {
	switch kind {
	case model.KindDirectoryNotFound:
		return http.StatusServiceUnavailable
	case model.KindLaunchFailure, model.KindDecodeFailure:
		return http.StatusBadGateway
	case model.KindExecutionFailure:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
