package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/seantiz/draftbridge/internal/engine"
	"github.com/seantiz/draftbridge/internal/model"
	"github.com/seantiz/draftbridge/internal/resolver"
)

func postRun(t *testing.T, ts *httptest.Server, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(ts.URL+"/v1/engine/run", "application/json", bytes.NewBufferString(body))
	if err != nil {
		t.Fatalf("POST /v1/engine/run: %v", err)
	}
	return resp
}

func TestRunEngineSuccess(t *testing.T) {
	runner := &stubRunner{out: "{}\n"}
	srv := newTestServer(t, runner)

	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	resp := postRun(t, ts, `{"args":["preview","--data","{}"]}`)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var body runEngineResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Output != "{}\n" {
		t.Errorf("output = %q, want %q untrimmed", body.Output, "{}\n")
	}
	if body.ID == "" {
		t.Error("response missing invocation id")
	}

	if want := []string{"preview", "--data", "{}"}; !reflect.DeepEqual(runner.gotArgs, want) {
		t.Errorf("forwarded args = %#v, want %#v", runner.gotArgs, want)
	}
	if runner.calls != 1 {
		t.Errorf("runner called %d times, want exactly 1", runner.calls)
	}

	// The invocation is recorded.
	inv, err := srv.store.GetInvocation(context.Background(), body.ID)
	if err != nil {
		t.Fatalf("GetInvocation: %v", err)
	}
	if inv.Status != model.StatusCompleted {
		t.Errorf("recorded status = %q, want %q", inv.Status, model.StatusCompleted)
	}
	if inv.Output != "{}\n" {
		t.Errorf("recorded output = %q, want %q", inv.Output, "{}\n")
	}
}

func TestRunEngineBadBody(t *testing.T) {
	runner := &stubRunner{}
	srv := newTestServer(t, runner)

	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	resp := postRun(t, ts, `{"args": not json`)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
	if runner.calls != 0 {
		t.Errorf("runner called %d times for a malformed body, want 0", runner.calls)
	}
}

func TestRunEngineFailureMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantKind   string
	}{
		{
			"directory not found",
			resolver.ErrNotFound,
			http.StatusServiceUnavailable,
			model.KindDirectoryNotFound,
		},
		{
			"launch failure",
			&engine.LaunchError{Err: errors.New(`exec: "python3": executable file not found in $PATH`)},
			http.StatusBadGateway,
			model.KindLaunchFailure,
		},
		{
			"execution failure",
			&engine.ExecError{ExitCode: 1, Stderr: "boom", Stdout: "partial"},
			http.StatusUnprocessableEntity,
			model.KindExecutionFailure,
		},
		{
			"decode failure",
			&engine.DecodeError{Offset: 3},
			http.StatusBadGateway,
			model.KindDecodeFailure,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, &stubRunner{err: tt.err})

			ts := httptest.NewServer(srv.Router())
			defer ts.Close()

			resp := postRun(t, ts, `{"args":[]}`)
			defer resp.Body.Close()

			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}

			var body runEngineFailure
			if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
				t.Fatalf("decode response: %v", err)
			}
			if body.Kind != tt.wantKind {
				t.Errorf("kind = %q, want %q", body.Kind, tt.wantKind)
			}
			if body.Error != tt.err.Error() {
				t.Errorf("error = %q, want %q", body.Error, tt.err.Error())
			}

			inv, err := srv.store.GetInvocation(context.Background(), body.ID)
			if err != nil {
				t.Fatalf("GetInvocation: %v", err)
			}
			if inv.Status != model.StatusFailed {
				t.Errorf("recorded status = %q, want %q", inv.Status, model.StatusFailed)
			}
			if inv.Kind != tt.wantKind {
				t.Errorf("recorded kind = %q, want %q", inv.Kind, tt.wantKind)
			}
		})
	}
}

func TestRunEngineExecutionFailureBody(t *testing.T) {
	execErr := &engine.ExecError{ExitCode: 1, Stderr: "boom", Stdout: "partial"}
	srv := newTestServer(t, &stubRunner{err: execErr})

	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	resp := postRun(t, ts, `{"args":["generate"]}`)
	defer resp.Body.Close()

	var body runEngineFailure
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	// Both the primary stderr text and the auxiliary stdout reach the caller.
	for _, fragment := range []string{"boom", "partial"} {
		if !bytes.Contains([]byte(body.Error), []byte(fragment)) {
			t.Errorf("error %q missing %q", body.Error, fragment)
		}
	}

	inv, err := srv.store.GetInvocation(context.Background(), body.ID)
	if err != nil {
		t.Fatalf("GetInvocation: %v", err)
	}
	if inv.ExitCode == nil || *inv.ExitCode != 1 {
		t.Errorf("recorded exit code = %v, want 1", inv.ExitCode)
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		want   int
		wantOK bool
	}{
		{"success", nil, 0, true},
		{"execution", &engine.ExecError{ExitCode: 7}, 7, true},
		{"decode", &engine.DecodeError{Offset: 0}, 0, true},
		{"launch", &engine.LaunchError{Err: errors.New("no such file")}, 0, false},
		{"not found", resolver.ErrNotFound, 0, false},
		{"wrapped execution", fmt.Errorf("run: %w", &engine.ExecError{ExitCode: 2}), 2, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := exitCode(tt.err)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("exitCode = (%d, %v), want (%d, %v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}
