// Package resolver locates the DraftMate engine's root directory. The
// engine ships as a Python package in a directory literally named "engine",
// and its location differs between development checkouts and packaged
// deployments, so the root is probed fresh on every call through a fixed
// sequence of filesystem checks.
package resolver

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
)

// Marker is the directory entry whose presence identifies the engine root.
const Marker = "engine"

// maxExeAncestors bounds the strategy-3 walk from the executable's
// directory upward (the executable's own directory plus four ancestors).
const maxExeAncestors = 5

// ErrNotFound is returned when no strategy locates the engine directory.
var ErrNotFound = errors.New("could not find engine directory: make sure the 'engine' folder exists")

// Resolver locates the engine root. Workdir and ExePath pin the ambient
// process state the strategies probe from; when left empty they are read
// from the running process on each call, so tests can substitute fixture
// paths without touching process state.
type Resolver struct {
	Workdir     string
	ExePath     string
	FallbackDir string

	Logger *slog.Logger
}

// New creates a resolver that probes from the running process's working
// directory and executable path, with fallbackDir as the last-resort probe.
func New(fallbackDir string, logger *slog.Logger) *Resolver {
	return &Resolver{
		FallbackDir: fallbackDir,
		Logger:      logger,
	}
}

// Resolve returns the absolute path of the directory containing the engine.
// Strategies run in a fixed order and the first match wins:
//
//  1. the working directory's parent
//  2. the working directory itself
//  3. the executable's directory and its ancestors, bounded to 5 levels
//  4. the configured fallback directory
//
// When several strategies would each match a different installation, the
// earlier one wins silently; the matching strategy is logged at debug
// level. Only read-only existence checks are performed, and nothing is
// cached between calls.
func (r *Resolver) Resolve() (string, error) {
	if dir, ok := r.fromWorkdir(); ok {
		return dir, nil
	}
	if dir, ok := r.fromExecutable(); ok {
		return dir, nil
	}
	if r.FallbackDir != "" && hasEngine(r.FallbackDir) {
		r.logMatch(r.FallbackDir, "fallback")
		return r.FallbackDir, nil
	}
	return "", ErrNotFound
}

// fromWorkdir probes the working directory's parent, then the working
// directory itself (the process may already be running at the project root).
func (r *Resolver) fromWorkdir() (string, bool) {
	wd := r.Workdir
	if wd == "" {
		var err error
		if wd, err = os.Getwd(); err != nil {
			return "", false
		}
	}

	if parent := filepath.Dir(wd); parent != wd && hasEngine(parent) {
		r.logMatch(parent, "workdir_parent")
		return parent, true
	}
	if hasEngine(wd) {
		r.logMatch(wd, "workdir")
		return wd, true
	}
	return "", false
}

// fromExecutable walks up from the executable's directory. In development
// the binary sits several levels below the project root (e.g. a build
// output directory), so a bounded ancestor walk covers both that layout
// and the packaged one where the engine sits beside the binary.
func (r *Resolver) fromExecutable() (string, bool) {
	exe := r.ExePath
	if exe == "" {
		var err error
		if exe, err = os.Executable(); err != nil {
			return "", false
		}
	}

	dir := filepath.Dir(exe)
	for i := 0; i < maxExeAncestors; i++ {
		if hasEngine(dir) {
			r.logMatch(dir, "exe_ancestor")
			return dir, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false
}

func (r *Resolver) logMatch(dir, strategy string) {
	if r.Logger != nil {
		r.Logger.Debug("engine directory resolved", "dir", dir, "strategy", strategy)
	}
}

// hasEngine reports whether dir contains an entry named "engine".
func hasEngine(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, Marker))
	return err == nil
}
