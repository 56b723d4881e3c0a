// Copyright 2024 Jetify Inc. and contributors. All rights reserved.
// Use of this source code is governed by the license in the LICENSE file.

package nixfmt

import (
	"context"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"github.com/samber/lo"
)

// Names of the formatters that [Tool] knows how to run.
const (
	NixpkgsFmt = "nixpkgs-fmt"
	NixFmt     = "nixfmt"
	Alejandra  = "alejandra"
)

// stdinArgs are the arguments each known formatter needs to read source from
// stdin and write the result to stdout.
var stdinArgs = map[string][]string{
	NixpkgsFmt: nil,
	NixFmt:     nil,
	Alejandra:  {"--quiet", "-"},
}

// KnownFormatters returns the names of the formatters that [Tool] can run
// without extra arguments, sorted alphabetically.
func KnownFormatters() []string {
	names := lo.Keys(stdinArgs)
	slices.Sort(names)
	return names
}

// Tool is a [Formatter] that runs a formatter executable. Source is written to
// the process's stdin and the formatted result is read from its stdout. The
// zero value runs nixpkgs-fmt from $PATH.
//
// A Tool must not be copied after first use.
type Tool struct {
	// Name is the formatter to run. It's one of [KnownFormatters] or, when
	// Path is set, any label for the executable. Empty means nixpkgs-fmt.
	Name string

	// Path is the path to the formatter executable. If it is empty, the
	// executable is found by searching $PATH and common Nix profile
	// directories for Name.
	Path     string
	lookPath atomic.Pointer[string]

	// Args are extra command line arguments, passed after the ones that
	// make a known formatter read from stdin.
	Args []string

	// Timeout limits how long a single Format call may run. Zero means no
	// limit beyond the context passed to Format.
	Timeout time.Duration

	// Logger logs information at [slog.LevelDebug] about formatter
	// process starts and exits. If nil, it defaults to [slog.Default].
	Logger *slog.Logger
}

func (t *Tool) name() string {
	if t.Name == "" {
		return NixpkgsFmt
	}
	return t.Name
}

func (t *Tool) logger() *slog.Logger {
	if t.Logger == nil {
		return slog.Default()
	}
	return t.Logger
}

// resolvePath returns t.Path if it is non-empty and a valid executable.
// Otherwise it searches for the formatter in $PATH and the bin directories of
// the usual Nix profiles.
func (t *Tool) resolvePath() (string, error) {
	if t.Path != "" {
		return exec.LookPath(t.Path) // verify it's an executable.
	}

	cached := t.lookPath.Load()
	if cached != nil && *cached != "" {
		return *cached, nil
	}

	name := t.name()
	path, pathErr := exec.LookPath(name)
	if pathErr == nil {
		t.lookPath.Store(&path)
		return path, nil
	}

	for _, dir := range profileBinDirs() {
		path := filepath.Join(dir, name)
		stat, err := os.Stat(path)
		if err != nil {
			continue
		}
		// Is it executable and not a directory?
		m := stat.Mode()
		if !m.IsDir() && m.Perm()&0o111 != 0 {
			t.lookPath.Store(&path)
			return path, nil
		}
	}
	return "", pathErr
}

// profileBinDirs returns the bin directories of Nix profiles that might not be
// in $PATH, such as when running from an IDE or a service.
func profileBinDirs() []string {
	dirs := []string{
		"/run/current-system/sw/bin",
		"/nix/var/nix/profiles/default/bin",
	}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs,
			filepath.Join(home, ".nix-profile/bin"),
			filepath.Join(home, ".local/state/nix/profile/bin"),
		)
	}
	return dirs
}

// Command returns the command that formats src. A formatter that's
// interrupted gets at most Timeout (or 5 seconds if that's shorter or unset)
// to exit before it's killed.
func (t *Tool) Command(src []byte) (*Cmd, error) {
	path, err := t.resolvePath()
	if err != nil {
		return nil, errors.Wrapf(err, "nixfmt: %s not found in $PATH", t.name())
	}

	args := Args{t.name()}
	if t.Path != "" {
		args[0] = t.Path
	}
	args = append(args, stdinArgs[t.name()]...)
	args = append(args, t.Args...)

	wait := defaultWaitDelay
	if t.Timeout > 0 {
		wait = min(wait, t.Timeout)
	}
	return &Cmd{
		Name:      t.name(),
		Path:      path,
		Args:      args,
		Src:       src,
		WaitDelay: wait,
		Logger:    t.logger(),
	}, nil
}

// Format runs the formatter on src and returns its output.
func (t *Tool) Format(ctx context.Context, src []byte) ([]byte, error) {
	cmd, err := t.Command(src)
	if err != nil {
		return nil, err
	}
	if t.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.Timeout)
		defer cancel()
	}
	out, err := cmd.Output(ctx)
	if err != nil {
		return nil, err
	}
	return out, nil
}
