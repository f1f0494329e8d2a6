// Copyright (c) 2026 Keymaster Team
// lssh - SSH host selection and config distribution
// This source code is licensed under the MIT license found in the LICENSE file.

// Package recording stores ssh sessions and plays them back. Every session
// gets its own directory named `<YYYY-MM-DD_hh-mm-ss>_<host>` (plus `_<n>`
// on collisions) holding an `output` typescript and a `timing` file in the
// format understood by scriptreplay(1).
package recording // import "github.com/toeirei/lssh/internal/recording"

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/toeirei/lssh/internal/model"
)

const (
	// TimestampLayout is the time format of recording directory names.
	TimestampLayout = "2006-01-02_15-04-05"

	OutputFile     = "output"
	CompressedFile = "output.zst"
	TimingFile     = "timing"
)

// ErrUnsupported is returned by Record on platforms without pseudo terminals.
var ErrUnsupported = errors.New("session recording is not supported on this platform")

// Session describes a command to run under recording.
type Session struct {
	Dir      string   // recording directory from NewDir
	Argv     []string // command and arguments
	Env      []string // nil means the current environment
	Compress bool     // compress the typescript when the session ends
	Stdin    *os.File // defaults to os.Stdin
	Stdout   io.Writer
}

var namePattern = regexp.MustCompile(`^([0-9\-]+_[0-9\-]+)_(.*)$`)

// BaseDir returns dir, or the default recordings directory below the XDG
// data home when dir is empty.
func BaseDir(dir string) string {
	if dir != "" {
		return dir
	}
	return filepath.Join(xdg.DataHome, "lssh", "recordings")
}

// NewDir creates a fresh recording directory for host below base.
func NewDir(base, host string, now time.Time) (string, error) {
	if err := os.MkdirAll(base, 0o700); err != nil {
		return "", fmt.Errorf("failed to create recordings directory: %w", err)
	}
	name := now.Format(TimestampLayout) + "_" + host
	for i := 1; ; i++ {
		candidate := name
		if i > 1 {
			candidate = name + "_" + strconv.Itoa(i)
		}
		d := filepath.Join(base, candidate)
		err := os.Mkdir(d, 0o700)
		if err == nil {
			return d, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return "", fmt.Errorf("failed to create recording directory: %w", err)
		}
	}
}

// Parse splits a recording directory name. ok is false for names that are
// not recordings.
func Parse(name string) (model.Recording, bool) {
	m := namePattern.FindStringSubmatch(name)
	if m == nil {
		return model.Recording{}, false
	}
	return model.Recording{Dir: name, Timestamp: m[1], Name: m[2]}, true
}

// List returns all recordings below base sorted by directory name. A missing
// base directory yields no recordings.
func List(base string) ([]model.Recording, error) {
	entries, err := os.ReadDir(base)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read recordings directory: %w", err)
	}
	var out []model.Recording
	for _, e := range entries {
		if r, ok := Parse(e.Name()); ok {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Dir < out[j].Dir })
	return out, nil
}

// Matches reports whether r contains every substring in its host part and,
// if timestamp is not empty, was started at exactly timestamp.
func Matches(r model.Recording, substrings []string, timestamp string) bool {
	if timestamp != "" && r.Timestamp != timestamp {
		return false
	}
	for _, s := range substrings {
		if !strings.Contains(r.Name, s) {
			return false
		}
	}
	return true
}

// Find lists the recordings below base matching substrings and timestamp.
func Find(base string, substrings []string, timestamp string) ([]model.Recording, error) {
	all, err := List(base)
	if err != nil {
		return nil, err
	}
	var out []model.Recording
	for _, r := range all {
		if Matches(r, substrings, timestamp) {
			out = append(out, r)
		}
	}
	return out, nil
}
