// Copyright (c) 2026 Keymaster Team
// lssh - SSH host selection and config distribution
// This source code is licensed under the MIT license found in the LICENSE file.

package install

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
)

const cronMarker = "# automatically added by lssh installer"

// Runner executes a command with stdin and returns its stdout.
type Runner interface {
	Run(ctx context.Context, stdin []byte, name string, args ...string) ([]byte, error)
}

// ExecRunner runs real processes.
type ExecRunner struct{}

// Run implements Runner.
func (ExecRunner) Run(ctx context.Context, stdin []byte, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	if stdin != nil {
		cmd.Stdin = bytes.NewReader(stdin)
	}
	return cmd.Output()
}

// Crontab manages the pull entry in the crontab of the current user.
type Crontab struct {
	Runner  Runner
	Command string // the pull command run by cron
	// Minute picks the minute of the hour; random when nil.
	Minute func() int
}

func (c *Crontab) entryPattern() *regexp.Regexp {
	return regexp.MustCompile(`^([^#\s]+\s+){5}` + regexp.QuoteMeta(c.Command) + ` ` + regexp.QuoteMeta(cronMarker) + `$`)
}

func (c *Crontab) load(ctx context.Context) ([]string, error) {
	out, err := c.Runner.Run(ctx, nil, "crontab", "-l")
	var exitErr interface{ ExitCode() int }
	if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
		// no crontab yet
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read crontab: %w", err)
	}
	return splitLines(string(out)), nil
}

func (c *Crontab) save(ctx context.Context, lines []string) error {
	if _, err := c.Runner.Run(ctx, []byte(joinLines(lines)), "crontab", "-"); err != nil {
		return fmt.Errorf("failed to write crontab: %w", err)
	}
	return nil
}

// Add installs the pull entry unless one exists. It reports whether the
// crontab changed.
func (c *Crontab) Add(ctx context.Context) (bool, error) {
	lines, err := c.load(ctx)
	if err != nil {
		return false, err
	}
	re := c.entryPattern()
	for _, l := range lines {
		if re.MatchString(l) {
			return false, nil
		}
	}
	minute := rand.IntN(60)
	if c.Minute != nil {
		minute = c.Minute()
	}
	lines = append(lines, strings.Join([]string{strconv.Itoa(minute), "*", "*", "*", "*", c.Command, cronMarker}, " "))
	return true, c.save(ctx, lines)
}

// Remove deletes all pull entries. It reports whether one was found.
func (c *Crontab) Remove(ctx context.Context) (bool, error) {
	lines, err := c.load(ctx)
	if err != nil {
		return false, err
	}
	re := c.entryPattern()
	kept := lines[:0:0]
	for _, l := range lines {
		if !re.MatchString(l) {
			kept = append(kept, l)
		}
	}
	if len(kept) == len(lines) {
		return false, nil
	}
	return true, c.save(ctx, kept)
}
