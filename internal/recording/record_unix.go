// Copyright (c) 2026 Keymaster Team
// lssh - SSH host selection and config distribution
// This source code is licensed under the MIT license found in the LICENSE file.

//go:build !windows

package recording

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/creack/pty"
	"github.com/toeirei/lssh/internal/logging"
	"golang.org/x/term"
)

// Record runs s.Argv in a pseudo terminal, mirrors it to the user and stores
// it in s.Dir. It returns the exit code of the command.
func Record(ctx context.Context, s Session) (int, error) {
	if len(s.Argv) == 0 {
		return -1, errors.New("no command to record")
	}
	stdin := s.Stdin
	if stdin == nil {
		stdin = os.Stdin
	}
	var stdout io.Writer = os.Stdout
	if s.Stdout != nil {
		stdout = s.Stdout
	}

	outFile, err := os.OpenFile(filepath.Join(s.Dir, OutputFile), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return -1, fmt.Errorf("failed to create recording output: %w", err)
	}
	timingFile, err := os.OpenFile(filepath.Join(s.Dir, TimingFile), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		_ = outFile.Close()
		return -1, fmt.Errorf("failed to create recording timing: %w", err)
	}
	tp := newTape(outFile, timingFile, nil)
	if err := tp.header(strings.Join(s.Argv, " ")); err != nil {
		logging.Warnf("recording header: %v", err)
	}

	cmd := exec.CommandContext(ctx, s.Argv[0], s.Argv[1:]...)
	cmd.Env = s.Env
	ptmx, err := pty.Start(cmd)
	if err != nil {
		_ = outFile.Close()
		_ = timingFile.Close()
		return -1, fmt.Errorf("failed to start %s: %w", s.Argv[0], err)
	}
	defer func() { _ = ptmx.Close() }()

	fd := int(stdin.Fd())
	if term.IsTerminal(fd) {
		_ = pty.InheritSize(stdin, ptmx)
		winch := make(chan os.Signal, 1)
		signal.Notify(winch, syscall.SIGWINCH)
		go func() {
			for range winch {
				_ = pty.InheritSize(stdin, ptmx)
			}
		}()
		defer func() { signal.Stop(winch); close(winch) }()

		if old, err := term.MakeRaw(fd); err == nil {
			defer func() { _ = term.Restore(fd, old) }()
		}
	}

	go func() { _, _ = io.Copy(ptmx, stdin) }()

	// The pty returns EIO once the child side is closed.
	_, copyErr := io.Copy(io.MultiWriter(stdout, tp), ptmx)
	if copyErr != nil && !errors.Is(copyErr, syscall.EIO) {
		logging.Debugf("recording copy: %v", copyErr)
	}

	waitErr := cmd.Wait()
	_ = outFile.Close()
	_ = timingFile.Close()

	if s.Compress {
		if err := Compress(s.Dir); err != nil {
			logging.Warnf("could not compress recording: %v", err)
		}
	}

	var exitErr *exec.ExitError
	switch {
	case waitErr == nil:
		return 0, nil
	case errors.As(waitErr, &exitErr):
		return exitErr.ExitCode(), nil
	default:
		return -1, waitErr
	}
}
