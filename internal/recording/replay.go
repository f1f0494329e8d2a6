// Copyright (c) 2026 Keymaster Team
// lssh - SSH host selection and config distribution
// This source code is licensed under the MIT license found in the LICENSE file.

package recording

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// maxDelay caps single pauses during playback.
const maxDelay = 5 * time.Second

// sleep waits for d or until ctx is done. Tests replace it.
var sleep = func(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Replay writes the recording in dir to w, pausing between chunks as
// recorded. speed scales playback; values <= 0 mean real time.
func Replay(ctx context.Context, dir string, w io.Writer, speed float64) error {
	if speed <= 0 {
		speed = 1
	}
	tf, err := os.Open(filepath.Join(dir, TimingFile))
	if err != nil {
		return fmt.Errorf("failed to open timing: %w", err)
	}
	defer func() { _ = tf.Close() }()

	rc, err := openOutput(dir)
	if err != nil {
		return err
	}
	defer func() { _ = rc.Close() }()
	out := bufio.NewReader(rc)

	// Skip the typescript header.
	if _, err := out.ReadString('\n'); err != nil {
		return fmt.Errorf("corrupt recording: %w", err)
	}

	sc := bufio.NewScanner(tf)
	for sc.Scan() {
		var delay float64
		var n int64
		if _, err := fmt.Sscanf(sc.Text(), "%f %d", &delay, &n); err != nil {
			return fmt.Errorf("corrupt timing line %q: %w", sc.Text(), err)
		}
		d := time.Duration(delay / speed * float64(time.Second))
		if d > maxDelay {
			d = maxDelay
		}
		if d > 0 {
			if err := sleep(ctx, d); err != nil {
				return err
			}
		}
		if _, err := io.CopyN(w, out, n); err != nil {
			return fmt.Errorf("recording output ended early: %w", err)
		}
	}
	return sc.Err()
}
