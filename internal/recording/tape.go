// Copyright (c) 2026 Keymaster Team
// lssh - SSH host selection and config distribution
// This source code is licensed under the MIT license found in the LICENSE file.

package recording

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/zstd"
)

// tape writes session output together with scriptreplay timing lines
// ("<seconds since previous chunk> <bytes>").
type tape struct {
	out    io.Writer
	timing io.Writer
	now    func() time.Time
	last   time.Time
}

func newTape(out, timing io.Writer, now func() time.Time) *tape {
	if now == nil {
		now = time.Now
	}
	return &tape{out: out, timing: timing, now: now, last: now()}
}

// header writes the typescript header line. It is not part of the timing.
func (t *tape) header(cmdline string) error {
	_, err := fmt.Fprintf(t.out, "Script started on %s [COMMAND=%q]\n", t.last.Format(time.RFC3339), cmdline)
	return err
}

func (t *tape) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	now := t.now()
	delay := now.Sub(t.last).Seconds()
	t.last = now
	n, err := t.out.Write(p)
	if n > 0 {
		if _, terr := fmt.Fprintf(t.timing, "%.6f %d\n", delay, n); terr != nil && err == nil {
			err = terr
		}
	}
	return n, err
}

// Compress replaces the output file of dir with a zstd compressed copy.
func Compress(dir string) error {
	src := filepath.Join(dir, OutputFile)
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open recording: %w", err)
	}
	defer func() { _ = in.Close() }()

	dst := filepath.Join(dir, CompressedFile)
	out, err := os.OpenFile(dst, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("failed to create compressed recording: %w", err)
	}
	enc, err := zstd.NewWriter(out)
	if err != nil {
		_ = out.Close()
		return err
	}
	if _, err := io.Copy(enc, bufio.NewReader(in)); err != nil {
		_ = enc.Close()
		_ = out.Close()
		_ = os.Remove(dst)
		return fmt.Errorf("failed to compress recording: %w", err)
	}
	if err := enc.Close(); err != nil {
		_ = out.Close()
		_ = os.Remove(dst)
		return fmt.Errorf("failed to compress recording: %w", err)
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(dst)
		return err
	}
	return os.Remove(src)
}

// openOutput opens the typescript of dir, transparently decompressing it.
func openOutput(dir string) (io.ReadCloser, error) {
	f, err := os.Open(filepath.Join(dir, OutputFile))
	if err == nil {
		return f, nil
	}
	if !os.IsNotExist(err) {
		return nil, err
	}
	zf, err := os.Open(filepath.Join(dir, CompressedFile))
	if err != nil {
		return nil, fmt.Errorf("recording has no output: %w", err)
	}
	dec, err := zstd.NewReader(zf)
	if err != nil {
		_ = zf.Close()
		return nil, err
	}
	return &zstdFile{Decoder: dec, f: zf}, nil
}

type zstdFile struct {
	*zstd.Decoder
	f *os.File
}

func (z *zstdFile) Close() error {
	z.Decoder.Close()
	return z.f.Close()
}
