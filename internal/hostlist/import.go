// Copyright (c) 2026 Keymaster Team
// lssh - SSH host selection and config distribution
// This source code is licensed under the MIT license found in the LICENSE file.

package hostlist

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/toeirei/lssh/internal/logging"
	"github.com/toeirei/lssh/internal/sshconfig"
	"golang.org/x/sync/errgroup"
)

// Options are the policy inputs of the config transform.
type Options struct {
	AllowList    []sshconfig.AllowListEntry
	GeneralProxy string
}

// FileError collects the validation messages of one host file.
type FileError struct {
	File     string
	Messages []string
}

// Lines renders the messages prefixed with the file name.
func (e FileError) Lines() []string {
	out := make([]string, 0, len(e.Messages))
	for _, m := range e.Messages {
		out = append(out, e.File+": "+m)
	}
	return out
}

// Report summarizes an Import run.
type Report struct {
	Created   []string
	Updated   []string
	Unchanged []string
	Deleted   []string
	Errors    []FileError
}

type fileResult struct {
	name   string
	output string
	err    *FileError
}

// transformDir runs the transform over the given files of dir in parallel.
// Results keep the order of names.
func transformDir(ctx context.Context, dir string, names []string, opts Options) ([]fileResult, error) {
	results := make([]fileResult, len(names))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, name := range names {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := os.ReadFile(filepath.Join(dir, name))
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", name, err)
			}
			res := fileResult{name: name}
			out, err := sshconfig.Transform(string(data), opts.AllowList, opts.GeneralProxy)
			var verr *sshconfig.ValidationError
			switch {
			case errors.As(err, &verr):
				res.err = &FileError{File: name, Messages: verr.Messages()}
			case err != nil:
				return fmt.Errorf("failed to transform %s: %w", name, err)
			default:
				res.output = out
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Validate transforms every host file of dir and returns the files that have
// problems. The returned error reports I/O failures only.
func Validate(ctx context.Context, dir string, opts Options) ([]FileError, error) {
	names, err := HostFiles(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read source directory: %w", err)
	}
	results, err := transformDir(ctx, dir, names, opts)
	if err != nil {
		return nil, err
	}
	var out []FileError
	for _, r := range results {
		if r.err != nil {
			out = append(out, *r.err)
		}
	}
	logging.Debugf("validated %d files in %s, %d with errors", len(names), dir, len(out))
	return out, nil
}

// Import transforms the host files of src and writes the results to dst.
// Files with problems are left untouched in dst. Unchanged files are not
// rewritten so their mtime stays stable. Files missing from src are removed
// from dst.
func Import(ctx context.Context, src, dst string, opts Options) (Report, error) {
	var rep Report
	srcNames, err := HostFiles(src)
	if err != nil {
		return rep, fmt.Errorf("failed to read source directory: %w", err)
	}
	if err := os.MkdirAll(dst, 0o755); err != nil {
		return rep, fmt.Errorf("failed to create host directory: %w", err)
	}
	dstNames, err := HostFiles(dst)
	if err != nil {
		return rep, fmt.Errorf("failed to read host directory: %w", err)
	}

	results, err := transformDir(ctx, src, srcNames, opts)
	if err != nil {
		return rep, err
	}

	for _, r := range results {
		if r.err != nil {
			rep.Errors = append(rep.Errors, *r.err)
			continue
		}
		target := filepath.Join(dst, r.name)
		current, err := os.ReadFile(target)
		switch {
		case err == nil && bytes.Equal(current, []byte(r.output)):
			rep.Unchanged = append(rep.Unchanged, r.name)
			continue
		case err == nil:
			rep.Updated = append(rep.Updated, r.name)
		case errors.Is(err, os.ErrNotExist):
			rep.Created = append(rep.Created, r.name)
		default:
			return rep, fmt.Errorf("failed to read %s: %w", target, err)
		}
		if err := writeFileAtomic(target, []byte(r.output)); err != nil {
			return rep, err
		}
	}

	inSrc := make(map[string]struct{}, len(srcNames))
	for _, n := range srcNames {
		inSrc[n] = struct{}{}
	}
	for _, n := range dstNames {
		if _, ok := inSrc[n]; ok {
			continue
		}
		if err := os.Remove(filepath.Join(dst, n)); err != nil && !errors.Is(err, os.ErrNotExist) {
			return rep, fmt.Errorf("failed to remove %s: %w", n, err)
		}
		rep.Deleted = append(rep.Deleted, n)
	}
	logging.Infof("import %s -> %s: %d created, %d updated, %d deleted, %d with errors",
		src, dst, len(rep.Created), len(rep.Updated), len(rep.Deleted), len(rep.Errors))
	return rep, nil
}

// writeFileAtomic replaces path with data through a temp file in the same
// directory.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".lssh-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	name := tmp.Name()
	defer func() { _ = os.Remove(name) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to chmod %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := os.Rename(name, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
