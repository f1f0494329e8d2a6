// Copyright (c) 2026 Keymaster Team
// lssh - SSH host selection and config distribution
// This source code is licensed under the MIT license found in the LICENSE file.

package tabcomplete

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/toeirei/lssh/internal/model"
)

func sources(line string) Sources {
	return Sources{
		CompLine: line,
		Options:  []string{"--help", "--load-from", "--replay", "--timestamp", "--version"},
		Hosts: func(context.Context) ([]model.HostEntry, error) {
			return []model.HostEntry{
				{DisplayName: "web-01", Keywords: []string{"acme", "prod"}},
				{DisplayName: "web-02", Keywords: []string{"acme", "staging"}},
				{DisplayName: "db-01", Keywords: []string{"globex", "prod"}},
			}, nil
		},
		Recordings: func() ([]model.Recording, error) {
			return []model.Recording{
				{Dir: "2026-01-01_10-00-00_web-01", Timestamp: "2026-01-01_10-00-00", Name: "web-01"},
				{Dir: "2026-01-02_10-00-00_db-01", Timestamp: "2026-01-02_10-00-00", Name: "db-01"},
			}, nil
		},
	}
}

func TestSubstrings(t *testing.T) {
	tests := []struct {
		line string
		want []string
	}{
		{"lssh ", nil},
		{"lssh root@web prod", []string{"web", "prod"}},
		{"lssh -v --timestamp 2026 web", []string{"web"}},
		{"lssh -L 8080:x:80 -t web", []string{"web"}},
		{"lssh  web  ", []string{"web"}},
	}
	for _, tt := range tests {
		if got := Substrings(tt.line); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Substrings(%q) = %q, want %q", tt.line, got, tt.want)
		}
	}
}

func TestCompleteHosts(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		line, cur string
		want      []string
	}{
		{"lssh ", "", []string{"acme", "db-01", "globex", "prod", "staging", "web-01", "web-02"}},
		{"lssh prod ", "", []string{"acme", "db-01", "globex", "prod", "web-01"}},
		{"lssh prod w", "w", []string{"web-01"}},
		{"lssh root@we", "root@we", []string{"root@web-01", "root@web-02"}},
	}
	for _, tt := range tests {
		if got := Complete(ctx, sources(tt.line), tt.cur, ""); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Complete(%q, %q) = %q, want %q", tt.line, tt.cur, got, tt.want)
		}
	}
}

func TestCompleteOptions(t *testing.T) {
	got := Complete(context.Background(), sources("lssh --re"), "--re", "lssh")
	if want := []string{"--replay"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("options = %q, want %q", got, want)
	}
}

func TestCompleteTimestamps(t *testing.T) {
	got := Complete(context.Background(), sources("lssh web --timestamp "), "", "--timestamp")
	if want := []string{"2026-01-01_10-00-00"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("timestamps = %q, want %q", got, want)
	}
}

func TestCompleteDirectories(t *testing.T) {
	base := t.TempDir()
	for _, d := range []string{"hosts-a", "hosts-b", "other"} {
		if err := os.Mkdir(filepath.Join(base, d), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(base, "hosts-file"), nil, 0o644); err != nil {
		t.Fatal(err)
	}
	cur := filepath.Join(base, "hosts")
	got := Complete(context.Background(), sources("lssh --load-from "+cur), cur, "--load-from")
	want := []string{filepath.Join(base, "hosts-a"), filepath.Join(base, "hosts-b")}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("dirs = %q, want %q", got, want)
	}
}

func TestCompleteHostErrorsYieldNothing(t *testing.T) {
	src := sources("lssh ")
	src.Hosts = func(context.Context) ([]model.HostEntry, error) { return nil, errors.New("boom") }
	if got := Complete(context.Background(), src, "", ""); len(got) != 0 {
		t.Fatalf("expected no completions, got %q", got)
	}
}
