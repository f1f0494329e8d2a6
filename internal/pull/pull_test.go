// Copyright (c) 2026 Keymaster Team
// lssh - SSH host selection and config distribution
// This source code is licensed under the MIT license found in the LICENSE file.

package pull

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/pkg/sftp"
)

// pipeClient connects an sftp client to an in-process server on the local
// file system.
func pipeClient(t *testing.T) *sftp.Client {
	t.Helper()
	cr, sw := io.Pipe()
	sr, cw := io.Pipe()
	server, err := sftp.NewServer(struct {
		io.Reader
		io.WriteCloser
	}{sr, sw})
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	served := make(chan struct{})
	go func() {
		defer close(served)
		_ = server.Serve()
	}()

	client, err := sftp.NewClientPipe(cr, cw)
	if err != nil {
		t.Fatalf("NewClientPipe: %v", err)
	}
	// The client waits for its receive loop on Close, which only ends once
	// the server side of the pipe is closed.
	t.Cleanup(func() {
		_ = sw.Close()
		_ = cw.Close()
		_ = client.Close()
		<-served
		_ = server.Close()
	})
	return client
}

func TestFetch(t *testing.T) {
	remote, local := t.TempDir(), filepath.Join(t.TempDir(), "staging")
	for name, content := range map[string]string{
		"acme.txt":   "Host web-01\n",
		"globex.txt": "Host db-01\n",
		"README":     "ignored\n",
	} {
		if err := os.WriteFile(filepath.Join(remote, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.MkdirAll(local, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(local, "removed.txt"), []byte("Host old\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	names, err := fetch(pipeClient(t), remote, local)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if want := []string{"acme.txt", "globex.txt"}; !reflect.DeepEqual(names, want) {
		t.Fatalf("names = %v, want %v", names, want)
	}
	data, err := os.ReadFile(filepath.Join(local, "acme.txt"))
	if err != nil || string(data) != "Host web-01\n" {
		t.Fatalf("acme.txt = %q, %v", data, err)
	}
	if _, err := os.Stat(filepath.Join(local, "removed.txt")); !os.IsNotExist(err) {
		t.Fatalf("stale staging file should be removed, stat err = %v", err)
	}
	if _, err := os.Stat(filepath.Join(local, "README")); !os.IsNotExist(err) {
		t.Fatalf("non host files must not be fetched, stat err = %v", err)
	}
}

func TestFetchMissingRemote(t *testing.T) {
	if _, err := fetch(pipeClient(t), filepath.Join(t.TempDir(), "missing"), t.TempDir()); err == nil {
		t.Fatal("expected error for missing remote directory")
	}
}

func TestDialRequiresAddress(t *testing.T) {
	if _, err := Dial(context.Background(), Config{}); err == nil {
		t.Fatal("expected error without address")
	}
}

func TestDialMissingKnownHosts(t *testing.T) {
	_, err := Dial(context.Background(), Config{Address: "127.0.0.1", KnownHosts: filepath.Join(t.TempDir(), "none")})
	if err == nil || errors.Is(err, ErrNoAgent) {
		t.Fatalf("expected known hosts error, got %v", err)
	}
}
