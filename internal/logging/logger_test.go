// Copyright (c) 2026 Keymaster Team
// lssh - SSH host selection and config distribution
// This source code is licensed under the MIT license found in the LICENSE file.

package logging

import (
	"bytes"
	"strings"
	"testing"

	clog "github.com/charmbracelet/log"
)

// TestLoggingHelpers_WriteToBuffer verifies the package helper functions write
// formatted messages to the package-level logger `L`. The test swaps `L` with
// a buffer-backed logger and restores it afterwards.
func TestLoggingHelpers_WriteToBuffer(t *testing.T) {
	var buf bytes.Buffer
	prev := L
	L = clog.New(&buf)
	L.SetLevel(clog.DebugLevel)
	defer func() { L = prev }()

	Debugf("hello %s", "dbg")
	Infof("info %d", 1)
	Warnf("warn")
	Errorf("err %v", "E")

	out := buf.String()
	for _, want := range []string{"hello dbg", "info 1", "warn", "err E"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q; got: %s", want, out)
		}
	}
}

func TestSetDebugAndLevel(t *testing.T) {
	var buf bytes.Buffer
	prev := L
	defer func() { L = prev }()
	L = newLogger(&buf)

	Debugf("hidden")
	if buf.Len() != 0 {
		t.Fatalf("debug output at default level: %q", buf.String())
	}
	SetDebug(true)
	Debugf("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Fatalf("debug output missing after SetDebug(true): %q", buf.String())
	}
	if err := SetLevel("error"); err != nil {
		t.Fatalf("SetLevel: %v", err)
	}
	if L.GetLevel() != clog.ErrorLevel {
		t.Fatalf("level = %v, want error", L.GetLevel())
	}
	if err := SetLevel("chatty"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

func TestSetOutputKeepsLevel(t *testing.T) {
	prev := L
	defer func() { L = prev }()
	SetDebug(true)
	var buf bytes.Buffer
	SetOutput(&buf)
	Debugf("moved")
	if !strings.Contains(buf.String(), "moved") {
		t.Fatalf("expected debug output in new writer, got %q", buf.String())
	}
}
