// Copyright (c) 2026 Keymaster Team
// lssh - SSH host selection and config distribution
// This source code is licensed under the MIT license found in the LICENSE file.

package hostlist

import (
	"reflect"
	"strings"
	"testing"

	"github.com/toeirei/lssh/internal/model"
)

const acmeHosts = `# lssh:displayname ACME Corp.
# lssh:filekeywords prod, web
# lssh:displayname ignored
Host web-01
  HostName 10.0.0.1
  ProxyJump jump-01
  ProxyJump other
  # lssh:keywords frontend, nginx
Host jump-01
  HostName 10.0.0.2
Host *.acme
  User root
Host a b
  HostName 10.0.0.3
`

const globexHosts = `Host db-01
  HostName 10.1.0.1
  # lssh:assignedcustomer acme.txt
Host web-01
  HostName 10.1.0.2
`

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"acme.txt":   acmeHosts,
		"globex.txt": globexHosts,
		"notes.md":   "Host ignored\n",
	})

	ix, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	want := []model.HostEntry{
		{DisplayName: "db-01", Customer: "acme", Keywords: []string{"acme", "globex"}},
		{DisplayName: "jump-01", Customer: "acme", Keywords: []string{"acme", "prod", "web"}},
		{DisplayName: "web-01", Customer: "acme", Keywords: []string{"acme", "frontend", "nginx", "prod", "web"}, Jumphost: "jump-01"},
	}
	if got := ix.Entries(); !reflect.DeepEqual(got, want) {
		t.Fatalf("entries =\n%#v\nwant\n%#v", got, want)
	}
	if got := ix.DisplayNames; !reflect.DeepEqual(got, map[string]string{"acme": "ACME Corp."}) {
		t.Fatalf("display names = %v", got)
	}
	if ix.Newest.IsZero() {
		t.Fatal("Newest not set")
	}
}

func TestLoadMissingDir(t *testing.T) {
	if _, err := Load(t.TempDir() + "/missing"); err == nil {
		t.Fatal("expected error for missing directory")
	}
}

func TestParseFileDirectiveCase(t *testing.T) {
	pf, err := parseFile(strings.NewReader("Host x\n  #LSSH:Keywords a,b\n"), "c")
	if err != nil {
		t.Fatalf("parseFile: %v", err)
	}
	if len(pf.hosts) != 1 {
		t.Fatalf("hosts = %v", pf.hosts)
	}
	if got, want := pf.hosts[0].Keywords, []string{"a", "b", "c"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("keywords = %v, want %v", got, want)
	}
}

func TestDirective(t *testing.T) {
	tests := []struct {
		in, name, arg string
		ok            bool
	}{
		{" lssh:keywords a, b", "keywords", "a, b", true},
		{"lssh:displayname  Foo Bar ", "displayname", "Foo Bar", true},
		{"Lssh:FileKeywords x", "filekeywords", "x", true},
		{" just a comment", "", "", false},
		{"lssh", "", "", false},
	}
	for _, tt := range tests {
		name, arg, ok := directive(tt.in)
		if name != tt.name || arg != tt.arg || ok != tt.ok {
			t.Errorf("directive(%q) = %q, %q, %v", tt.in, name, arg, ok)
		}
	}
}
