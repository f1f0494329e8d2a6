// Copyright (c) 2026 Keymaster Team
// lssh - SSH host selection and config distribution
// This source code is licensed under the MIT license found in the LICENSE file.

package sshconfig

import "testing"

func TestIsLiteral(t *testing.T) {
	cases := map[string]bool{
		"/usr/bin/foo":   true,
		"--flag=value":   true,
		"a,b:c@d%e+f":    true,
		"":               false,
		"a b":            false,
		"foo;bar":        false,
		"$(id)":          false,
		"`id`":           false,
		"it's":           false,
		"a|b":            false,
		"~/bin/tool":     false,
		"/bin/echo\t":    false,
		"glob*":          false,
		"näme":           false,
		"redirect>/tmp/": false,
	}
	for in, want := range cases {
		if got := IsLiteral(in); got != want {
			t.Errorf("IsLiteral(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestParseEscapedCommand(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"/bin/echo hi", "/bin/echo", true},
		{"/bin/true", "/bin/true", true},
		{"  /bin/true  ", "/bin/true", true},
		{"/usr/bin/foo --flag value", "/usr/bin/foo", true},
		{"'/opt/my tool/run' --x", "/opt/my tool/run", true},
		{"/opt/'a b'/run arg", "/opt/a b/run", true},
		{"/bin/echo '' x", "/bin/echo", true},
		{`/bin/echo "" x`, "/bin/echo", true},
		{`/bin/echo 'it'"'"'s'`, "", false},
		{"/bin/echo 'a b'; rm -rf /", "", false},
		{"/bin/echo hi; rm -rf /", "", false},
		{"/bin/echo $HOME", "", false},
		{"/bin/echo 'unterminated", "", false},
		{`/bin/echo "quoted"`, "", false},
		{"", "", false},
		{"   ", "", false},
		{"''", "", false},
		{"a&&b", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseEscapedCommand(tt.in)
		if ok != tt.ok || got != tt.want {
			t.Errorf("ParseEscapedCommand(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestSuggestQuoting(t *testing.T) {
	got := SuggestQuoting("/bin/echo  a;b $HOME")
	want := `/bin/echo 'a;b' '$HOME'`
	if got != want {
		t.Fatalf("SuggestQuoting = %q, want %q", got, want)
	}
	if _, ok := ParseEscapedCommand(got); !ok {
		t.Fatalf("suggestion %q is not accepted by ParseEscapedCommand", got)
	}
}

// Double quotes keep $, ` and \ active, so only the "" idiom is accepted and
// a suggestion for an argument holding a single quote never validates.
func TestSuggestQuotingSingleQuoteIsRejected(t *testing.T) {
	got := SuggestQuoting("/bin/echo it's")
	if want := `/bin/echo 'it'"'"'s'`; got != want {
		t.Fatalf("SuggestQuoting = %q, want %q", got, want)
	}
	if _, ok := ParseEscapedCommand(got); ok {
		t.Fatalf("suggestion %q must not be accepted", got)
	}
}
