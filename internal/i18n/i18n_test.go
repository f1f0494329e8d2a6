// Copyright (c) 2026 Keymaster Team
// lssh - SSH host selection and config distribution
// This source code is licensed under the MIT license found in the LICENSE file.

package i18n

import (
	"io/fs"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestTranslate(t *testing.T) {
	Init("en")
	if got := T("connect.no_hosts"); got != "No hosts defined in the configuration" {
		t.Fatalf("unexpected en text %q", got)
	}
	if got := T("connect.direct", "web-01"); got != "Connecting to web-01 without jumphost" {
		t.Fatalf("unexpected formatted text %q", got)
	}

	Init("de")
	if got := T("connect.via"); got != "Verbinde über:" {
		t.Fatalf("unexpected de text %q", got)
	}
	t.Cleanup(func() { Init("en") })
}

func TestUnknownLanguageFallsBackToEnglish(t *testing.T) {
	Init("xx")
	defer Init("en")
	if got := T("replay.no_match"); got != "No matching recording was found" {
		t.Fatalf("got %q", got)
	}
}

func TestUnknownIDIsReturned(t *testing.T) {
	Init("en")
	if got := T("no.such.message"); got != "no.such.message" {
		t.Fatalf("got %q", got)
	}
}

func TestLanguages(t *testing.T) {
	Init("en")
	langs := strings.Join(Languages(), ",")
	if !strings.Contains(langs, "en") || !strings.Contains(langs, "de") {
		t.Fatalf("languages = %s", langs)
	}
}

// Every locale must carry the same message IDs as the English one.
func TestLocalesComplete(t *testing.T) {
	load := func(name string) map[string]string {
		data, err := fs.ReadFile(localeFS, "locales/"+name)
		if err != nil {
			t.Fatal(err)
		}
		m := map[string]string{}
		if err := yaml.Unmarshal(data, &m); err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		return m
	}
	en := load("en.yaml")
	files, err := fs.ReadDir(localeFS, "locales")
	if err != nil {
		t.Fatal(err)
	}
	for _, f := range files {
		other := load(f.Name())
		for id := range en {
			if _, ok := other[id]; !ok {
				t.Errorf("%s lacks %s", f.Name(), id)
			}
		}
		for id := range other {
			if _, ok := en[id]; !ok {
				t.Errorf("%s has unknown id %s", f.Name(), id)
			}
		}
	}
}
