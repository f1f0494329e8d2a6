// Copyright (c) 2026 Keymaster Team
// lssh - SSH host selection and config distribution
// This source code is licensed under the MIT license found in the LICENSE file.

// i18n-linter checks the message IDs used in the Go sources against the
// embedded locale files. It fails when code uses an ID the primary locale
// lacks or when another locale misses an ID; orphaned IDs are warnings.
//
// Usage:
//
//	go run ./tools/i18n-linter [--root DIR] [--locales DIR] [--primary en.yaml]
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

var (
	// i18n.T("id", ...) calls.
	callRe = regexp.MustCompile(`i18n\.T\("([^"]+)"`)
	// Literals shaped like message IDs, e.g. IDs handed to a helper that
	// calls i18n.T.
	literalRe = regexp.MustCompile(`"([a-z]+\.[a-z_]+)"`)
)

// usage holds the IDs found in the sources.
type usage struct {
	calls    map[string][]string // id -> "file:line" of i18n.T calls
	literals map[string]struct{}
}

// report is the result of a lint run.
type report struct {
	Undefined []string            // used in i18n.T but not in the primary locale
	Orphaned  []string            // in the primary locale but never referenced
	Missing   map[string][]string // locale file -> IDs of the primary it lacks
	Unknown   map[string][]string // locale file -> IDs the primary does not have
}

func (r *report) failed() bool {
	return len(r.Undefined) > 0 || len(r.Missing) > 0 || len(r.Unknown) > 0
}

func main() {
	root := pflag.String("root", ".", "module root to scan")
	locales := pflag.String("locales", "internal/i18n/locales", "directory of the locale files")
	primary := pflag.String("primary", "en.yaml", "locale file holding every message")
	pflag.Parse()

	r, err := lint(*root, *locales, *primary)
	if err != nil {
		fmt.Fprintf(os.Stderr, "i18n-linter: %v\n", err)
		os.Exit(2)
	}
	r.print(os.Stdout)
	if r.failed() {
		os.Exit(1)
	}
}

func lint(root, localesDir, primary string) (*report, error) {
	used, err := scanSources(root)
	if err != nil {
		return nil, fmt.Errorf("scanning sources: %w", err)
	}
	primaryKeys, err := loadKeysFromLocale(filepath.Join(localesDir, primary))
	if err != nil {
		return nil, fmt.Errorf("loading primary locale: %w", err)
	}
	files, err := filepath.Glob(filepath.Join(localesDir, "*.yaml"))
	if err != nil {
		return nil, err
	}

	r := &report{Missing: map[string][]string{}, Unknown: map[string][]string{}}
	for id := range used.calls {
		if _, ok := primaryKeys[id]; !ok {
			r.Undefined = append(r.Undefined, id)
		}
	}
	for id := range primaryKeys {
		_, called := used.calls[id]
		_, mentioned := used.literals[id]
		if !called && !mentioned {
			r.Orphaned = append(r.Orphaned, id)
		}
	}
	for _, f := range files {
		name := filepath.Base(f)
		if name == primary {
			continue
		}
		keys, err := loadKeysFromLocale(f)
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", name, err)
		}
		for id := range primaryKeys {
			if _, ok := keys[id]; !ok {
				r.Missing[name] = append(r.Missing[name], id)
			}
		}
		for id := range keys {
			if _, ok := primaryKeys[id]; !ok {
				r.Unknown[name] = append(r.Unknown[name], id)
			}
		}
		sort.Strings(r.Missing[name])
		sort.Strings(r.Unknown[name])
	}
	sort.Strings(r.Undefined)
	sort.Strings(r.Orphaned)
	return r, nil
}

func (r *report) print(w io.Writer) {
	section := func(title string, ids []string) {
		if len(ids) == 0 {
			return
		}
		fmt.Fprintf(w, "%s:\n", title)
		for _, id := range ids {
			fmt.Fprintf(w, "  - %s\n", id)
		}
	}
	section("Used but not defined in the primary locale", r.Undefined)
	section("Defined but never used (warning)", r.Orphaned)
	for _, name := range sortedKeys(r.Missing) {
		section("Missing in "+name, r.Missing[name])
	}
	for _, name := range sortedKeys(r.Unknown) {
		section("Unknown in "+name, r.Unknown[name])
	}
	if !r.failed() && len(r.Orphaned) == 0 {
		fmt.Fprintln(w, "All translation files are consistent.")
	}
}

func sortedKeys(m map[string][]string) []string {
	out := make([]string, 0, len(m))
	for k, v := range m {
		if len(v) > 0 {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

// scanSources collects message IDs from the non-test Go files below root.
func scanSources(root string) (*usage, error) {
	u := &usage{calls: map[string][]string{}, literals: map[string]struct{}{}}
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			name := info.Name()
			if path != root && (name == "tools" || strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".")) {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
			return nil
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		for i, line := range strings.Split(string(content), "\n") {
			for _, m := range callRe.FindAllStringSubmatch(line, -1) {
				u.calls[m[1]] = append(u.calls[m[1]], fmt.Sprintf("%s:%d", path, i+1))
			}
			for _, m := range literalRe.FindAllStringSubmatch(line, -1) {
				u.literals[m[1]] = struct{}{}
			}
		}
		return nil
	})
	return u, err
}

// loadKeysFromLocale reads a YAML file and returns a flat map of its keys.
func loadKeysFromLocale(path string) (map[string]struct{}, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var data map[string]interface{}
	if err := yaml.Unmarshal(content, &data); err != nil {
		return nil, err
	}

	keys := make(map[string]struct{})
	flattenYAML("", data, keys)
	return keys, nil
}

// flattenYAML converts a nested map into dot-separated keys. Flat files with
// dotted IDs come out unchanged.
func flattenYAML(prefix string, node interface{}, keys map[string]struct{}) {
	switch v := node.(type) {
	case map[string]interface{}:
		for k, val := range v {
			newPrefix := k
			if prefix != "" {
				newPrefix = prefix + "." + k
			}
			flattenYAML(newPrefix, val, keys)
		}
	default:
		if prefix != "" {
			keys[prefix] = struct{}{}
		}
	}
}
