// Copyright (c) 2026 Keymaster Team
// lssh - SSH host selection and config distribution
// This source code is licensed under the MIT license found in the LICENSE file.

// Package hostlist reads the host source directory. Every `*.txt` file in it
// is an ssh_config fragment; its base name is the customer the hosts belong
// to. Comment directives starting with `lssh:` add search keywords and
// display names.
package hostlist // import "github.com/toeirei/lssh/internal/hostlist"

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/kevinburke/ssh_config"
	"github.com/toeirei/lssh/internal/logging"
	"github.com/toeirei/lssh/internal/model"
)

// FileSuffix marks host files in a source directory.
const FileSuffix = ".txt"

// Index is the loaded host list.
type Index struct {
	Hosts        map[string]*model.HostEntry // keyed by display name
	DisplayNames map[string]string           // customer -> display name
	Newest       time.Time                   // newest mtime of the directory and its host files
}

// Entries returns the hosts sorted by display name.
func (ix *Index) Entries() []model.HostEntry {
	out := make([]model.HostEntry, 0, len(ix.Hosts))
	for _, h := range ix.Hosts {
		out = append(out, *h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DisplayName < out[j].DisplayName })
	return out
}

// HostFiles lists the names of the regular `*.txt` files in dir, sorted.
func HostFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if !e.Type().IsRegular() || !strings.HasSuffix(e.Name(), FileSuffix) {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

// Load reads all host files of dir. The first file defining a host wins.
// Files that cannot be decoded are skipped with a warning.
func Load(dir string) (*Index, error) {
	st, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read host directory: %w", err)
	}
	names, err := HostFiles(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read host directory: %w", err)
	}

	ix := &Index{
		Hosts:        make(map[string]*model.HostEntry),
		DisplayNames: make(map[string]string),
		Newest:       st.ModTime(),
	}
	for _, name := range names {
		path := filepath.Join(dir, name)
		f, err := os.Open(path)
		if err != nil {
			logging.Warnf("skipping %s: %v", path, err)
			continue
		}
		fi, statErr := f.Stat()
		pf, err := parseFile(f, strings.TrimSuffix(name, FileSuffix))
		_ = f.Close()
		if err != nil {
			logging.Warnf("skipping %s: %v", path, err)
			continue
		}
		if statErr == nil && fi.ModTime().After(ix.Newest) {
			ix.Newest = fi.ModTime()
		}
		ix.merge(pf)
	}
	for _, h := range ix.Hosts {
		h.AddKeywords(h.Customer)
	}
	logging.Debugf("loaded %d hosts from %s", len(ix.Hosts), dir)
	return ix, nil
}

func (ix *Index) merge(pf *parsedFile) {
	for _, h := range pf.hosts {
		if _, ok := ix.Hosts[h.DisplayName]; ok {
			continue
		}
		ix.Hosts[h.DisplayName] = h
	}
	if pf.displayName != "" {
		ix.DisplayNames[pf.customer] = pf.displayName
	}
}

type parsedFile struct {
	customer    string
	displayName string
	hosts       []*model.HostEntry
}

// directive splits an `lssh:` comment into its name and argument.
func directive(comment string) (name, arg string, ok bool) {
	c := strings.TrimSpace(comment)
	if len(c) < len("lssh:") || !strings.EqualFold(c[:len("lssh:")], "lssh:") {
		return "", "", false
	}
	c = c[len("lssh:"):]
	i := strings.IndexAny(c, " \t")
	if i < 0 {
		return strings.ToLower(c), "", true
	}
	return strings.ToLower(c[:i]), strings.TrimSpace(c[i+1:]), true
}

func splitKeywords(arg string) []string {
	return strings.Split(arg, ",")
}

// parseFile decodes one host file with customer as the default customer.
func parseFile(r io.Reader, customer string) (*parsedFile, error) {
	cfg, err := ssh_config.Decode(r)
	if err != nil {
		return nil, err
	}
	pf := &parsedFile{customer: customer}
	fileKeywords := []string{customer}

	for _, host := range cfg.Hosts {
		var cur *model.HostEntry
		if len(host.Patterns) == 1 {
			p := host.Patterns[0].String()
			if !strings.ContainsAny(p, "*?") {
				cur = &model.HostEntry{DisplayName: p, Customer: customer}
				pf.hosts = append(pf.hosts, cur)
			}
		}
		for _, node := range host.Nodes {
			switch n := node.(type) {
			case *ssh_config.KV:
				if cur != nil && cur.Jumphost == "" && strings.EqualFold(n.Key, "ProxyJump") {
					if f := strings.Fields(n.Value); len(f) > 0 {
						cur.Jumphost = f[0]
					}
				}
			case *ssh_config.Empty:
				name, arg, ok := directive(n.Comment)
				if !ok {
					continue
				}
				switch name {
				case "filekeywords":
					fileKeywords = append(fileKeywords, splitKeywords(arg)...)
				case "keywords":
					if cur != nil {
						cur.AddKeywords(splitKeywords(arg)...)
					}
				case "displayname":
					if pf.displayName == "" && arg != "" {
						pf.displayName = arg
					}
				case "assignedcustomer":
					if cur != nil && arg != "" {
						cur.Customer = strings.TrimSuffix(arg, FileSuffix)
					}
				}
			}
		}
	}
	for _, h := range pf.hosts {
		h.AddKeywords(fileKeywords...)
	}
	return pf, nil
}
