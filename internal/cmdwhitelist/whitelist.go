// Copyright (c) 2026 Keymaster Team
// lssh - SSH host selection and config distribution
// This source code is licensed under the MIT license found in the LICENSE file.

// Package cmdwhitelist loads the RemoteCommand exemptions from CSV files.
//
// Every row has the columns user, hostname and command. A literal "*" in the
// user or hostname column matches any value. Empty columns are rejected, so a
// row can only widen the whitelist through an explicit "*".
package cmdwhitelist

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/toeirei/lssh/internal/logging"
	"github.com/toeirei/lssh/internal/sshconfig"
)

const wildcard = "*"

var columns = [...]string{"user", "hostname", "command"}

// Parse reads all rows of r.
func Parse(r io.Reader) ([]sshconfig.AllowListEntry, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 3
	reader.Comment = '#'

	var entries []sshconfig.AllowListEntry
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return entries, nil
		}
		if err != nil {
			return nil, err
		}
		for i, value := range row {
			if strings.TrimSpace(value) == "" {
				line, _ := reader.FieldPos(i)
				if i == 2 {
					return nil, fmt.Errorf("line %d: empty command column", line)
				}
				return nil, fmt.Errorf("line %d: empty %s column, use %q to match any %s", line, columns[i], wildcard, columns[i])
			}
		}
		entries = append(entries, sshconfig.AllowListEntry{
			User:     convertField(row[0]),
			Hostname: convertField(row[1]),
			Command:  row[2],
		})
	}
}

func convertField(value string) string {
	if value == wildcard {
		return ""
	}
	return value
}

// Load reads the whitelist at path. A missing file is an empty whitelist.
func Load(path string) ([]sshconfig.AllowListEntry, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		logging.Debugf("command whitelist %s does not exist, skipping", path)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open command whitelist: %w", err)
	}
	defer f.Close()

	entries, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse command whitelist %s: %w", path, err)
	}
	return entries, nil
}

// LoadAll concatenates the whitelists at paths in order.
func LoadAll(paths []string) ([]sshconfig.AllowListEntry, error) {
	var all []sshconfig.AllowListEntry
	for _, p := range paths {
		entries, err := Load(p)
		if err != nil {
			return nil, err
		}
		all = append(all, entries...)
	}
	return all, nil
}
