// Copyright (c) 2026 Keymaster Team
// lssh - SSH host selection and config distribution
// This source code is licensed under the MIT license found in the LICENSE file.

package install

import (
	"errors"
	"fmt"
	"os"
)

const (
	beginMarker = "# == automatically added lssh config entries =="
	endMarker   = "# == end of automatically added lssh config entries =="
)

// ErrMarkers is returned when the lssh section markers of an ssh_config are
// duplicated, unbalanced or out of order.
var ErrMarkers = errors.New("inconsistent lssh section markers")

// SSHConfig edits the lssh section of an ssh_config file.
type SSHConfig struct {
	Path    string
	Include string // glob of the host files, e.g. /var/local/lssh/hosts/*.txt
}

// Section returns the lines of the lssh section.
func (c *SSHConfig) Section() []string {
	return []string{beginMarker, "Host *", "Include " + c.Include, endMarker}
}

// AddSection inserts or refreshes the lssh section.
func (c *SSHConfig) AddSection() (bool, error) {
	_, changed, err := c.replace(c.Section())
	return changed, err
}

// RemoveSection deletes the lssh section. It reports whether there was one.
func (c *SSHConfig) RemoveSection() (bool, error) {
	found, _, err := c.replace(nil)
	return found, err
}

// replace swaps the current section for section, appending it when there is
// none. The file is written only when its content changes.
func (c *SSHConfig) replace(section []string) (found, changed bool, err error) {
	data, err := os.ReadFile(c.Path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return false, false, fmt.Errorf("failed to read %s: %w", c.Path, err)
	}
	current := splitLines(string(data))

	var begins, ends []int
	for i, l := range current {
		switch l {
		case beginMarker:
			begins = append(begins, i)
		case endMarker:
			ends = append(ends, i)
		}
	}
	switch {
	case len(begins) > 1:
		return false, false, fmt.Errorf("%w: more than one begin comment in %s", ErrMarkers, c.Path)
	case len(ends) > 1:
		return false, false, fmt.Errorf("%w: more than one end comment in %s", ErrMarkers, c.Path)
	case len(begins) == 1 && len(ends) == 0:
		return false, false, fmt.Errorf("%w: begin comment without end comment in %s", ErrMarkers, c.Path)
	case len(begins) == 0 && len(ends) == 1:
		return false, false, fmt.Errorf("%w: end comment without begin comment in %s", ErrMarkers, c.Path)
	case len(begins) == 1 && begins[0] > ends[0]:
		return false, false, fmt.Errorf("%w: end comment before begin comment in %s", ErrMarkers, c.Path)
	}

	var next []string
	if len(begins) == 0 {
		next = append(append(next, current...), section...)
	} else {
		next = append(next, current[:begins[0]]...)
		next = append(next, section...)
		next = append(next, current[ends[0]+1:]...)
	}
	found = len(begins) == 1
	if equalLines(next, current) {
		return found, false, nil
	}
	if err := os.WriteFile(c.Path, []byte(joinLines(next)), 0o644); err != nil {
		return found, false, fmt.Errorf("failed to write %s: %w", c.Path, err)
	}
	return found, true, nil
}
