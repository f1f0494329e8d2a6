// Copyright (c) 2026 Keymaster Team
// lssh - SSH host selection and config distribution
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/toeirei/lssh/internal/core"
	"github.com/toeirei/lssh/internal/i18n"
	"github.com/toeirei/lssh/internal/recording"
)

var replayRecording = recording.Replay

// runReplay plays back the recording matching the substrings and timestamp,
// asking the user when several match.
func runReplay(ctx context.Context, cmd *cobra.Command, o *rootOptions, args []string) error {
	var substrings []string
	if len(args) > 0 {
		// A username in the first substring is not part of the recording name.
		_, first := core.SplitUser(args[0])
		substrings = append([]string{first}, args[1:]...)
	}

	base := recording.BaseDir(appConfig.Recording.Dir)
	recs, err := recording.Find(base, substrings, o.timestamp)
	if err != nil {
		return err
	}

	var dir string
	switch len(recs) {
	case 0:
		fmt.Fprintln(cmd.ErrOrStderr(), i18n.T("replay.no_match"))
		return &exitError{code: 1}
	case 1:
		dir = recs[0].Dir
	default:
		names := make([]string, len(recs))
		for i, r := range recs {
			names[i] = r.Dir
		}
		idx, ok, err := flatDialog(names, i18n.T("dialog.select_recording"))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(cmd.ErrOrStderr(), i18n.T("replay.none_selected"))
			return &exitError{code: 1}
		}
		dir = names[idx]
	}

	fmt.Fprintln(cmd.OutOrStdout(), i18n.T("replay.replaying", dir))
	return replayRecording(ctx, filepath.Join(base, dir), cmd.OutOrStdout(), o.speed)
}
