package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"localshortcut/accelerator"
)

// keyEventJSON is the printed form of a KeyEvent.
type keyEventJSON struct {
	Accelerator string `json:"accelerator"`
	Platform    string `json:"platform"`
	NotValid    bool   `json:"notValid,omitempty"`
	Key         string `json:"key,omitempty"`
	Code        string `json:"code,omitempty"`
	Alt         bool   `json:"alt"`
	Ctrl        bool   `json:"control"`
	Meta        bool   `json:"meta"`
	Shift       bool   `json:"shift"`
}

func newParseCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "parse <accelerator>",
		Short: "Print the key descriptor of an accelerator as JSON",
		Long: `Print the key descriptor of an accelerator as JSON.

A string that is not a valid shortcut sequence prints a descriptor with
"notValid": true. A well-formed string that cannot be used on the platform
fails.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			platform := opts.cfg.EffectivePlatform()
			ev, err := accelerator.ToKeyEvent(args[0], platform)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(keyEventJSON{
				Accelerator: args[0],
				Platform:    string(platform),
				NotValid:    ev.NotValid(),
				Key:         ev.Key,
				Code:        ev.Code,
				Alt:         ev.Alt,
				Ctrl:        ev.Ctrl,
				Meta:        ev.Meta,
				Shift:       ev.Shift,
			})
		},
	}
}
