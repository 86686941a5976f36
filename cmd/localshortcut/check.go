package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"localshortcut/accelerator"
)

func newCheckCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check [accelerator...]",
		Short: "Validate accelerators, or the config file when none are given",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if len(args) == 0 {
				// Load already validated every binding.
				count := 0
				for _, name := range opts.cfg.SurfaceNames() {
					for _, b := range opts.cfg.Surfaces[name] {
						count += len(b.Accelerators)
					}
				}
				fmt.Fprintf(out, "config ok: %s (%d accelerators)\n", opts.configPath, count)
				return nil
			}

			platform := opts.cfg.EffectivePlatform()
			failed := 0
			for _, accel := range args {
				ev, err := parseAccelerator(accel, platform)
				if err != nil {
					failed++
					fmt.Fprintf(out, "fail\t%s\t%v\n", accel, err)
					continue
				}
				fmt.Fprintf(out, "ok\t%s\t%s\n", accel, ev)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d accelerators invalid for %s", failed, len(args), platform)
			}
			return nil
		},
	}
}

// parseAccelerator is ToKeyEvent with grammar failures reported as errors.
func parseAccelerator(accel string, platform accelerator.Platform) (accelerator.KeyEvent, error) {
	ev, err := accelerator.ToKeyEvent(accel, platform)
	if err != nil {
		return accelerator.KeyEvent{}, err
	}
	if ev.NotValid() {
		return ev, accelerator.InvalidError(accel)
	}
	return ev, nil
}
