package main

import (
	"context"
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"localshortcut/internal/config"
	"localshortcut/internal/termsurface"
	"localshortcut/shortcut"
)

const quitAction = "quit"

func newTermCmd(opts *rootOptions) *cobra.Command {
	var surfaceName string
	cmd := &cobra.Command{
		Use:   "term",
		Short: "Run the configured shortcuts on this terminal",
		Long: `Run the configured shortcuts on this terminal.

Triggered actions are shown on the status line. The "quit" action and
Ctrl+C exit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			screen, err := tcell.NewScreen()
			if err != nil {
				return fmt.Errorf("open terminal: %w", err)
			}
			if err := screen.Init(); err != nil {
				return fmt.Errorf("init terminal: %w", err)
			}
			defer screen.Fini()
			return runTerm(cmd.Context(), screen, opts.cfg, surfaceName)
		},
	}
	cmd.Flags().StringVarP(&surfaceName, "surface", "s", "main", "Config surface whose bindings to use")
	return cmd
}

// runTerm runs the terminal surface on an initialized screen until ctx is
// cancelled or the user quits.
func runTerm(ctx context.Context, screen tcell.Screen, cfg config.Config, surfaceName string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	surface := termsurface.New(screen, fmt.Sprintf("localshortcut [%s] - Ctrl+C to quit", surfaceName))
	reg := shortcut.NewRegistry(shortcut.WithPlatform(cfg.EffectivePlatform()))

	n := applyBindings(reg, surface, cfg.BindingsFor(surfaceName), func(action, accel string) {
		if action == quitAction {
			cancel()
			return
		}
		surface.SetStatus(fmt.Sprintf("%s -> %s", accel, action))
	})
	surface.SetStatus(fmt.Sprintf("%d shortcuts bound", n))
	surface.OnKey(func(ev *tcell.EventKey) {
		if ev.Key() == tcell.KeyCtrlC {
			cancel()
		}
	})
	return surface.Run(ctx)
}
