package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/spf13/cobra"

	"localshortcut/internal/config"
	"localshortcut/internal/workerutil"
	"localshortcut/internal/wssurface"
	"localshortcut/shortcut"
)

func newRelayCmd(opts *rootOptions) *cobra.Command {
	var (
		listen  string
		noWatch bool
	)
	cmd := &cobra.Command{
		Use:   "relay",
		Short: "Serve WebSocket surfaces with the configured shortcuts",
		Long: `Serve WebSocket surfaces with the configured shortcuts.

Every connection to ws://<listen>/surface?surface=<name> is one surface. It
gets the bindings configured for <name> (or "*"), and each triggered
shortcut is pushed back as a {"type":"shortcut"} frame. The config file is
watched and bindings are re-applied to open surfaces when it changes.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := opts.cfg
			if listen != "" {
				cfg.ListenAddr = listen
			}
			watchPath := opts.configPath
			if noWatch {
				watchPath = ""
			}
			return runRelay(cmd.Context(), cfg, watchPath, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVarP(&listen, "listen", "l", "", "Listen address (default from config)")
	cmd.Flags().BoolVar(&noWatch, "no-watch", false, "Do not reload the config file on change")
	return cmd
}

// relay applies configured bindings to hub surfaces. applyMu serializes a
// reload against surfaces connecting at the same time.
type relay struct {
	reg *shortcut.Registry
	hub *wssurface.Hub

	applyMu sync.Mutex
	cfg     config.Config
}

func (r *relay) attach(s *wssurface.Surface) {
	r.applyMu.Lock()
	defer r.applyMu.Unlock()
	r.attachLocked(s)
}

// attachLocked replaces whatever is bound on s with the configured
// bindings. A reload can reach a surface before its OnConnect does.
func (r *relay) attachLocked(s *wssurface.Surface) {
	r.reg.UnregisterAll(s)
	n := applyBindings(r.reg, s, r.cfg.BindingsFor(s.Name()), func(action, accel string) {
		if err := s.Notify(action, accel); err != nil {
			slog.Debug("[DEBUG-WS] notify failed", "surface", s.ID(), "action", action, "error", err)
		}
	})
	slog.Debug("[DEBUG-WS] bindings applied", "surface", s.ID(), "name", s.Name(), "count", n)
}

func (r *relay) reload(cfg config.Config) {
	r.applyMu.Lock()
	defer r.applyMu.Unlock()
	if cfg.EffectivePlatform() != r.reg.Platform() {
		slog.Warn("[WARN-CONFIG] platform change takes effect after restart",
			"current", r.reg.Platform(),
			"configured", cfg.EffectivePlatform(),
		)
	}
	r.cfg = cfg
	for _, s := range r.hub.Surfaces() {
		r.attachLocked(s)
	}
}

func newRelay(cfg config.Config) *relay {
	r := &relay{
		reg: shortcut.NewRegistry(shortcut.WithPlatform(cfg.EffectivePlatform())),
		cfg: cfg,
	}
	r.hub = wssurface.NewHub(wssurface.HubOptions{
		Addr:      cfg.ListenAddr,
		OnConnect: r.attach,
	})
	return r
}

// runRelay serves until ctx is cancelled. An empty watchPath disables
// config hot reload.
func runRelay(ctx context.Context, cfg config.Config, watchPath string, out io.Writer) error {
	return newRelay(cfg).serve(ctx, watchPath, out)
}

func (r *relay) serve(ctx context.Context, watchPath string, out io.Writer) error {
	if err := r.hub.Start(ctx); err != nil {
		return err
	}

	var workers sync.WaitGroup
	if watchPath != "" {
		workerutil.RunWithPanicRecovery(ctx, "config-watch", &workers, func(ctx context.Context) {
			if err := config.Watch(ctx, watchPath, r.reload); err != nil {
				slog.Warn("[WARN-CONFIG] config watch stopped", "path", watchPath, "error", err)
			}
		}, workerutil.RecoveryOptions{})
	}

	fmt.Fprintf(out, "relay listening on %s\n", r.hub.URL())
	<-ctx.Done()

	stopErr := r.hub.Stop()
	workers.Wait()
	return stopErr
}
