package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"localshortcut/internal/config"
)

// rootOptions holds the persistent flags and the config they resolve to.
type rootOptions struct {
	configPath string
	logLevel   string
	platform   string

	cfg config.Config
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:   "localshortcut",
		Short: "Surface-local keyboard shortcuts",
		Long: `localshortcut registers keyboard shortcuts that fire only while a given
surface has focus: a desktop window, a browser tab connected over WebSocket,
or a terminal screen.

Examples:
  localshortcut check CmdOrCtrl+Shift+K F5     # validate accelerators
  localshortcut parse Ctrl+Alt+Up              # print the key descriptor
  localshortcut relay --listen 127.0.0.1:7315  # serve remote surfaces
  localshortcut term                           # bind shortcuts in this terminal`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.load(cmd)
		},
	}

	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Config file (default: user config dir)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Override log level (debug/info/warn/error)")
	root.PersistentFlags().StringVar(&opts.platform, "platform", "", "Modifier rules to apply (darwin/linux/windows)")

	root.AddCommand(newCheckCmd(opts))
	root.AddCommand(newParseCmd(opts))
	root.AddCommand(newRelayCmd(opts))
	root.AddCommand(newTermCmd(opts))
	return root
}

// load resolves the config file and installs the default logger writing to
// the command's stderr.
func (o *rootOptions) load(cmd *cobra.Command) error {
	if strings.TrimSpace(o.configPath) == "" {
		o.configPath = config.DefaultPath()
	}
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
	}
	if o.platform != "" {
		cfg.Platform = strings.ToLower(o.platform)
	}
	o.cfg = cfg

	slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: cfg.Level()})))
	slog.Debug("[DEBUG-CLI] config loaded", "path", o.configPath, "platform", cfg.EffectivePlatform())
	return nil
}
