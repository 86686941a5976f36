package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/pelletier/go-toml/v2"
	"go.yaml.in/yaml/v3"

	"localshortcut/accelerator"
)

const (
	maxConfigFileBytes int64 = 1 << 20 // 1MB
	appDirName               = "localshortcut"
	defaultFileName          = "config.yaml"
	defaultListenAddr        = "127.0.0.1:7315"
	defaultLogLevel          = "info"
)

// Format is the on-disk encoding of a config file.
type Format int

const (
	FormatYAML Format = iota
	FormatTOML
)

// FormatForPath picks the encoding from the file extension. Anything other
// than .toml is YAML.
func FormatForPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return FormatTOML
	}
	return FormatYAML
}

// defaultConfigDirFn is a test seam; tests override it to point Save at a
// temporary directory.
var defaultConfigDirFn = defaultConfigDir
var userHomeDirFn = os.UserHomeDir
var defaultPathWarningState struct {
	mu       sync.Mutex
	messages []string
}

func recordDefaultPathWarning(message string) {
	trimmed := strings.TrimSpace(message)
	if trimmed == "" {
		return
	}
	defaultPathWarningState.mu.Lock()
	defaultPathWarningState.messages = append(defaultPathWarningState.messages, trimmed)
	defaultPathWarningState.mu.Unlock()
}

// ConsumeDefaultPathWarnings returns and clears path-resolution warnings
// accumulated during DefaultPath() calls.
func ConsumeDefaultPathWarnings() []string {
	defaultPathWarningState.mu.Lock()
	defer defaultPathWarningState.mu.Unlock()
	if len(defaultPathWarningState.messages) == 0 {
		return nil
	}
	out := slices.Clone(defaultPathWarningState.messages)
	defaultPathWarningState.messages = nil
	return out
}

// Binding maps one or more accelerators to a named action.
type Binding struct {
	Accelerators []string `yaml:"accelerators" toml:"accelerators" json:"accelerators"`
	Action       string   `yaml:"action" toml:"action" json:"action"`
}

// Config is the localshortcut runtime configuration.
type Config struct {
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level" toml:"log_level" json:"log_level"`
	// Platform overrides the modifier rules (darwin, linux, windows).
	// Empty means the host platform.
	Platform string `yaml:"platform,omitempty" toml:"platform,omitempty" json:"platform,omitempty"`
	// ListenAddr is the host:port of the WebSocket surface hub.
	ListenAddr string `yaml:"listen_addr" toml:"listen_addr" json:"listen_addr"`
	// Surfaces maps a surface name to its bindings in match order.
	// The name "*" applies to every surface without its own entry.
	Surfaces map[string][]Binding `yaml:"surfaces" toml:"surfaces" json:"surfaces"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() Config {
	return Config{
		LogLevel:   defaultLogLevel,
		ListenAddr: defaultListenAddr,
		Surfaces: map[string][]Binding{
			"main": {
				{Accelerators: []string{"CmdOrCtrl+R", "F5"}, Action: "reload"},
				{Accelerators: []string{"F11"}, Action: "toggle-fullscreen"},
				{Accelerators: []string{"CmdOrCtrl+Shift+M"}, Action: "toggle-maximise"},
				{Accelerators: []string{"CmdOrCtrl+Q"}, Action: "quit"},
			},
		},
	}
}

// DefaultPath resolves the config file path, preferring LOCALAPPDATA over
// APPDATA, falling back to ~/.config when both are unset, and then to
// os.TempDir() if the home directory cannot be resolved.
func DefaultPath() string {
	base := strings.TrimSpace(os.Getenv("LOCALAPPDATA"))
	if base == "" {
		base = strings.TrimSpace(os.Getenv("APPDATA"))
	}
	if base == "" {
		home, err := userHomeDirFn()
		if err != nil {
			slog.Warn("[WARN-CONFIG] using temp dir as config path fallback", "error", err)
			recordDefaultPathWarning(
				"Config path fallback: failed to resolve LOCALAPPDATA/APPDATA/home directory. Using temp directory.",
			)
			base = os.TempDir()
		} else {
			base = filepath.Join(home, ".config")
		}
	}
	return filepath.Join(base, appDirName, defaultFileName)
}

// Load reads the config file at path. A missing or empty file yields the
// defaults. Every configured accelerator is checked against the effective
// platform; the first bad binding is returned as an error.
func Load(path string) (Config, error) {
	if path == "" {
		return DefaultConfig(), errors.New("config path required")
	}

	raw, err := readLimitedFile(path, maxConfigFileBytes)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultConfig(), nil
		}
		return DefaultConfig(), err
	}
	if len(strings.TrimSpace(string(raw))) == 0 {
		return DefaultConfig(), nil
	}

	var cfg Config
	if err := unmarshal(FormatForPath(path), raw, &cfg); err != nil {
		slog.Warn("[WARN-CONFIG] failed to parse config, using defaults", "path", path, "error", err)
		return DefaultConfig(), fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := applyDefaultsAndValidate(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// EnsureFile writes the default config if missing and returns the loaded
// config.
func EnsureFile(path string) (Config, error) {
	cfg, err := Load(path)
	if err != nil {
		return cfg, err
	}
	if _, statErr := os.Stat(path); errors.Is(statErr, os.ErrNotExist) {
		if _, err := Save(path, cfg); err != nil {
			return cfg, err
		}
	}
	return cfg, nil
}

// Save validates cfg and writes it atomically to path, which must lie inside
// the default config directory.
func Save(path string, cfg Config) (Config, error) {
	normalizedPath, err := validateConfigPath(path)
	if err != nil {
		return cfg, err
	}
	if err := applyDefaultsAndValidate(&cfg); err != nil {
		return cfg, fmt.Errorf("save config: %w", err)
	}

	raw, err := marshal(FormatForPath(normalizedPath), cfg)
	if err != nil {
		return cfg, fmt.Errorf("save config: marshal: %w", err)
	}
	if err := atomicWrite(normalizedPath, raw); err != nil {
		return cfg, err
	}
	slog.Debug("[DEBUG-CONFIG] config saved", "path", path)
	return cfg, nil
}

// Clone returns a deep copy of src.
func Clone(src Config) Config {
	dst := src
	if src.Surfaces != nil {
		dst.Surfaces = make(map[string][]Binding, len(src.Surfaces))
		for name, bindings := range src.Surfaces {
			copied := make([]Binding, len(bindings))
			for i, b := range bindings {
				copied[i] = Binding{Accelerators: slices.Clone(b.Accelerators), Action: b.Action}
			}
			dst.Surfaces[name] = copied
		}
	}
	return dst
}

// Level maps LogLevel to a slog level. Unknown values map to Info.
func (c Config) Level() slog.Level {
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// EffectivePlatform returns the configured platform or the host platform.
func (c Config) EffectivePlatform() accelerator.Platform {
	if c.Platform == "" {
		return accelerator.HostPlatform()
	}
	return accelerator.Platform(c.Platform)
}

// BindingsFor returns the bindings of the named surface, falling back to
// the "*" entry.
func (c Config) BindingsFor(surface string) []Binding {
	if bindings, ok := c.Surfaces[surface]; ok {
		return bindings
	}
	return c.Surfaces["*"]
}

// SurfaceNames returns the configured surface names in sorted order.
func (c Config) SurfaceNames() []string {
	names := make([]string, 0, len(c.Surfaces))
	for name := range c.Surfaces {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var allowedLogLevels = map[string]struct{}{
	"debug": {}, "info": {}, "warn": {}, "warning": {}, "error": {},
}

// applyDefaultsAndValidate fills missing defaults and validates cfg in-place.
// MUTATES: cfg is directly modified.
// Used by both Load and Save to ensure consistent normalization.
func applyDefaultsAndValidate(cfg *Config) error {
	defaults := DefaultConfig()
	if isZeroConfig(*cfg) {
		*cfg = defaults
		return nil
	}

	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	if cfg.LogLevel == "" {
		cfg.LogLevel = defaults.LogLevel
	}
	if _, ok := allowedLogLevels[cfg.LogLevel]; !ok {
		return fmt.Errorf("log_level %q is not one of debug, info, warn, error", cfg.LogLevel)
	}

	cfg.Platform = strings.ToLower(strings.TrimSpace(cfg.Platform))

	cfg.ListenAddr = strings.TrimSpace(cfg.ListenAddr)
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = defaults.ListenAddr
	}
	if _, _, err := net.SplitHostPort(cfg.ListenAddr); err != nil {
		return fmt.Errorf("listen_addr %q: %w", cfg.ListenAddr, err)
	}

	if cfg.Surfaces == nil {
		cfg.Surfaces = defaults.Surfaces
	}
	return validateSurfaces(cfg.Surfaces, cfg.EffectivePlatform())
}

func validateSurfaces(surfaces map[string][]Binding, platform accelerator.Platform) error {
	for _, name := range sortedKeys(surfaces) {
		if strings.TrimSpace(name) == "" {
			return errors.New("surfaces: empty surface name")
		}
		for i := range surfaces[name] {
			b := &surfaces[name][i]
			b.Action = strings.TrimSpace(b.Action)
			if b.Action == "" {
				return fmt.Errorf("surfaces.%s[%d]: action required", name, i)
			}
			if len(b.Accelerators) == 0 {
				return fmt.Errorf("surfaces.%s[%d]: at least one accelerator required", name, i)
			}
			for _, accel := range b.Accelerators {
				if err := checkAccelerator(accel, platform); err != nil {
					return fmt.Errorf("surfaces.%s[%d]: %w", name, i, err)
				}
			}
		}
	}
	return nil
}

func checkAccelerator(accel string, platform accelerator.Platform) error {
	if !accelerator.Valid(accel) {
		return accelerator.InvalidError(accel)
	}
	_, err := accelerator.ToKeyEvent(accel, platform)
	return err
}

func sortedKeys(m map[string][]Binding) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func unmarshal(format Format, raw []byte, cfg *Config) error {
	if format == FormatTOML {
		return toml.Unmarshal(raw, cfg)
	}
	return yaml.Unmarshal(raw, cfg)
}

func marshal(format Format, cfg Config) ([]byte, error) {
	if format == FormatTOML {
		return toml.Marshal(cfg)
	}
	return yaml.Marshal(cfg)
}

func readLimitedFile(path string, maxBytes int64) ([]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	limited := io.LimitReader(file, maxBytes+1)
	raw, err := io.ReadAll(limited)
	if err != nil {
		return nil, err
	}
	if int64(len(raw)) > maxBytes {
		return nil, fmt.Errorf("config file exceeds %d bytes", maxBytes)
	}
	return raw, nil
}

func isZeroConfig(cfg Config) bool {
	return reflect.DeepEqual(cfg, Config{})
}
