package shortcut

import "localshortcut/accelerator"

var defaultRegistry = NewRegistry()

// Default returns the process-wide registry used by the package-level
// functions.
func Default() *Registry {
	return defaultRegistry
}

// Register binds accel to callback on s in the default registry.
func Register(s Surface, accel string, callback Callback) error {
	return defaultRegistry.Register(s, accel, callback)
}

// RegisterMany is Registry.RegisterMany on the default registry.
func RegisterMany(s Surface, accels []string, callback Callback) error {
	return defaultRegistry.RegisterMany(s, accels, callback)
}

// Unregister is Registry.Unregister on the default registry.
func Unregister(s Surface, accel string) error {
	return defaultRegistry.Unregister(s, accel)
}

// UnregisterMany is Registry.UnregisterMany on the default registry.
func UnregisterMany(s Surface, accels []string) error {
	return defaultRegistry.UnregisterMany(s, accels)
}

// UnregisterAll is Registry.UnregisterAll on the default registry.
func UnregisterAll(s Surface) {
	defaultRegistry.UnregisterAll(s)
}

// IsRegistered is Registry.IsRegistered on the default registry.
func IsRegistered(s Surface, accel string) (bool, error) {
	return defaultRegistry.IsRegistered(s, accel)
}

// IsAccelerator reports whether input is a well-formed accelerator.
func IsAccelerator(input string) bool {
	return accelerator.Valid(input)
}
