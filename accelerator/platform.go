package accelerator

import "runtime"

// Platform names an operating system in runtime.GOOS form.
type Platform string

const (
	PlatformDarwin  Platform = "darwin"
	PlatformLinux   Platform = "linux"
	PlatformWindows Platform = "windows"
)

// HostPlatform returns the platform the process is running on.
func HostPlatform() Platform {
	return Platform(runtime.GOOS)
}

// MacLike reports whether the Command and Option modifiers are available and
// CommandOrControl resolves to the meta key.
func (p Platform) MacLike() bool {
	return p == PlatformDarwin
}
