package opener

import (
	"os/exec"
	"runtime"

	"github.com/charmbracelet/log"
)

// Platform represents an operating system family.
type Platform string

const (
	PlatformLinux   Platform = "linux"
	PlatformDarwin  Platform = "darwin"
	PlatformWindows Platform = "windows"
	// PlatformUnix covers the BSDs and other POSIX systems with a freedesktop stack.
	PlatformUnix    Platform = "unix"
	PlatformUnknown Platform = "unknown"
)

// Detect returns the platform the binary is running on.
func Detect() Platform {
	p := PlatformFor(runtime.GOOS)
	log.Debug("Platform detected", "goos", runtime.GOOS, "platform", p)
	return p
}

// PlatformFor maps a GOOS value to a Platform.
func PlatformFor(goos string) Platform {
	switch goos {
	case "linux", "android":
		return PlatformLinux
	case "darwin", "ios":
		return PlatformDarwin
	case "windows":
		return PlatformWindows
	case "freebsd", "openbsd", "netbsd", "dragonfly", "solaris", "illumos", "aix":
		return PlatformUnix
	default:
		return PlatformUnknown
	}
}

// isCommandAvailable checks if a command is available in PATH.
func isCommandAvailable(command string) bool {
	_, err := exec.LookPath(command)
	return err == nil
}
