// Package opener hands files to the operating system's default application.
//
// Each platform family gets one opener. The file path is always passed to the
// spawned process as a single argument and never goes through a shell.
package opener

import (
	"fmt"
	"os/exec"

	"github.com/charmbracelet/log"
)

// Opener dispatches a file to the default application for its type.
type Opener interface {
	// Name returns the executable the opener runs.
	Name() string

	// Open starts the opener for path and returns without waiting for it.
	Open(path string) error
}

// Launcher starts processes.
type Launcher interface {
	Launch(name string, args ...string) error
}

// For returns the opener for platform p. Anything that is neither Windows nor
// macOS is treated as a freedesktop system.
func For(p Platform, l Launcher) Opener {
	if l == nil {
		l = ExecLauncher{}
	}
	switch p {
	case PlatformWindows:
		return WindowsOpener{launcher: l}
	case PlatformDarwin:
		return DarwinOpener{launcher: l}
	default:
		return XDGOpener{launcher: l}
	}
}

// Default returns the opener for the running platform.
func Default() Opener {
	return For(Detect(), ExecLauncher{})
}

// Available reports whether the opener's executable can be found in PATH.
func Available(o Opener) bool {
	return isCommandAvailable(o.Name())
}

// WindowsOpener uses the URL protocol handler, which resolves file
// associations the same way Explorer does.
type WindowsOpener struct {
	launcher Launcher
}

func (WindowsOpener) Name() string { return "rundll32" }

func (o WindowsOpener) Open(path string) error {
	return o.launcher.Launch(o.Name(), "url.dll,FileProtocolHandler", path)
}

// DarwinOpener uses open(1).
type DarwinOpener struct {
	launcher Launcher
}

func (DarwinOpener) Name() string { return "open" }

func (o DarwinOpener) Open(path string) error {
	return o.launcher.Launch(o.Name(), path)
}

// XDGOpener uses xdg-open(1).
type XDGOpener struct {
	launcher Launcher
}

func (XDGOpener) Name() string { return "xdg-open" }

func (o XDGOpener) Open(path string) error {
	return o.launcher.Launch(o.Name(), path)
}

// ExecLauncher starts real processes. The child is reaped in the background
// and its exit status is discarded.
type ExecLauncher struct {
	Logger *log.Logger
}

// Launch starts name with args and returns as soon as the process is running.
func (l ExecLauncher) Launch(name string, args ...string) error {
	cmd := exec.Command(name, args...) //nolint:gosec
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("unable to start %s: %w", name, err)
	}

	logger := l.Logger
	if logger == nil {
		logger = log.Default()
	}
	logger.Debug("Opener started", "cmd", name, "pid", cmd.Process.Pid)

	go func() {
		_ = cmd.Wait()
	}()
	return nil
}

var (
	_ Opener = WindowsOpener{}
	_ Opener = DarwinOpener{}
	_ Opener = XDGOpener{}
)
