package opener

import (
	"errors"
	"reflect"
	"runtime"
	"testing"
)

type call struct {
	name string
	args []string
}

type recordingLauncher struct {
	calls []call
	err   error
}

func (r *recordingLauncher) Launch(name string, args ...string) error {
	r.calls = append(r.calls, call{name: name, args: append([]string(nil), args...)})
	return r.err
}

func TestPlatformFor(t *testing.T) {
	tests := []struct {
		goos string
		want Platform
	}{
		{"linux", PlatformLinux},
		{"android", PlatformLinux},
		{"darwin", PlatformDarwin},
		{"windows", PlatformWindows},
		{"freebsd", PlatformUnix},
		{"openbsd", PlatformUnix},
		{"plan9", PlatformUnknown},
	}
	for _, tt := range tests {
		if got := PlatformFor(tt.goos); got != tt.want {
			t.Errorf("PlatformFor(%q) = %s, want %s", tt.goos, got, tt.want)
		}
	}
}

func TestDetectMatchesRuntime(t *testing.T) {
	if got, want := Detect(), PlatformFor(runtime.GOOS); got != want {
		t.Errorf("Detect() = %s, want %s", got, want)
	}
}

func TestForSelectsOneCommandPerPlatform(t *testing.T) {
	const path = "/tmp/my speech; rm -rf ~.mp3"

	tests := []struct {
		name     string
		goos     string
		wantType Opener
		want     call
	}{
		{
			name:     "windows",
			goos:     "windows",
			wantType: WindowsOpener{},
			want:     call{name: "rundll32", args: []string{"url.dll,FileProtocolHandler", path}},
		},
		{
			name:     "macos",
			goos:     "darwin",
			wantType: DarwinOpener{},
			want:     call{name: "open", args: []string{path}},
		},
		{
			name:     "linux",
			goos:     "linux",
			wantType: XDGOpener{},
			want:     call{name: "xdg-open", args: []string{path}},
		},
		{
			name:     "bsd",
			goos:     "freebsd",
			wantType: XDGOpener{},
			want:     call{name: "xdg-open", args: []string{path}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := &recordingLauncher{}
			o := For(PlatformFor(tt.goos), l)

			if reflect.TypeOf(o) != reflect.TypeOf(tt.wantType) {
				t.Fatalf("For(%s) = %T, want %T", tt.goos, o, tt.wantType)
			}
			if o.Name() != tt.want.name {
				t.Errorf("Name() = %q, want %q", o.Name(), tt.want.name)
			}
			if err := o.Open(path); err != nil {
				t.Fatalf("Open: %v", err)
			}
			if len(l.calls) != 1 {
				t.Fatalf("launched %d commands, want exactly 1", len(l.calls))
			}
			if !reflect.DeepEqual(l.calls[0], tt.want) {
				t.Errorf("launched %+v, want %+v", l.calls[0], tt.want)
			}
		})
	}
}

func TestOpenPropagatesLaunchError(t *testing.T) {
	wantErr := errors.New("no such file")
	o := For(PlatformLinux, &recordingLauncher{err: wantErr})
	if err := o.Open("x.mp3"); !errors.Is(err, wantErr) {
		t.Fatalf("Open err = %v, want %v", err, wantErr)
	}
}

func TestForNilLauncherUsesExec(t *testing.T) {
	o := For(PlatformLinux, nil)
	x, ok := o.(XDGOpener)
	if !ok {
		t.Fatalf("For = %T, want XDGOpener", o)
	}
	if _, ok := x.launcher.(ExecLauncher); !ok {
		t.Errorf("launcher = %T, want ExecLauncher", x.launcher)
	}
}

func TestExecLauncherMissingBinary(t *testing.T) {
	err := ExecLauncher{}.Launch("speak-definitely-not-a-real-binary", "x")
	if err == nil {
		t.Fatal("expected error for a missing binary")
	}
}
