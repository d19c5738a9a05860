package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dgnsrekt/speak/internal/config"
	"github.com/dgnsrekt/speak/internal/speech"
)

func executeRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})
	err := rootCmd.ExecuteContext(context.Background())
	return buf.String(), err
}

// resetFlags restores the root command flags a test is about to change.
func resetFlags(t *testing.T, names ...string) {
	t.Helper()
	t.Cleanup(func() {
		for _, name := range names {
			f := rootCmd.Flags().Lookup(name)
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		}
		noPlay = false
	})
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(prev) })
}

func TestRunWithStubWritesFile(t *testing.T) {
	resetFlags(t, "stub", "no-play", "text", "output")
	out := filepath.Join(t.TempDir(), "speech.mp3")

	if _, err := executeRoot(t, "--stub", "--no-play", "--text", "hello from the test", "-o", out); err != nil {
		t.Fatalf("execute: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("output file missing: %v", err)
	}
	if !strings.HasSuffix(string(data), "hello from the test") {
		t.Errorf("unexpected stub payload %q", data)
	}
	if settings.Play {
		t.Error("--no-play should disable playback")
	}
}

func TestConfigShowPrintsYAML(t *testing.T) {
	out, err := executeRoot(t, "config", "show")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	for _, key := range []string{"text:", "voice:", "format:", "output:", "log_level:"} {
		if !strings.Contains(out, key) {
			t.Errorf("output missing %q:\n%s", key, out)
		}
	}
}

func TestInvalidFormatIsRejected(t *testing.T) {
	resetFlags(t, "stub", "no-play", "format", "output")

	_, err := executeRoot(t, "--stub", "--no-play", "--format", "ogg", "-o", filepath.Join(t.TempDir(), "x.ogg"))
	if !errors.Is(err, speech.ErrUnknownFormat) {
		t.Fatalf("err = %v, want ErrUnknownFormat", err)
	}
}

func TestRunFormatNamesDefaultOutput(t *testing.T) {
	resetFlags(t, "stub", "no-play", "text", "format")
	dir := t.TempDir()
	chdir(t, dir)

	if _, err := executeRoot(t, "--stub", "--no-play", "--text", "wave", "--format", "wav"); err != nil {
		t.Fatalf("execute: %v", err)
	}

	if settings.Output != "output_speech.wav" {
		t.Errorf("Output = %q, want output_speech.wav", settings.Output)
	}
	if _, err := os.Stat(filepath.Join(dir, "output_speech.wav")); err != nil {
		t.Errorf("wav file missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "output_speech.mp3")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("no mp3 file should be written, stat err = %v", err)
	}
}

func TestFlagsResetBetweenRuns(t *testing.T) {
	resetFlags(t, "stub", "no-play")
	chdir(t, t.TempDir())

	if _, err := executeRoot(t, "--stub", "--no-play"); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if settings.Text != config.DefaultText {
		t.Errorf("Text = %q, want the default", settings.Text)
	}
	if settings.Output != config.Defaults().Output {
		t.Errorf("Output = %q, want the default", settings.Output)
	}
}

func TestEnsureConfigFileWritesTemplate(t *testing.T) {
	prev := configFile
	t.Cleanup(func() { configFile = prev })
	configFile = filepath.Join(t.TempDir(), "nested", "speak.yml")

	if err := ensureConfigFile(); err != nil {
		t.Fatalf("ensureConfigFile: %v", err)
	}
	data, err := os.ReadFile(configFile)
	if err != nil {
		t.Fatalf("config file missing: %v", err)
	}
	if string(data) != defaultConfig {
		t.Errorf("config file does not hold the default template:\n%s", data)
	}

	// An existing file is left alone.
	if err := os.WriteFile(configFile, []byte("voice: nova\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := ensureConfigFile(); err != nil {
		t.Fatalf("ensureConfigFile: %v", err)
	}
	if data, _ := os.ReadFile(configFile); string(data) != "voice: nova\n" {
		t.Errorf("existing config overwritten: %q", data)
	}
}

func TestEnsureConfigFileRejectsExtension(t *testing.T) {
	prev := configFile
	t.Cleanup(func() { configFile = prev })
	configFile = filepath.Join(t.TempDir(), "speak.toml")

	if err := ensureConfigFile(); err == nil {
		t.Fatal("expected an error for a .toml config file")
	}
}

func TestNewSynthesizerRequiresAPIKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	_, err := newSynthesizer(config.Defaults())
	if !errors.Is(err, speech.ErrMissingAPIKey) {
		t.Fatalf("err = %v, want ErrMissingAPIKey", err)
	}
}

func TestNewSynthesizerStub(t *testing.T) {
	s := config.Defaults()
	s.Stub = true
	synth, err := newSynthesizer(s)
	if err != nil {
		t.Fatalf("newSynthesizer: %v", err)
	}
	if _, ok := synth.(*speech.Stub); !ok {
		t.Errorf("synthesizer = %T, want *speech.Stub", synth)
	}
}
