// Package config holds the run settings and the service credentials.
package config

import (
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dgnsrekt/speak/internal/output"
	"github.com/dgnsrekt/speak/internal/speech"
)

const (
	DefaultText         = "안녕하세요. 오늘 하루도 정말 수고 많으셨어요!"
	DefaultInstructions = "경상도 사투리로 말해줘 느리고 어린 변성기 온 10대 말투로"
	DefaultLogLevel     = "info"
)

// Settings is everything a single run needs besides credentials. Field tags
// match the keys of the configuration file.
type Settings struct {
	Text         string        `mapstructure:"text" yaml:"text"`
	Instructions string        `mapstructure:"instructions" yaml:"instructions"`
	Voice        string        `mapstructure:"voice" yaml:"voice"`
	Model        string        `mapstructure:"model" yaml:"model"`
	Format       string        `mapstructure:"format" yaml:"format"`
	Speed        float64       `mapstructure:"speed" yaml:"speed"`
	Output       string        `mapstructure:"output" yaml:"output"`
	Play         bool          `mapstructure:"play" yaml:"play"`
	Stub         bool          `mapstructure:"stub" yaml:"stub"`
	Timeout      time.Duration `mapstructure:"timeout" yaml:"timeout"`
	LogLevel     string        `mapstructure:"log_level" yaml:"log_level"`
	LogFile      string        `mapstructure:"log_file" yaml:"log_file,omitempty"`
}

// Defaults returns the settings of a bare invocation.
func Defaults() Settings {
	return Settings{
		Text:         DefaultText,
		Instructions: DefaultInstructions,
		Voice:        speech.DefaultVoice,
		Model:        speech.DefaultModel,
		Format:       string(speech.DefaultFormat),
		Output:       output.DefaultPath,
		Play:         true,
		LogLevel:     DefaultLogLevel,
	}
}

// Validate fills empty fields with defaults and rejects out of range values.
func (s *Settings) Validate() error {
	d := Defaults()
	if strings.TrimSpace(s.Text) == "" {
		return errors.New("config: text is required")
	}
	if s.Voice == "" {
		s.Voice = d.Voice
	}
	if s.Model == "" {
		s.Model = d.Model
	}
	if s.Output == "" {
		s.Output = d.Output
	}
	if s.LogLevel == "" {
		s.LogLevel = d.LogLevel
	}

	f, err := speech.ParseFormat(s.Format)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	s.Format = string(f)

	// The default file name follows the format so the system player picks
	// the right decoder. An explicit output path is left alone.
	if s.Output == output.DefaultPath {
		s.Output = strings.TrimSuffix(s.Output, filepath.Ext(s.Output)) + f.Extension()
	}

	if math.IsNaN(s.Speed) || s.Speed != 0 && (s.Speed < speech.MinSpeed || s.Speed > speech.MaxSpeed) {
		return fmt.Errorf("config: speed must be between %.2f and %.1f, got %.2f", speech.MinSpeed, speech.MaxSpeed, s.Speed)
	}
	if s.Timeout < 0 {
		return fmt.Errorf("config: timeout cannot be negative, got %s", s.Timeout)
	}
	if _, err := log.ParseLevel(s.LogLevel); err != nil {
		return fmt.Errorf("config: log_level: %w", err)
	}
	return nil
}

// Level returns the parsed log level, falling back to info.
func (s Settings) Level() log.Level {
	lvl, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(s.LogLevel)))
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

// Request builds the synthesis request described by s.
func (s Settings) Request() speech.Request {
	return speech.Request{
		Model:        s.Model,
		Text:         s.Text,
		Instructions: s.Instructions,
		Voice:        s.Voice,
		Format:       speech.Format(s.Format),
		Speed:        s.Speed,
	}
}
