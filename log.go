package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/mitchellh/go-homedir"
	"golang.org/x/term"
)

var (
	logger   = log.NewWithOptions(os.Stderr, log.Options{Prefix: "speak"})
	closeLog = func() error { return nil }
)

// setupLog points the logger at stderr and, when file is set, at file too.
// Output that is not a terminal gets logfmt so it stays machine readable.
func setupLog(level log.Level, file string) error {
	var w io.Writer = os.Stderr
	isTerminal := term.IsTerminal(int(os.Stderr.Fd()))

	if file != "" {
		path, err := homedir.Expand(file)
		if err != nil {
			return fmt.Errorf("unable to expand log file path: %w", err)
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil { //nolint:gosec
			return fmt.Errorf("unable to create log directory: %w", err)
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644) //nolint:gosec
		if err != nil {
			return fmt.Errorf("unable to open log file: %w", err)
		}
		_ = closeLog()
		closeLog = f.Close
		w = io.MultiWriter(os.Stderr, f)
		isTerminal = false
	}

	logger = log.NewWithOptions(w, log.Options{
		Prefix:          "speak",
		Level:           level,
		ReportTimestamp: level == log.DebugLevel || file != "",
	})
	if !isTerminal {
		logger.SetFormatter(log.LogfmtFormatter)
	}
	log.SetDefault(logger)
	return nil
}
