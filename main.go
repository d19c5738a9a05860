// Package main provides the entry point for the speak CLI application.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dgnsrekt/speak/internal/config"
	"github.com/dgnsrekt/speak/internal/opener"
	"github.com/dgnsrekt/speak/internal/output"
	"github.com/dgnsrekt/speak/internal/pipeline"
	"github.com/dgnsrekt/speak/internal/speech"
	gap "github.com/muesli/go-app-paths"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// Version as provided by goreleaser.
	Version = ""
	// CommitSHA as provided by goreleaser.
	CommitSHA = ""

	configFile        string
	defaultConfigFile string
	noPlay            bool
	settings          config.Settings

	rootCmd = &cobra.Command{
		Use:   "speak",
		Short: "Turn text into speech and play it",
		Long: paragraph(
			fmt.Sprintf("\nSynthesize speech with %s, save it to a file and play it with the system's default player.", keyword("OpenAI")),
		),
		Example:          paragraph("speak\nspeak --text \"Good morning\" --voice nova -o morning.mp3\nspeak --stub --no-play"),
		SilenceErrors:    false,
		SilenceUsage:     true,
		TraverseChildren: true,
		Args:             cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return setupFromConfig(cmd)
		},
		PreRunE: func(*cobra.Command, []string) error {
			return validateOptions()
		},
		RunE: execute,
	}
)

// setupFromConfig reads an explicit config file and configures logging. It
// runs for every command, so it must not reject an otherwise broken config.
func setupFromConfig(cmd *cobra.Command) error {
	if cmd.Flags().Changed("config") {
		viper.SetConfigFile(configFile)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("unable to read config file: %w", err)
		}
		log.Debug("Using configuration file", "path", viper.ConfigFileUsed())
	}

	// An invalid level falls back to info here and is rejected later by
	// validateOptions for the root command.
	lvl := config.Settings{LogLevel: viper.GetString("log_level")}.Level()
	return setupLog(lvl, viper.GetString("log_file"))
}

func loadSettings() (config.Settings, error) {
	s := config.Defaults()
	if err := viper.Unmarshal(&s); err != nil {
		return s, fmt.Errorf("unable to decode configuration: %w", err)
	}
	if noPlay {
		s.Play = false
	}
	if err := s.Validate(); err != nil {
		return s, err
	}
	return s, nil
}

func validateOptions() error {
	s, err := loadSettings()
	if err != nil {
		return err
	}
	settings = s
	return nil
}

func newSynthesizer(s config.Settings) (speech.Synthesizer, error) {
	if s.Stub {
		logger.Warn("Using the stub synthesizer, the output is not real speech")
		return speech.NewStub(logger), nil
	}

	creds, err := config.LoadCredentials(config.DotEnvFile)
	if err != nil {
		return nil, err
	}
	client, err := speech.NewClient(creds.ClientConfig(logger))
	if err != nil {
		return nil, fmt.Errorf("unable to create speech client: %w", err)
	}
	return client, nil
}

func execute(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if settings.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, settings.Timeout)
		defer cancel()
	}

	synth, err := newSynthesizer(settings)
	if err != nil {
		return err
	}

	p := pipeline.New(pipeline.Config{
		Request: settings.Request(),
		Output:  settings.Output,
		Play:    settings.Play,
	}, synth, output.Writer{}, opener.For(opener.Detect(), opener.ExecLauncher{Logger: logger}), logger)

	// Pipeline failures are reported by the pipeline itself and leave the exit
	// status at zero.
	if err := p.Run(ctx); err != nil && errors.Is(err, context.Canceled) {
		logger.Info("Interrupted")
	}
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := rootCmd.ExecuteContext(ctx)
	stop()
	_ = closeLog()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	tryLoadConfigFromDefaultPlaces()
	if len(CommitSHA) >= 7 {
		vt := rootCmd.VersionTemplate()
		rootCmd.SetVersionTemplate(vt[:len(vt)-1] + " (" + CommitSHA[0:7] + ")\n")
	}
	if Version == "" {
		Version = "unknown (built from source)"
	}
	rootCmd.Version = Version
	rootCmd.InitDefaultCompletionCmd()

	defaults := config.Defaults()

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", fmt.Sprintf("config file (default %s)", defaultConfigFile))
	rootCmd.PersistentFlags().String("log-level", defaults.LogLevel, "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-file", "", "also write logs to this file")

	rootCmd.Flags().StringP("text", "t", defaults.Text, "text to speak")
	rootCmd.Flags().StringP("instructions", "i", defaults.Instructions, "how the text should be spoken")
	rootCmd.Flags().String("voice", defaults.Voice, "voice name")
	rootCmd.Flags().StringP("model", "m", defaults.Model, "speech model")
	rootCmd.Flags().StringP("format", "f", defaults.Format, "audio format (mp3, opus, aac, flac, wav, pcm)")
	rootCmd.Flags().Float64("speed", 0, "playback speed between 0.25 and 4.0 (0 keeps the service default)")
	rootCmd.Flags().StringP("output", "o", defaults.Output, "file to write the audio to")
	rootCmd.Flags().BoolVar(&noPlay, "no-play", false, "save the audio without playing it")
	rootCmd.Flags().Bool("stub", false, "use an offline stub instead of the speech service")
	rootCmd.Flags().Duration("timeout", 0, "give up on the speech request after this long (0 waits indefinitely)")

	// Config bindings
	_ = viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("log_file", rootCmd.PersistentFlags().Lookup("log-file"))
	for _, name := range []string{"text", "instructions", "voice", "model", "format", "speed", "output", "stub", "timeout"} {
		_ = viper.BindPFlag(name, rootCmd.Flags().Lookup(name))
	}

	viper.SetDefault("text", defaults.Text)
	viper.SetDefault("instructions", defaults.Instructions)
	viper.SetDefault("voice", defaults.Voice)
	viper.SetDefault("model", defaults.Model)
	viper.SetDefault("format", defaults.Format)
	viper.SetDefault("speed", 0.0)
	viper.SetDefault("output", defaults.Output)
	viper.SetDefault("play", defaults.Play)
	viper.SetDefault("stub", false)
	viper.SetDefault("timeout", time.Duration(0))
	viper.SetDefault("log_level", defaults.LogLevel)
	viper.SetDefault("log_file", "")

	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd, checkCmd, manCmd)
}

func tryLoadConfigFromDefaultPlaces() {
	scope := gap.NewScope(gap.User, "speak")
	dirs, err := scope.ConfigDirs()
	if err != nil {
		fmt.Println("Could not find configuration directory.")
		os.Exit(1)
	}

	if c := os.Getenv("XDG_CONFIG_HOME"); c != "" {
		dirs = append([]string{filepath.Join(c, "speak")}, dirs...)
	}

	if c := os.Getenv("SPEAK_CONFIG_HOME"); c != "" {
		dirs = append([]string{c}, dirs...)
	}

	for _, v := range dirs {
		viper.AddConfigPath(v)
	}

	viper.SetConfigName("speak")
	viper.SetConfigType("yaml")
	viper.SetEnvPrefix("speak")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			log.Warn("Could not parse configuration file", "err", err)
		}
	}

	if used := viper.ConfigFileUsed(); used != "" {
		log.Debug("Using configuration file", "path", used)
		defaultConfigFile = used
		return
	}

	defaultConfigFile = filepath.Join(dirs[0], "speak.yml")
}
