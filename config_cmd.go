package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/charmbracelet/x/editor"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const defaultConfig = `# text to speak
text: "안녕하세요. 오늘 하루도 정말 수고 많으셨어요!"
# how the text should be spoken
instructions: "경상도 사투리로 말해줘 느리고 어린 변성기 온 10대 말투로"
# voice name
voice: "ballad"
# speech model
model: "gpt-4o-mini-tts"
# audio format: mp3, opus, aac, flac, wav or pcm
format: "mp3"
# playback speed between 0.25 and 4.0 (0 keeps the service default)
speed: 0
# file to write the audio to, relative to the working directory; the
# default name takes the extension of the chosen format
output: "output_speech.mp3"
# play the file with the system's default player
play: true
# give up on the speech request after this long (0 waits indefinitely)
timeout: "0s"
# log level: debug, info, warn or error
log_level: "info"
# also write logs to this file
# log_file: "~/.cache/speak/speak.log"
`

var configCmd = &cobra.Command{
	Use:     "config",
	Hidden:  false,
	Short:   "Edit the speak config file",
	Long:    paragraph(fmt.Sprintf("\n%s the speak config file. We’ll use EDITOR to determine which editor to use. If the config file doesn't exist, it will be created.", keyword("Edit"))),
	Example: paragraph("speak config\nspeak config --config path/to/config.yml"),
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := ensureConfigFile(); err != nil {
			return err
		}

		c, err := editor.Cmd("Speak", configFile)
		if err != nil {
			return fmt.Errorf("unable to set config file: %w", err)
		}
		c.Stdin = os.Stdin
		c.Stdout = os.Stdout
		c.Stderr = os.Stderr
		if err := c.Run(); err != nil {
			return fmt.Errorf("unable to run command: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), "Wrote config file to:", configFile)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective settings",
	Long:  paragraph(fmt.Sprintf("\n%s the settings a run would use, after merging the config file, SPEAK_* environment variables and defaults.", keyword("Print"))),
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		s, err := loadSettings()
		if err != nil {
			return err
		}

		out, err := yaml.Marshal(s)
		if err != nil {
			return fmt.Errorf("unable to encode settings: %w", err)
		}
		if used := viper.ConfigFileUsed(); used != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "# %s\n", used)
		}
		_, err = cmd.OutOrStdout().Write(out)
		return err
	},
}

func ensureConfigFile() error {
	if configFile == "" {
		configFile = viper.GetViper().ConfigFileUsed()
	}
	if configFile == "" {
		configFile = defaultConfigFile
	}
	expanded, err := homedir.Expand(configFile)
	if err != nil {
		return fmt.Errorf("unable to expand config path: %w", err)
	}
	configFile = expanded

	if ext := path.Ext(configFile); ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("'%s' is not a supported configuration type: use '%s' or '%s'", ext, ".yaml", ".yml")
	}

	if _, err := os.Stat(configFile); errors.Is(err, fs.ErrNotExist) {
		// File doesn't exist yet, create all necessary directories and
		// write the default config file
		if err := os.MkdirAll(filepath.Dir(configFile), 0o700); err != nil {
			return fmt.Errorf("unable create directory: %w", err)
		}

		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("unable to create config file: %w", err)
		}
		defer func() { _ = f.Close() }()

		if _, err := f.WriteString(defaultConfig); err != nil {
			return fmt.Errorf("unable to write config file: %w", err)
		}
	} else if err != nil { // some other error occurred
		return fmt.Errorf("unable to stat config file: %w", err)
	}
	return nil
}
