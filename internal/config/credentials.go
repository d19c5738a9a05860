package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/log"
	"github.com/dgnsrekt/speak/internal/speech"
	"github.com/joho/godotenv"
)

// DotEnvFile is loaded from the working directory before the environment is read.
const DotEnvFile = ".env"

// Credentials are the connection settings of the speech service.
type Credentials struct {
	APIKey  string `env:"OPENAI_API_KEY"`
	BaseURL string `env:"OPENAI_BASE_URL"`
	OrgID   string `env:"OPENAI_ORG_ID"`
}

// LoadCredentials reads the process environment after loading dotenv, if it
// exists. Variables already set in the environment win over the file.
func LoadCredentials(dotenv string) (Credentials, error) {
	if dotenv != "" {
		if err := godotenv.Load(dotenv); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Credentials{}, fmt.Errorf("config: load %s: %w", dotenv, err)
		}
	}
	return CredentialsFrom(env.ToMap(os.Environ()))
}

// CredentialsFrom parses credentials from an explicit variable map.
func CredentialsFrom(vars map[string]string) (Credentials, error) {
	creds, err := env.ParseAsWithOptions[Credentials](env.Options{Environment: vars})
	if err != nil {
		return Credentials{}, fmt.Errorf("config: parse environment: %w", err)
	}
	return creds, nil
}

// ClientConfig converts the credentials for speech.NewClient.
func (c Credentials) ClientConfig(logger *log.Logger) speech.ClientConfig {
	return speech.ClientConfig{
		APIKey:  c.APIKey,
		BaseURL: c.BaseURL,
		OrgID:   c.OrgID,
		Logger:  logger,
	}
}

// Redacted returns the API key with all but the last four characters masked.
func (c Credentials) Redacted() string {
	if len(c.APIKey) <= 4 {
		return "****"
	}
	return "****" + c.APIKey[len(c.APIKey)-4:]
}
