// Package config loads the run configuration from the environment, using the
// GitHub Action input names so the binary works unchanged inside a workflow.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// Inputs
	Links        string `envconfig:"INPUT_PR-LINKS"`
	BadgeStyle   string `envconfig:"INPUT_BADGE-STYLE" default:"flat" validate:"oneof=flat flat-square plastic for-the-badge social"`
	OutputFormat string `envconfig:"INPUT_OUTPUT-FORMAT" default:"markdown" validate:"oneof=markdown html json table"`
	// Boolean inputs stay strings: only a literal "false" turns them off.
	SortByCountInput         string `envconfig:"INPUT_SORT-BY-COUNT"`
	IncludeMergeCommitsInput string `envconfig:"INPUT_INCLUDE-MERGE-COMMITS"`

	SortByCount         bool `ignored:"true"`
	IncludeMergeCommits bool `ignored:"true"`

	// GitHub
	Token             string `envconfig:"INPUT_GITHUB-TOKEN" validate:"required_without=AppClientID"`
	EnvToken          string `envconfig:"GITHUB_TOKEN"`
	AppClientID       string `envconfig:"GITHUB_APP_CLIENT_ID" validate:"required_with=AppPrivateKey"`
	AppPrivateKey     string `envconfig:"GITHUB_APP_PRIVATE_KEY" validate:"required_with=AppClientID"`
	AppInstallationID int64  `envconfig:"GITHUB_APP_INSTALLATION_ID" validate:"required_with=AppClientID"`
	APIURL            string `envconfig:"GITHUB_API_URL" validate:"omitempty,url"`
	GraphQLURL        string `envconfig:"GITHUB_GRAPHQL_URL" validate:"omitempty,url"`

	// Pacing
	Pace        time.Duration `envconfig:"PACE" default:"1s" validate:"gte=0"`
	Concurrency int           `envconfig:"CONCURRENCY" default:"1" validate:"gte=1,lte=16"`
	CallTimeout time.Duration `envconfig:"CALL_TIMEOUT" default:"30s" validate:"gte=0"`

	// Logging
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn warning error"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"text" validate:"oneof=text json"`

	// Outputs
	GithubOutput string `envconfig:"GITHUB_OUTPUT"`
	OutputDir    string `envconfig:"OUTPUT_DIR"`
}

type Loader struct {
	DotEnvFiles []string
	Validate    *validator.Validate
}

func NewLoader() *Loader {
	return &Loader{DotEnvFiles: []string{".env"}, Validate: validator.New()}
}

// Load reads .env files (without overriding the environment) and then the
// environment itself. It does not validate; call Check once flags are applied.
func (l *Loader) Load() (*Config, error) {
	for _, f := range l.DotEnvFiles {
		if !fileExists(f) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return nil, fmt.Errorf("dotenv %s: %w", f, err)
		}
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("env load: %w", err)
	}
	if cfg.Token == "" {
		cfg.Token = cfg.EnvToken
	}
	cfg.SortByCount = inputEnabled(cfg.SortByCountInput)
	cfg.IncludeMergeCommits = inputEnabled(cfg.IncludeMergeCommitsInput)
	return &cfg, nil
}

// Check validates cfg.
func (l *Loader) Check(cfg *Config) error {
	if err := l.Validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}
	return nil
}

// PrivateKey returns the GitHub App private key. The setting holds either the
// PEM itself or a path to it.
func (c *Config) PrivateKey() ([]byte, error) {
	key := strings.TrimSpace(c.AppPrivateKey)
	if key == "" {
		return nil, errors.New("no GitHub App private key configured")
	}
	if strings.HasPrefix(key, "-----BEGIN") {
		return []byte(key), nil
	}
	data, err := os.ReadFile(key)
	if err != nil {
		return nil, fmt.Errorf("read GitHub App private key: %w", err)
	}
	return data, nil
}

func inputEnabled(v string) bool {
	return !strings.EqualFold(strings.TrimSpace(v), "false")
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
