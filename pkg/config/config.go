package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// DefaultInputFile is the batch file looked up when none is given
const DefaultInputFile = "github_issues.json"

// Settings holds values taken from the environment
type Settings struct {
	GitHubToken   string        `env:"GITHUB_TOKEN"`
	APIBaseURL    string        `env:"GITHUB_API_URL" envDefault:"https://api.github.com"`
	InputFile     string        `env:"ISSUE_BATCH_FILE" envDefault:"github_issues.json"`
	Timeout       time.Duration `env:"ISSUE_BATCH_TIMEOUT" envDefault:"30s"`
	LogLevel      string        `env:"ISSUE_BATCH_LOG_LEVEL" envDefault:"warn"`
	FollowUpLabel string        `env:"ISSUE_BATCH_FOLLOWUP_LABEL" envDefault:"enhancement"`
}

// Mode is the effective run mode after combining flags and environment
type Mode struct {
	Token  string
	DryRun bool
}

// HasToken reports whether a token was found
func (m Mode) HasToken() bool {
	return m.Token != ""
}

// LoadSettings reads settings from the environment.
// A .env file in the working directory is loaded first; variables already set win.
func LoadSettings() (*Settings, error) {
	// Missing .env is the common case
	_ = godotenv.Load()

	var s Settings
	if err := env.Parse(&s); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	return &s, nil
}

// Validate checks if the settings are usable
func (s *Settings) Validate() error {
	u, err := url.Parse(s.APIBaseURL)
	if err != nil {
		return fmt.Errorf("invalid GITHUB_API_URL '%s': %w", s.APIBaseURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid GITHUB_API_URL '%s': must be an absolute http(s) URL", s.APIBaseURL)
	}

	if s.Timeout <= 0 {
		return fmt.Errorf("ISSUE_BATCH_TIMEOUT must be positive, got %s", s.Timeout)
	}

	if s.InputFile == "" {
		return fmt.Errorf("ISSUE_BATCH_FILE must not be empty")
	}

	return nil
}

// ResolveMode combines the explicit flag token, the environment token and the
// dry-run flag. Without any token the run is forced into dry-run.
func ResolveMode(explicitToken, envToken string, explicitDryRun bool) Mode {
	token := explicitToken
	if token == "" {
		token = envToken
	}

	return Mode{
		Token:  token,
		DryRun: explicitDryRun || token == "",
	}
}

// FindInputFile searches for name in the current and parent directories,
// also checking a scripts/ subdirectory at each level. When nothing is found
// it returns the path the file was expected at and false.
func FindInputFile(name string) (string, bool) {
	if filepath.IsAbs(name) {
		_, err := os.Stat(name)
		return name, err == nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return name, false
	}

	dir := cwd
	for {
		for _, candidate := range []string{
			filepath.Join(dir, name),
			filepath.Join(dir, "scripts", name),
		} {
			if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
				return candidate, true
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return filepath.Join(cwd, name), false
}
