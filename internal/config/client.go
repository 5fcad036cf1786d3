package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/example/roomboard/internal/validation"
)

const (
	clientConfigFileName = "roomboard.yaml"
	defaultAPIURL        = "http://localhost:8085/api"
	defaultTimeout       = 30 * time.Second
)

// ClientConfig is the CLI side configuration read from roomboard.yaml.
type ClientConfig struct {
	APIURL      string        `yaml:"apiURL" json:"apiURL" validate:"required,http_url"`
	Timeout     time.Duration `yaml:"timeout" json:"timeout" validate:"min=0"`
	SessionFile string        `yaml:"sessionFile"`
}

// DefaultClientConfig returns the settings used when no file is present.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		APIURL:      defaultAPIURL,
		Timeout:     defaultTimeout,
		SessionFile: defaultSessionFile(),
	}
}

// LoadClient looks for roomboard.yaml in the current directory and then the
// user's config directory. Defaults apply when neither exists. ROOMBOARD_API_URL
// overrides apiURL.
func LoadClient() (ClientConfig, error) {
	path, err := findClientConfigFile()
	if err != nil {
		return ClientConfig{}, err
	}
	return LoadClientFromPath(path)
}

// LoadClientFromPath loads and validates the client configuration at path. An
// empty path yields the defaults.
func LoadClientFromPath(path string) (ClientConfig, error) {
	cfg := DefaultClientConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return ClientConfig{}, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return ClientConfig{}, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if url := strings.TrimSpace(os.Getenv("ROOMBOARD_API_URL")); url != "" {
		cfg.APIURL = url
	}
	cfg.APIURL = strings.TrimRight(cfg.APIURL, "/")
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.SessionFile == "" {
		cfg.SessionFile = defaultSessionFile()
	}

	if err := ValidateClient(cfg); err != nil {
		return ClientConfig{}, err
	}
	return cfg, nil
}

// ValidateClient validates the client configuration struct.
func ValidateClient(cfg ClientConfig) error {
	if fields := validation.Struct(cfg); fields != nil {
		msgs := make([]string, 0, len(fields))
		for _, msg := range fields {
			msgs = append(msgs, msg)
		}
		return fmt.Errorf("config validation failed: %s", strings.Join(msgs, "; "))
	}
	return nil
}

func findClientConfigFile() (string, error) {
	if _, err := os.Stat(clientConfigFileName); err == nil {
		return clientConfigFileName, nil
	}

	dir, err := os.UserConfigDir()
	if err != nil {
		return "", nil
	}
	path := filepath.Join(dir, "roomboard", clientConfigFileName)
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("failed to stat %s: %w", path, err)
	}
	return path, nil
}

func defaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".roomboard", "session.yaml")
	}
	return filepath.Join(dir, "roomboard", "session.yaml")
}
