package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"coreapi/internal/config"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

const defaultAPIURL = "http://localhost:8080"

// cliConfig is the ~/.jobctl.yaml file.
type cliConfig struct {
	APIURL      string `yaml:"api_url"`
	IdentityURL string `yaml:"identity_url"`
	Token       string `yaml:"token,omitempty"`
	Theme       string `yaml:"theme,omitempty"`
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".jobctl.yaml"
	}
	return filepath.Join(home, ".jobctl.yaml")
}

// loadConfig reads path. A missing file yields the defaults.
func loadConfig(path string) (*cliConfig, error) {
	cfg := &cliConfig{APIURL: defaultAPIURL, IdentityURL: config.AppRegistry(false).Identity}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.APIURL == "" {
		cfg.APIURL = defaultAPIURL
	}
	if cfg.IdentityURL == "" {
		cfg.IdentityURL = config.AppRegistry(false).Identity
	}
	return cfg, nil
}

// save writes the file with owner-only permissions since it holds the token.
func (c *cliConfig) save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// fileTokenStore persists the access token in the config file.
type fileTokenStore struct {
	mu   sync.Mutex
	cfg  *cliConfig
	path string
}

func (s *fileTokenStore) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg.Token
}

func (s *fileTokenStore) SetToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cfg.Token == token {
		return
	}
	s.cfg.Token = token
	if err := s.cfg.save(s.path); err != nil {
		log.Warn().Err(err).Msg("failed to persist token")
	}
}

func (s *fileTokenStore) Clear() { s.SetToken("") }
