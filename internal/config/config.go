// Package config manages the dropbox-client configuration file and its
// environment overrides. App identity and preferences persist as JSON under
// the user's home directory; the access token is deliberately excluded from
// persistence and only ever enters through the environment.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/gofrs/flock"
)

const configDir = ".dropbox-client"
const configFile = "config.json"

const permSecureDir = 0700
const permSecureFile = 0600

// Configuration holds the application's persisted settings. Every field can
// be overridden through its environment variable; the access token has no
// JSON representation at all, so it cannot leak into the config file.
type Configuration struct {
	AppKey      string `json:"app_key" env:"DROPBOX_APP_KEY"`
	RedirectURI string `json:"redirect_uri" env:"DROPBOX_REDIRECT_URI"`
	Debug       bool   `json:"debug" env:"DROPBOX_DEBUG"`
	AccessToken string `json:"-" env:"DROPBOX_ACCESS_TOKEN"`

	mu sync.RWMutex
}

// Path resolves the configuration file location. DROPBOX_CONFIG_PATH
// overrides the default of ~/.dropbox-client/config.json.
func Path() (string, error) {
	if p := os.Getenv("DROPBOX_CONFIG_PATH"); p != "" {
		return p, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(homeDir, configDir, configFile), nil
}

// Save persists the configuration as indented JSON. Writes go through an
// advisory file lock so concurrent invocations don't interleave.
func (c *Configuration) Save() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	path, err := Path()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), permSecureDir); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	fileLock := flock.New(path + ".lock")
	if err := fileLock.Lock(); err != nil {
		return fmt.Errorf("locking config file: %w", err)
	}
	defer func() { _ = fileLock.Unlock() }()

	jsonData, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling config to JSON: %w", err)
	}
	if err := os.WriteFile(path, jsonData, permSecureFile); err != nil {
		return fmt.Errorf("writing configuration file: %w", err)
	}
	return nil
}

// Load reads the configuration file from disk. The raw read error is
// returned unwrapped so callers can distinguish a missing file.
func Load() (*Configuration, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	config := &Configuration{}
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("unmarshalling json: %w", err)
	}
	return config, nil
}

// LoadOrCreate loads the configuration file, falling back to an empty
// configuration when none exists, then applies environment overrides on top.
func LoadOrCreate() (*Configuration, error) {
	config, err := Load()
	if err != nil {
		if os.IsNotExist(err) {
			config = &Configuration{}
		} else {
			return nil, err
		}
	}

	if err := env.Parse(config); err != nil {
		return nil, fmt.Errorf("applying environment overrides: %w", err)
	}
	return config, nil
}
