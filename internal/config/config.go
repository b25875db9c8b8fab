// Package config defines the necessary types to configure the application.
// An example config file config.yaml is provided in the repository.
package config

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/openkcm/common-sdk/pkg/commoncfg"
)

type Config struct {
	commoncfg.BaseConfig `mapstructure:",squash" yaml:",inline"`

	Identity        Identity        `yaml:"identity"`
	Redirect        Redirect        `yaml:"redirect"`
	CredentialStore CredentialStore `yaml:"credentialStore"`
	Biometric       Biometric       `yaml:"biometric"`
}

// Identity describes the remote identity endpoint logins are issued against.
type Identity struct {
	BaseURL string `yaml:"baseURL"`
}

// Redirect describes the surface the authorization token is handed off to.
type Redirect struct {
	BaseURL string `yaml:"baseURL"`
	// OpenCommand overrides the platform URL opener (xdg-open, open).
	OpenCommand string `yaml:"openCommand"`
}

const (
	StoreBackendFile   = "file"
	StoreBackendValKey = "valkey"
)

type CredentialStore struct {
	Backend string    `yaml:"backend" default:"file"`
	File    FileStore `yaml:"file"`
	ValKey  ValKey    `yaml:"valkey"`
}

type FileStore struct {
	Path    string `yaml:"path" default:"$HOME/.login-agent/credentials"`
	KeyPath string `yaml:"keyPath" default:"$HOME/.login-agent/credentials.key"`
}

type ValKey struct {
	Host     commoncfg.SourceRef `yaml:"host"`
	User     commoncfg.SourceRef `yaml:"user"`
	Password commoncfg.SourceRef `yaml:"password"`
	Prefix   string              `yaml:"prefix" default:"login-agent"`
}

type Biometric struct {
	// HelperCommand names the external binary that talks to the platform
	// biometric facility. Empty means no biometric capability on this device.
	HelperCommand string `yaml:"helperCommand"`
	PromptMessage string `yaml:"promptMessage" default:"Authenticate with Face ID or Touch ID"`
	FallbackLabel string `yaml:"fallbackLabel" default:"Use Passcode"`
}

// Validate rejects configurations that would produce malformed requests or
// redirect URLs at runtime. Both endpoint origins are required up front.
func Validate(cfg *Config) error {
	if cfg.Identity.BaseURL == "" {
		return errors.New("identity.baseURL is required")
	}
	if _, err := url.Parse(cfg.Identity.BaseURL); err != nil {
		return fmt.Errorf("parsing identity.baseURL: %w", err)
	}

	if cfg.Redirect.BaseURL == "" {
		return errors.New("redirect.baseURL is required")
	}
	if _, err := url.Parse(cfg.Redirect.BaseURL); err != nil {
		return fmt.Errorf("parsing redirect.baseURL: %w", err)
	}

	switch cfg.CredentialStore.Backend {
	case StoreBackendFile, StoreBackendValKey:
	default:
		return fmt.Errorf("unknown credential store backend: %q", cfg.CredentialStore.Backend)
	}

	return nil
}
