// Package config loads certbatch configuration from YAML files and the
// environment.
package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/example/certbatch/internal/core/template"
	"github.com/example/certbatch/internal/ports/secondary"
)

// SecretScheme prefixes values that name a secret instead of holding it.
const SecretScheme = "secret://"

// EnvPrefix prefixes environment overrides, e.g. CERTBATCH_MAIL_PASSWORD.
const EnvPrefix = "CERTBATCH"

// Load merges, in increasing precedence: defaults, the global file, the
// project file, explicitPath (if non-empty) and the environment.
func Load(explicitPath string) (*Config, error) {
	defaults := DefaultConfig()

	v := viper.New()
	v.SetConfigType("yaml")
	setDefaults(v, defaults)

	for _, path := range []string{GlobalConfigPath(), ProjectConfigPath()} {
		if err := mergeFile(v, path); err != nil && !os.IsNotExist(err) {
			return nil, err
		}
	}
	if explicitPath != "" {
		if err := mergeFile(v, explicitPath); err != nil {
			return nil, err
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.Database.Path = expandHome(cfg.Database.Path)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func mergeFile(v *viper.Viper, path string) error {
	if _, err := os.Stat(path); err != nil {
		return err
	}
	v.SetConfigFile(path)
	if err := v.MergeInConfig(); err != nil {
		return fmt.Errorf("failed to read config %s: %w", path, err)
	}
	return nil
}

// Validate checks values that would otherwise fail deep inside a batch.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendDrive, BackendObjectStore:
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}
	switch c.Secrets.Provider {
	case "", SecretsNone, SecretsAWS:
	default:
		return fmt.Errorf("unknown secrets provider %q", c.Secrets.Provider)
	}
	if c.Batch.Workers < 1 {
		return fmt.Errorf("batch.workers must be at least 1, got %d", c.Batch.Workers)
	}
	if _, err := c.TemplateRegistry(); err != nil {
		return fmt.Errorf("invalid templates: %w", err)
	}
	return nil
}

// TemplateRegistry returns the configured catalog, or the built-in one when
// no override is set.
func (c *Config) TemplateRegistry() (*template.Registry, error) {
	if len(c.Templates) == 0 {
		return template.NewRegistry(template.DefaultDescriptors)
	}
	descriptors := make([]template.Descriptor, len(c.Templates))
	for i, t := range c.Templates {
		descriptors[i] = template.Descriptor{
			ID:               t.ID,
			BackgroundSource: t.Background,
			SerialPrefix:     t.Prefix,
		}
	}
	return template.NewRegistry(descriptors)
}

// ResolveSecrets replaces every secret:// value among the credential
// fields with the value resolver returns for it.
func (c *Config) ResolveSecrets(ctx context.Context, resolver secondary.SecretResolver) error {
	for name, field := range c.secretFields() {
		if !strings.HasPrefix(*field, SecretScheme) {
			continue
		}
		value, err := resolver.Resolve(ctx, strings.TrimPrefix(*field, SecretScheme))
		if err != nil {
			return fmt.Errorf("failed to resolve %s: %w", name, err)
		}
		*field = value
	}
	return nil
}

// HasSecretRefs reports whether any credential field still names a secret.
func (c *Config) HasSecretRefs() bool {
	for _, field := range c.secretFields() {
		if strings.HasPrefix(*field, SecretScheme) {
			return true
		}
	}
	return false
}

// Redacted returns a copy with credential values masked, for display.
func (c *Config) Redacted() *Config {
	out := *c
	out.Templates = append([]TemplateConfig(nil), c.Templates...)
	for _, field := range out.secretFields() {
		if *field != "" && !strings.HasPrefix(*field, SecretScheme) {
			*field = "********"
		}
	}
	return &out
}

func (c *Config) secretFields() map[string]*string {
	return map[string]*string{
		"storage.drive.client_secret":    &c.Storage.Drive.ClientSecret,
		"storage.drive.refresh_token":    &c.Storage.Drive.RefreshToken,
		"storage.objectstore.access_key": &c.Storage.ObjectStore.AccessKey,
		"storage.objectstore.secret_key": &c.Storage.ObjectStore.SecretKey,
		"mail.username":                  &c.Mail.Username,
		"mail.password":                  &c.Mail.Password,
	}
}

// HomeDir returns ~/.certbatch.
func HomeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".certbatch"
	}
	return filepath.Join(home, ".certbatch")
}

// GlobalConfigPath returns the path to the global config file
func GlobalConfigPath() string {
	return filepath.Join(HomeDir(), "config.yaml")
}

// ProjectConfigPath returns the path to the project config file
func ProjectConfigPath() string {
	cwd, _ := os.Getwd()
	return filepath.Join(cwd, ".certbatch", "config.yaml")
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
