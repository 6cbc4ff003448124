package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{Path: filepath.Join(HomeDir(), "certbatch.db")},
		Log:      LogConfig{Level: "info", Format: "text"},
		Storage:  StorageConfig{Backend: BackendDrive},
		Mail:     MailConfig{Port: 587, FromName: "Certificate Issuer"},
		Batch:    BatchConfig{Workers: 1},
		HTTP:     HTTPConfig{Addr: ":8080"},
		Secrets:  SecretsConfig{Provider: SecretsNone},
	}
}

// setDefaults registers every scalar key with viper so that environment
// overrides apply even when no file mentions the key.
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("database.path", cfg.Database.Path)
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.format", cfg.Log.Format)

	v.SetDefault("storage.backend", cfg.Storage.Backend)
	v.SetDefault("storage.drive.client_id", cfg.Storage.Drive.ClientID)
	v.SetDefault("storage.drive.client_secret", cfg.Storage.Drive.ClientSecret)
	v.SetDefault("storage.drive.redirect_uri", cfg.Storage.Drive.RedirectURI)
	v.SetDefault("storage.drive.refresh_token", cfg.Storage.Drive.RefreshToken)
	v.SetDefault("storage.objectstore.endpoint", cfg.Storage.ObjectStore.Endpoint)
	v.SetDefault("storage.objectstore.access_key", cfg.Storage.ObjectStore.AccessKey)
	v.SetDefault("storage.objectstore.secret_key", cfg.Storage.ObjectStore.SecretKey)
	v.SetDefault("storage.objectstore.bucket", cfg.Storage.ObjectStore.Bucket)
	v.SetDefault("storage.objectstore.use_ssl", cfg.Storage.ObjectStore.UseSSL)
	v.SetDefault("storage.objectstore.public_base_url", cfg.Storage.ObjectStore.PublicBaseURL)

	v.SetDefault("mail.host", cfg.Mail.Host)
	v.SetDefault("mail.port", cfg.Mail.Port)
	v.SetDefault("mail.username", cfg.Mail.Username)
	v.SetDefault("mail.password", cfg.Mail.Password)
	v.SetDefault("mail.from_name", cfg.Mail.FromName)
	v.SetDefault("mail.from_address", cfg.Mail.FromAddress)

	v.SetDefault("blobs.bucket", cfg.Blobs.Bucket)
	v.SetDefault("blobs.region", cfg.Blobs.Region)
	v.SetDefault("blobs.prefix", cfg.Blobs.Prefix)
	v.SetDefault("blobs.public_base_url", cfg.Blobs.PublicBaseURL)

	v.SetDefault("batch.workers", cfg.Batch.Workers)
	v.SetDefault("http.addr", cfg.HTTP.Addr)
	v.SetDefault("secrets.provider", cfg.Secrets.Provider)
	v.SetDefault("secrets.region", cfg.Secrets.Region)
}

// WriteDefault writes a commented default configuration to path.
func WriteDefault(path string) error {
	content := `# certbatch configuration
# Values of the form secret://<id> or secret://<id>#<json-key> are resolved
# through the configured secrets provider at startup.

database:
  path: ~/.certbatch/certbatch.db

log:
  level: info   # debug, info, warn, error
  format: text  # text or json

storage:
  backend: drive  # "drive" or "objectstore"
  drive:
    client_id: ""
    client_secret: ""
    redirect_uri: ""
    refresh_token: ""
  # objectstore:
  #   endpoint: localhost:9000
  #   access_key: ""
  #   secret_key: ""
  #   bucket: certificates
  #   use_ssl: false
  #   public_base_url: ""

mail:
  host: smtp.gmail.com
  port: 587
  username: ""
  password: ""
  from_name: Certificate Issuer
  from_address: ""

# Transient upload store (S3)
blobs:
  bucket: ""
  region: us-east-1
  prefix: uploads/

batch:
  # Recipients processed concurrently (1 = strictly sequential)
  workers: 1

http:
  addr: ":8080"

secrets:
  provider: none  # "none" or "aws"
  region: ""

# Replaces the built-in template catalog when set.
# templates:
#   - id: template1
#     background: https://example.com/backgrounds/pmpp.png
#     prefix: "PMPP B#"
`
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), 0644)
}
