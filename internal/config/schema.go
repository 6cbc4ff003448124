package config

// Storage backends for destination folders.
const (
	BackendDrive       = "drive"
	BackendObjectStore = "objectstore"
)

// Secret providers.
const (
	SecretsNone = "none"
	SecretsAWS  = "aws"
)

// Config represents the full certbatch configuration
type Config struct {
	Database  DatabaseConfig   `yaml:"database" mapstructure:"database"`
	Log       LogConfig        `yaml:"log" mapstructure:"log"`
	Storage   StorageConfig    `yaml:"storage" mapstructure:"storage"`
	Mail      MailConfig       `yaml:"mail" mapstructure:"mail"`
	Blobs     BlobsConfig      `yaml:"blobs" mapstructure:"blobs"`
	Batch     BatchConfig      `yaml:"batch" mapstructure:"batch"`
	HTTP      HTTPConfig       `yaml:"http" mapstructure:"http"`
	Secrets   SecretsConfig    `yaml:"secrets" mapstructure:"secrets"`
	Templates []TemplateConfig `yaml:"templates,omitempty" mapstructure:"templates"`
}

// DatabaseConfig locates the SQLite ledger.
type DatabaseConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// LogConfig configures the process logger.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"` // text or json
}

// StorageConfig selects and configures the destination folder store.
type StorageConfig struct {
	Backend     string            `yaml:"backend" mapstructure:"backend"`
	Drive       DriveConfig       `yaml:"drive" mapstructure:"drive"`
	ObjectStore ObjectStoreConfig `yaml:"objectstore" mapstructure:"objectstore"`
}

// DriveConfig holds the OAuth client and offline grant for Google Drive.
type DriveConfig struct {
	ClientID     string `yaml:"client_id" mapstructure:"client_id"`
	ClientSecret string `yaml:"client_secret" mapstructure:"client_secret"`
	RedirectURI  string `yaml:"redirect_uri" mapstructure:"redirect_uri"`
	RefreshToken string `yaml:"refresh_token" mapstructure:"refresh_token"`
}

// ObjectStoreConfig holds S3-compatible connection settings.
type ObjectStoreConfig struct {
	Endpoint      string `yaml:"endpoint" mapstructure:"endpoint"`
	AccessKey     string `yaml:"access_key" mapstructure:"access_key"`
	SecretKey     string `yaml:"secret_key" mapstructure:"secret_key"`
	Bucket        string `yaml:"bucket" mapstructure:"bucket"`
	UseSSL        bool   `yaml:"use_ssl" mapstructure:"use_ssl"`
	PublicBaseURL string `yaml:"public_base_url" mapstructure:"public_base_url"`
}

// MailConfig holds SMTP submission settings.
type MailConfig struct {
	Host        string `yaml:"host" mapstructure:"host"`
	Port        int    `yaml:"port" mapstructure:"port"`
	Username    string `yaml:"username" mapstructure:"username"`
	Password    string `yaml:"password" mapstructure:"password"`
	FromName    string `yaml:"from_name" mapstructure:"from_name"`
	FromAddress string `yaml:"from_address" mapstructure:"from_address"`
}

// BlobsConfig locates the transient upload bucket.
type BlobsConfig struct {
	Bucket        string `yaml:"bucket" mapstructure:"bucket"`
	Region        string `yaml:"region" mapstructure:"region"`
	Prefix        string `yaml:"prefix" mapstructure:"prefix"`
	PublicBaseURL string `yaml:"public_base_url" mapstructure:"public_base_url"`
}

// BatchConfig tunes the orchestrator.
type BatchConfig struct {
	// Workers is the number of recipients processed concurrently.
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// HTTPConfig configures the HTTP surface.
type HTTPConfig struct {
	Addr string `yaml:"addr" mapstructure:"addr"`
}

// SecretsConfig selects how secret:// references are resolved.
type SecretsConfig struct {
	Provider string `yaml:"provider" mapstructure:"provider"`
	Region   string `yaml:"region" mapstructure:"region"`
}

// TemplateConfig overrides one entry of the template catalog.
type TemplateConfig struct {
	ID         string `yaml:"id" mapstructure:"id"`
	Background string `yaml:"background" mapstructure:"background"`
	Prefix     string `yaml:"prefix" mapstructure:"prefix"`
}
