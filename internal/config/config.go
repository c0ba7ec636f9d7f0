package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Placeholder project settings used when nothing is configured. They mirror
// the default tags on Config.
const (
	DefaultURL     = "https://your-project.supabase.co"
	DefaultAnonKey = "your-anon-key"
)

type Config struct {
	// Supabase project
	URL        string `envconfig:"SUPABASE_URL" default:"https://your-project.supabase.co"`
	AnonKey    string `envconfig:"SUPABASE_ANON_KEY" default:"your-anon-key"`
	StorageKey string `envconfig:"SUPABASE_STORAGE_KEY"` // default: sb-<project-ref>-auth-token

	// Session store selection
	Store         string        `envconfig:"SESSION_STORE" default:"file"`
	LookupTimeout time.Duration `envconfig:"LOOKUP_TIMEOUT" default:"15s"`

	File  FileConfig
	Azure AzureConfig
	Redis RedisConfig
}

type FileConfig struct {
	Dir string `envconfig:"SESSION_FILE_DIR"` // default: <user config dir>/supabase
}

type AzureConfig struct {
	Endpoint   string `envconfig:"AZURE_BLOB_ENDPOINT"` // default: https://<account>.blob.core.windows.net/
	Account    string `envconfig:"AZURE_STORAGE_ACCOUNT"`
	Container  string `envconfig:"AZURE_STORAGE_CONTAINER"`
	SASToken   string `envconfig:"AZURE_STORAGE_SAS"`
	BlobPrefix string `envconfig:"SESSION_BLOB_PREFIX" default:"supabase/sessions"`

	ClientID     string `envconfig:"AZURE_CLIENT_ID"`
	ClientSecret string `envconfig:"AZURE_CLIENT_SECRET"`
	TenantID     string `envconfig:"AZURE_TENANT_ID"`
}

type RedisConfig struct {
	Addr      string `envconfig:"REDIS_ADDR" default:"127.0.0.1:6379"`
	Password  string `envconfig:"REDIS_PASSWORD"`
	DB        int    `envconfig:"REDIS_DB" default:"0"`
	KeyPrefix string `envconfig:"REDIS_KEY_PREFIX"`

	// Timeout bounds dial and read; copied from LOOKUP_TIMEOUT by Load.
	Timeout time.Duration `ignored:"true"`
}

// Load reads config from environment variables, applies defaults and validates.
// Fields of the nested structs are looked up under envconfig's prefixed key
// first (AZURE_AZURE_STORAGE_ACCOUNT), then under the bare tag.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("read env: %w", err)
	}
	cfg.Store = strings.ToLower(strings.TrimSpace(cfg.Store))
	// go-redis v6 ignores the request context on the wire.
	cfg.Redis.Timeout = cfg.LookupTimeout
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// validate checks the project settings and store-specific requirements.
func (c *Config) validate() error {
	if strings.TrimSpace(c.URL) == "" {
		return errors.New("SUPABASE_URL is required")
	}
	u, err := url.Parse(c.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("SUPABASE_URL must be an absolute http(s) URL, got %q", c.URL)
	}
	if strings.TrimSpace(c.AnonKey) == "" {
		return errors.New("SUPABASE_ANON_KEY is required")
	}
	if c.LookupTimeout < 0 {
		return errors.New("LOOKUP_TIMEOUT must not be negative")
	}

	switch c.Store {
	case "file":
	case "azure":
		if c.Azure.Container == "" || (c.Azure.Account == "" && c.Azure.Endpoint == "") {
			return errors.New("azure: AZURE_STORAGE_CONTAINER and AZURE_STORAGE_ACCOUNT (or AZURE_BLOB_ENDPOINT) are required")
		}
	case "redis":
		if strings.TrimSpace(c.Redis.Addr) == "" {
			return errors.New("redis: REDIS_ADDR is required")
		}
	default:
		return errors.New("unsupported session store: " + c.Store)
	}
	return nil
}
