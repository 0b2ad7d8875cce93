package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const (
	envPrefix           = "EMBERWORDS"
	defaultHTTPAddress  = "0.0.0.0:8080"
	defaultStoreBackend = StoreBackendSQLite
	defaultDatabasePath = "emberwords.db"
	defaultLogLevel     = "info"
	defaultGeminiModel  = "gemini-2.5-flash"
	defaultGeocodeURL   = "https://nominatim.openstreetmap.org"
	defaultGeocodeAgent = "Emberwords App"
)

// Store backends the server can run on.
const (
	StoreBackendFirestore = "firestore"
	StoreBackendSQLite    = "sqlite"
	StoreBackendMemory    = "memory"
)

// AppConfig captures runtime configuration for the API server.
type AppConfig struct {
	HTTPAddress        string
	StoreBackend       string
	FirestoreProjectID string
	DatabasePath       string
	GeminiAPIKey       string
	GeminiModel        string
	S3Region           string
	S3AccessKeyID      string
	S3SecretAccessKey  string
	S3Endpoint         string
	S3Bucket           string
	S3PublicBaseURL    string
	GeocodeBaseURL     string
	GeocodeUserAgent   string
	LogLevel           string
}

// GenerationEnabled reports whether a Gemini key was supplied.
func (c AppConfig) GenerationEnabled() bool {
	return strings.TrimSpace(c.GeminiAPIKey) != ""
}

// MediaEnabled reports whether an object storage bucket was supplied.
func (c AppConfig) MediaEnabled() bool {
	return strings.TrimSpace(c.S3Bucket) != ""
}

// NewViper returns a viper instance with defaults and env bindings configured.
func NewViper() *viper.Viper {
	configViper := viper.New()
	ApplyDefaults(configViper)
	return configViper
}

// ApplyDefaults configures defaults and env bindings on the provided viper instance.
func ApplyDefaults(configViper *viper.Viper) {
	configViper.SetEnvPrefix(envPrefix)
	configViper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	configViper.AutomaticEnv()

	configViper.SetDefault("http.address", defaultHTTPAddress)
	configViper.SetDefault("store.backend", defaultStoreBackend)
	configViper.SetDefault("database.path", defaultDatabasePath)
	configViper.SetDefault("gemini.model", defaultGeminiModel)
	configViper.SetDefault("geocode.base_url", defaultGeocodeURL)
	configViper.SetDefault("geocode.user_agent", defaultGeocodeAgent)
	configViper.SetDefault("log.level", defaultLogLevel)
}

// Load parses runtime configuration from viper.
func Load(configViper *viper.Viper) (AppConfig, error) {
	cfg := AppConfig{
		HTTPAddress:        configViper.GetString("http.address"),
		StoreBackend:       strings.ToLower(strings.TrimSpace(configViper.GetString("store.backend"))),
		FirestoreProjectID: configViper.GetString("firestore.project_id"),
		DatabasePath:       configViper.GetString("database.path"),
		GeminiAPIKey:       configViper.GetString("gemini.api_key"),
		GeminiModel:        configViper.GetString("gemini.model"),
		S3Region:           configViper.GetString("s3.region"),
		S3AccessKeyID:      configViper.GetString("s3.access_key_id"),
		S3SecretAccessKey:  configViper.GetString("s3.secret_access_key"),
		S3Endpoint:         configViper.GetString("s3.endpoint"),
		S3Bucket:           configViper.GetString("s3.bucket"),
		S3PublicBaseURL:    configViper.GetString("s3.public_base_url"),
		GeocodeBaseURL:     configViper.GetString("geocode.base_url"),
		GeocodeUserAgent:   configViper.GetString("geocode.user_agent"),
		LogLevel:           configViper.GetString("log.level"),
	}

	if err := cfg.validate(); err != nil {
		return AppConfig{}, err
	}

	return cfg, nil
}

func (c AppConfig) validate() error {
	switch c.StoreBackend {
	case StoreBackendFirestore:
		if strings.TrimSpace(c.FirestoreProjectID) == "" {
			return fmt.Errorf("firestore.project_id is required when store.backend is %q", StoreBackendFirestore)
		}
	case StoreBackendSQLite:
		if strings.TrimSpace(c.DatabasePath) == "" {
			return fmt.Errorf("database.path is required when store.backend is %q", StoreBackendSQLite)
		}
	case StoreBackendMemory:
	default:
		return fmt.Errorf("store.backend must be one of %q, %q, %q", StoreBackendFirestore, StoreBackendSQLite, StoreBackendMemory)
	}
	if strings.TrimSpace(c.HTTPAddress) == "" {
		return fmt.Errorf("http.address is required")
	}
	return nil
}
