// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"parche-recommender/internal/models"
)

// Load reads configs/config.yaml, merges config.<APP_ENVIRONMENT>.yaml on top
// and applies environment overrides.
func Load() (*Config, error) {
	loadEnvFile()

	v := newViper()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../../configs")
	v.AddConfigPath(".")

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	v.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = v.MergeInConfig()

	return finalize(v)
}

// LoadFromFile reads a single config file without environment merging.
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	v := newViper()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return finalize(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

func finalize(v *viper.Viper) (*Config, error) {
	expandEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	overrideEmptyConfig(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
		"../../../.env",
	}

	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// expandEnvVars resolves ${VAR} placeholders left in string values.
func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		strVal, ok := v.Get(key).(string)
		if !ok {
			continue
		}
		if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
			if expanded := os.ExpandEnv(strVal); expanded != strVal && expanded != "" {
				v.Set(key, expanded)
			}
		}
	}
}

func overrideEmptyConfig(cfg *Config) {
	overrides := []struct {
		target *string
		env    string
	}{
		{&cfg.GenAI.APIKey, "GENAI_API_KEY"},
		{&cfg.GenAI.BaseURL, "GENAI_BASE_URL"},
		{&cfg.Database.Postgres.User, "DB_USER"},
		{&cfg.Database.Postgres.Password, "DB_PASSWORD"},
		{&cfg.Database.Redis.Password, "REDIS_PASSWORD"},
		{&cfg.Observability.OTLPEndpoint, "OTEL_EXPORTER_OTLP_ENDPOINT"},
	}
	for _, o := range overrides {
		if *o.target == "" {
			if val := os.Getenv(o.env); val != "" {
				*o.target = val
			}
		}
	}
}

func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "parche-recommender"
	}

	// Server defaults
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.CorsAllowOrigins == "" {
		cfg.Server.CorsAllowOrigins = "*"
	}
	if cfg.Server.BodyLimitBytes == 0 {
		cfg.Server.BodyLimitBytes = 256 * 1024
	}
	if cfg.Server.ThrottleInterval == 0 {
		cfg.Server.ThrottleInterval = 1500
	}
	if cfg.Server.ThrottleIdleTTL == 0 {
		cfg.Server.ThrottleIdleTTL = 10 * 60 * 1000
	}
	if cfg.Server.RequestTimeout == 0 {
		cfg.Server.RequestTimeout = 15000
	}

	// GenAI defaults
	if cfg.GenAI.ChatPath == "" {
		cfg.GenAI.ChatPath = "/api/chat"
	}
	if cfg.GenAI.Timeout == 0 {
		cfg.GenAI.Timeout = 10000
	}

	// Catalog defaults
	if cfg.Catalog.Source == "" {
		cfg.Catalog.Source = string(models.CatalogSourceFile)
	}
	if cfg.Catalog.FilePath == "" {
		cfg.Catalog.FilePath = "configs/catalog.json"
	}
	if cfg.Catalog.Index == "" {
		cfg.Catalog.Index = "plans"
	}
	if cfg.Catalog.MaxPlans == 0 {
		cfg.Catalog.MaxPlans = 500
	}
	if cfg.Catalog.CacheTTL == 0 {
		cfg.Catalog.CacheTTL = 60000
	}

	// Database defaults
	if cfg.Database.Postgres.Port == 0 {
		cfg.Database.Postgres.Port = 5432
	}
	if cfg.Database.Postgres.MaxConnections == 0 {
		cfg.Database.Postgres.MaxConnections = 25
	}
	if cfg.Database.Postgres.MaxIdle == 0 {
		cfg.Database.Postgres.MaxIdle = 5
	}
	if cfg.Database.Postgres.SSLMode == "" {
		cfg.Database.Postgres.SSLMode = "disable"
	}
	if cfg.Database.Elasticsearch.URL == "" && len(cfg.Database.Elasticsearch.Addresses) > 0 {
		cfg.Database.Elasticsearch.URL = cfg.Database.Elasticsearch.Addresses[0]
	}

	// Camunda defaults
	if cfg.Camunda.MaxJobsActive == 0 {
		cfg.Camunda.MaxJobsActive = 10
	}
	if cfg.Camunda.Timeout == 0 {
		cfg.Camunda.Timeout = 30000
	}
	if cfg.Camunda.RequestTimeout == 0 {
		cfg.Camunda.RequestTimeout = 30000
	}

	// Logging defaults
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}

	if cfg.Observability.ServiceName == "" {
		cfg.Observability.ServiceName = cfg.App.Name
	}
	if cfg.Observability.OTLPEndpoint == "" {
		cfg.Observability.OTLPEndpoint = "localhost:4318"
	}

	for key, worker := range cfg.Workers {
		if worker.MaxJobsActive == 0 {
			worker.MaxJobsActive = 5
		}
		if worker.Timeout == 0 {
			worker.Timeout = 30000
		}
		if worker.MaxRetries == 0 {
			worker.MaxRetries = 3
		}
		cfg.Workers[key] = worker
	}
}

func validateConfig(cfg *Config) error {
	source := models.CatalogSource(cfg.Catalog.Source)
	if !source.Valid() {
		return fmt.Errorf("catalog.source %q is not supported", cfg.Catalog.Source)
	}

	switch source {
	case models.CatalogSourceFile:
		if cfg.Catalog.FilePath == "" {
			return fmt.Errorf("catalog.file_path is required for file catalogs")
		}
	case models.CatalogSourcePostgres:
		if cfg.Database.Postgres.Host == "" {
			return fmt.Errorf("database.postgres.host is required")
		}
		if cfg.Database.Postgres.Database == "" {
			return fmt.Errorf("database.postgres.database is required")
		}
		if cfg.Database.Postgres.User == "" {
			return fmt.Errorf("database.postgres.user is required")
		}
	case models.CatalogSourceElasticsearch:
		if cfg.Database.Elasticsearch.GetURL() == "" {
			return fmt.Errorf("database.elasticsearch.addresses or url is required")
		}
	}

	if cfg.GenAI.Enabled && cfg.GenAI.BaseURL == "" {
		return fmt.Errorf("genai.base_url is required when genai is enabled")
	}
	if (cfg.Catalog.CacheEnabled || cfg.Database.Redis.Enabled) && cfg.Database.Redis.Address == "" {
		return fmt.Errorf("database.redis.address is required")
	}
	if cfg.Camunda.Enabled && cfg.Camunda.BrokerAddress == "" {
		return fmt.Errorf("camunda.broker_address is required")
	}

	return nil
}

func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}

func GetWorkerConfig(cfg *Config, workerName string) WorkerConfig {
	if worker, exists := cfg.Workers[workerName]; exists {
		return worker
	}
	return WorkerConfig{
		Enabled:       true,
		MaxJobsActive: 5,
		Timeout:       30000,
		MaxRetries:    3,
	}
}

func IsWorkerEnabled(cfg *Config, workerName string) bool {
	if worker, exists := cfg.Workers[workerName]; exists {
		return worker.Enabled
	}
	return true
}
