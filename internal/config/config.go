package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds the securephotos API configuration.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Auth     AuthConfig     `yaml:"auth"`
	Logging  LoggingConfig  `yaml:"logging"`
	LLM      LLMConfig      `yaml:"llm"`
	Qdrant   QdrantConfig   `yaml:"qdrant"`
	Search   SearchConfig   `yaml:"search"`
	Semantic SemanticConfig `yaml:"semantic"`
	Weaviate WeaviateConfig `yaml:"weaviate"`
	Cache    CacheConfig    `yaml:"cache"`
	MySQL    MySQLConfig    `yaml:"mysql"`
	Ingest   IngestConfig   `yaml:"ingest"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// LLMConfig holds the chat and embedding provider settings.
type LLMConfig struct {
	Provider            string   `yaml:"provider"` // azure (default), openai
	APIKey              string   `yaml:"api_key"`
	Endpoint            string   `yaml:"endpoint"`
	APIVersion          string   `yaml:"api_version"`
	ChatDeployment      string   `yaml:"chat_deployment"`
	EmbeddingDeployment string   `yaml:"embedding_deployment"`
	Temperature         *float32 `yaml:"temperature"` // unset means DefaultTemperature
	MaxTokens           int      `yaml:"max_tokens"`
}

// QdrantConfig holds vector store settings.
type QdrantConfig struct {
	URL              string `yaml:"url"`
	APIKey           string `yaml:"api_key"`
	Collection       string `yaml:"collection"`
	VectorName       string `yaml:"vector_name"`
	VectorSize       int    `yaml:"vector_size"`
	ReadinessTimeout int    `yaml:"readiness_timeout_sec"`
}

// SearchConfig holds result limits.
type SearchConfig struct {
	MetadataLimit int `yaml:"metadata_limit"`
	SemanticLimit int `yaml:"semantic_limit"`
}

// SemanticConfig toggles embedding-based search.
type SemanticConfig struct {
	Enabled bool   `yaml:"enabled"`
	Backend string `yaml:"backend"` // weaviate (default), qdrant
}

// WeaviateConfig holds the semantic backend settings for Weaviate.
type WeaviateConfig struct {
	URL    string `yaml:"url"`
	APIKey string `yaml:"api_key"`
	Class  string `yaml:"class"`
}

// CacheConfig holds the embedding cache settings. Empty addrs disables the cache.
type CacheConfig struct {
	Addrs    []string `yaml:"addrs"`
	Password string   `yaml:"password"`
	TTLSec   int      `yaml:"ttl_sec"`
}

// MySQLConfig holds the record store settings.
type MySQLConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DB       string `yaml:"db"`
	Table    string `yaml:"table"`
}

// IngestConfig holds CSV fetch settings.
type IngestConfig struct {
	AllowedHosts    []string `yaml:"allowed_hosts"`
	FetchTimeoutSec int      `yaml:"fetch_timeout_sec"`
	MaxBytes        int64    `yaml:"max_bytes"`
}

// Extraction sampling defaults. Low temperature keeps the model on strict JSON.
const (
	DefaultTemperature float32 = 0.2
	DefaultMaxTokens           = 500
)

// Semantic backends.
const (
	BackendWeaviate = "weaviate"
	BackendQdrant   = "qdrant"
)

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	return Parse(data)
}

// Parse expands env variables in data, decodes it and validates the result.
func Parse(data []byte) (Config, error) {
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.Port == 0 {
		c.HTTP.Port = 8000
	}
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 60
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}

	if c.LLM.Provider == "" {
		c.LLM.Provider = "azure"
	}
	if c.LLM.APIVersion == "" {
		c.LLM.APIVersion = "2024-12-01-preview"
	}
	if c.LLM.Temperature == nil {
		t := DefaultTemperature
		c.LLM.Temperature = &t
	}
	if c.LLM.MaxTokens <= 0 {
		c.LLM.MaxTokens = DefaultMaxTokens
	}

	if c.Qdrant.URL == "" {
		c.Qdrant.URL = "http://localhost:6334"
	}
	if c.Qdrant.Collection == "" {
		c.Qdrant.Collection = "secure_photos"
	}
	if c.Qdrant.VectorName == "" {
		c.Qdrant.VectorName = "summary_embedding"
	}
	if c.Qdrant.VectorSize <= 0 {
		c.Qdrant.VectorSize = 1536
	}
	if c.Qdrant.ReadinessTimeout <= 0 {
		c.Qdrant.ReadinessTimeout = 10
	}

	if c.Search.MetadataLimit <= 0 {
		c.Search.MetadataLimit = 5
	}
	if c.Search.SemanticLimit <= 0 {
		c.Search.SemanticLimit = 5
	}
	if c.Semantic.Backend == "" {
		c.Semantic.Backend = BackendWeaviate
	}
	if c.Weaviate.Class == "" {
		c.Weaviate.Class = "SecurePhotos"
	}

	if c.Cache.TTLSec <= 0 {
		c.Cache.TTLSec = 24 * 3600
	}

	if c.MySQL.Port <= 0 {
		c.MySQL.Port = 3306
	}
	if c.MySQL.Table == "" {
		c.MySQL.Table = "processed_data_dify"
	}

	if c.Ingest.AllowedHosts == nil {
		c.Ingest.AllowedHosts = []string{"upload.dify.ai"}
	}
	if c.Ingest.FetchTimeoutSec <= 0 {
		c.Ingest.FetchTimeoutSec = 10
	}
	if c.Ingest.MaxBytes <= 0 {
		c.Ingest.MaxBytes = 10 << 20
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}

	switch c.LLM.Provider {
	case "azure", "openai":
	default:
		return fmt.Errorf("llm.provider must be \"azure\" or \"openai\", got %q", c.LLM.Provider)
	}
	if c.LLM.APIKey == "" {
		return errors.New("llm.api_key is required")
	}
	if c.LLM.Provider == "azure" && c.LLM.Endpoint == "" {
		return errors.New("llm.endpoint is required")
	}
	if c.LLM.ChatDeployment == "" {
		return errors.New("llm.chat_deployment is required")
	}
	if t := c.LLM.Temperature; t != nil && (*t < 0 || *t > 2) {
		return fmt.Errorf("llm.temperature must be between 0 and 2, got %v", *t)
	}

	if c.Qdrant.URL == "" {
		return errors.New("qdrant.url is required")
	}
	if c.Qdrant.Collection == "" {
		return errors.New("qdrant.collection is required")
	}

	if c.Semantic.Enabled {
		if c.LLM.EmbeddingDeployment == "" {
			return errors.New("llm.embedding_deployment is required when semantic search is enabled")
		}
		switch c.Semantic.Backend {
		case BackendWeaviate:
			if c.Weaviate.URL == "" {
				return errors.New("weaviate.url is required for the weaviate backend")
			}
		case BackendQdrant:
			if c.Qdrant.VectorName == "" {
				return errors.New("qdrant.vector_name is required for the qdrant backend")
			}
		default:
			return fmt.Errorf("semantic.backend must be %q or %q, got %q",
				BackendWeaviate, BackendQdrant, c.Semantic.Backend)
		}
	}

	if c.MySQL.Enabled {
		if c.MySQL.Host == "" || c.MySQL.User == "" || c.MySQL.DB == "" {
			return errors.New("mysql.host, mysql.user and mysql.db are required when mysql is enabled")
		}
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
