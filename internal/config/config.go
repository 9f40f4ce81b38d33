package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the root configuration for the lookbook API.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Catalog   CatalogConfig   `mapstructure:"catalog"`
	Recommend RecommendConfig `mapstructure:"recommend"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Search    SearchConfig    `mapstructure:"search"`
}

type ServerConfig struct {
	Port    int        `mapstructure:"port"`
	Mode    string     `mapstructure:"mode"`
	BaseURL string     `mapstructure:"base_url"`
	CORS    CORSConfig `mapstructure:"cors"`
}

type CORSConfig struct {
	AllowedOrigins  []string `mapstructure:"allowed_origins"`
	AllowAllOrigins bool     `mapstructure:"allow_all_origins"`
}

type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"`
	Path            string        `mapstructure:"path"` // sqlite file path
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
}

// DSN builds the driver-specific connection string.
func (c *DatabaseConfig) DSN() string {
	if c.Driver == "postgres" {
		return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
	}
	return c.Path
}

type AuthConfig struct {
	Secret          string `mapstructure:"secret"`
	AccessTokenTTL  int    `mapstructure:"access_token_ttl"`  // minutes
	RefreshTokenTTL int    `mapstructure:"refresh_token_ttl"` // days
}

// CatalogConfig locates the embedding catalog sources and defines the image
// path rewrite applied between catalog-internal and served paths.
type CatalogConfig struct {
	MetadataPath   string `mapstructure:"metadata_path"`
	EmbeddingsPath string `mapstructure:"embeddings_path"`
	InternalPrefix string `mapstructure:"internal_prefix"`
	PublicPrefix   string `mapstructure:"public_prefix"`
}

type RecommendConfig struct {
	TopK        int `mapstructure:"top_k"`
	RecentLikes int `mapstructure:"recent_likes"`
	MinResults  int `mapstructure:"min_results"`
}

type StorageConfig struct {
	Type      string `mapstructure:"type"` // local, minio, s3
	LocalDir  string `mapstructure:"local_dir"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	UseSSL    bool   `mapstructure:"use_ssl"`
	Bucket    string `mapstructure:"bucket"`
	Region    string `mapstructure:"region"`
	PublicURL string `mapstructure:"public_url"`
}

// SearchConfig points at the external visual search engine.
type SearchConfig struct {
	EngineURL string        `mapstructure:"engine_url"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// Load reads configuration from a yaml file and the environment.
// Parameters:
//   - configPath: explicit config file path; empty uses ./configs/config.yaml.
// Returns:
//   - *Config: populated configuration.
//   - error: non-nil if the file is unreadable or malformed.
func Load(configPath string) (*Config, error) {
	// Load .env file if exists
	_ = godotenv.Load()

	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Bind environment variables explicitly for sensitive data
	v.BindEnv("database.password", "DB_PASSWORD")
	v.BindEnv("auth.secret", "AUTH_SECRET")
	v.BindEnv("storage.endpoint", "STORAGE_ENDPOINT")
	v.BindEnv("storage.access_key", "STORAGE_ACCESS_KEY")
	v.BindEnv("storage.secret_key", "STORAGE_SECRET_KEY")
	v.BindEnv("search.engine_url", "SEARCH_ENGINE_URL")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.base_url", "http://localhost:8080")
	v.SetDefault("server.cors.allow_all_origins", true)
	v.SetDefault("server.cors.allowed_origins", []string{})

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "./data/lookbook.db")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.max_open_conns", 50)
	v.SetDefault("database.conn_max_lifetime", time.Hour)
	v.SetDefault("database.auto_migrate", true)

	v.SetDefault("auth.access_token_ttl", 60)
	v.SetDefault("auth.refresh_token_ttl", 7)

	v.SetDefault("catalog.metadata_path", "./data/metadata.csv")
	v.SetDefault("catalog.embeddings_path", "./data/image_embeddings.npy")
	v.SetDefault("catalog.internal_prefix", "/content/new/")
	v.SetDefault("catalog.public_prefix", "/products/")

	v.SetDefault("recommend.top_k", 3)
	v.SetDefault("recommend.recent_likes", 10)
	v.SetDefault("recommend.min_results", 20)

	v.SetDefault("storage.type", "local")
	v.SetDefault("storage.local_dir", "./uploads")
	v.SetDefault("storage.use_ssl", false)
	v.SetDefault("storage.bucket", "lookbook")

	v.SetDefault("search.timeout", 30*time.Second)
}
