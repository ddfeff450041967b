package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App      AppConfig
	Catalog  CatalogConfig
	Store    StoreConfig
	JWT      JWTConfig
	Auth     AuthConfig
	Password PasswordConfig
	CORS     CORSConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"SUPPCART_APP_ENV" default:"dev"`
	Port         string `envconfig:"SUPPCART_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"SUPPCART_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SUPPCART_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// CatalogConfig points the catalog client at the upstream product API.
type CatalogConfig struct {
	BaseURL      string        `envconfig:"SUPPCART_CATALOG_BASE_URL" default:"https://fe1111.projects.academy.onlyjs.com/api/v1"`
	ImageBaseURL string        `envconfig:"SUPPCART_CATALOG_IMAGE_BASE_URL" default:"https://fe1111.projects.academy.onlyjs.com"`
	Timeout      time.Duration `envconfig:"SUPPCART_CATALOG_TIMEOUT" default:"10s"`
	MaxRetries   uint64        `envconfig:"SUPPCART_CATALOG_MAX_RETRIES" default:"2"`

	ProductPlaceholderURL string `envconfig:"SUPPCART_CATALOG_PRODUCT_PLACEHOLDER_URL" default:"https://via.placeholder.com/300x200?text=Product"`
	BannerPlaceholderURL  string `envconfig:"SUPPCART_CATALOG_BANNER_PLACEHOLDER_URL" default:"https://via.placeholder.com/1200x500/007bff/ffffff?text=Banner"`

	FeaturedLimit int `envconfig:"SUPPCART_CATALOG_FEATURED_LIMIT" default:"8"`
	BannerLimit   int `envconfig:"SUPPCART_CATALOG_BANNER_LIMIT" default:"5"`
}

// StoreConfig configures the embedded database backing the local stores.
type StoreConfig struct {
	Path string `envconfig:"SUPPCART_STORE_PATH" default:"storefront.db"`
}

type JWTConfig struct {
	Secret            string `envconfig:"SUPPCART_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"SUPPCART_JWT_ISSUER" default:"suppcart"`
	ExpirationMinutes int    `envconfig:"SUPPCART_JWT_EXPIRATION_MINUTES" default:"1440"`
}

// AuthConfig drives the simulated authentication backend. The demo
// credential stands in for a real identity provider; registration never
// creates a retrievable account.
type AuthConfig struct {
	DemoEmail    string        `envconfig:"SUPPCART_AUTH_DEMO_EMAIL" default:"test@example.com"`
	DemoPassword string        `envconfig:"SUPPCART_AUTH_DEMO_PASSWORD" default:"123456"`
	SimDelay     time.Duration `envconfig:"SUPPCART_AUTH_SIM_DELAY" default:"1s"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"SUPPCART_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"SUPPCART_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"SUPPCART_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"SUPPCART_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"SUPPCART_ARGON_KEY_LEN" default:"32"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"SUPPCART_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000,http://localhost:5173"`
}
