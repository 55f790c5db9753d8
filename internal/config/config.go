package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/resumate/resumate/pkg/logger"
)

// Config holds application configuration
type Config struct {
	Server    ServerConfig
	MongoDB   MongoDBConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	Auth      AuthConfig
	LLM       LLMConfig
	PDF       PDFConfig
	MinIO     MinIOConfig
	Log       LogConfig
}

type ServerConfig struct {
	Port         string
	Host         string
	Environment  string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	// MaxBodyBytes caps JSON request bodies (resume content, HTML for export).
	MaxBodyBytes int64
}

type MongoDBConfig struct {
	URI      string
	Database string
	Timeout  time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// Enabled reports whether a Redis host was configured.
func (r RedisConfig) Enabled() bool { return r.Host != "" }

func (r RedisConfig) Addr() string {
	port := r.Port
	if port == "" {
		port = "6379"
	}
	return r.Host + ":" + port
}

type RateLimitConfig struct {
	Enabled  bool
	RPS      float64
	Burst    int
	UseRedis bool
	Window   time.Duration
}

type AuthConfig struct {
	OIDCIssuer    string
	OIDCClientID  string
	JWTSecret     string
	AllowInsecure bool
}

type LLMConfig struct {
	APIKey  string
	Model   string
	Timeout time.Duration
}

type PDFConfig struct {
	Timeout       time.Duration
	MaxConcurrent int
	ChromePath    string
}

type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
}

// Enabled reports whether PDF exports should be archived.
func (m MinIOConfig) Enabled() bool { return m.Endpoint != "" && m.Bucket != "" }

type LogConfig struct {
	Level  string
	Format string
}

// LoadConfig loads configuration from environment variables and an optional .env file.
// A missing MongoDB URI is the only fatal condition; the caller decides how to exit.
func LoadConfig() (*Config, error) {
	return load(true)
}

// LoadConfigWithoutStore is LoadConfig for the in-memory server, where the
// MongoDB URI is not needed.
func LoadConfigWithoutStore() (*Config, error) {
	return load(false)
}

func load(requireMongo bool) (*Config, error) {
	_ = godotenv.Load()

	viper.AutomaticEnv()

	viper.SetDefault("SERVER_HOST", "0.0.0.0")
	viper.SetDefault("SERVER_ENVIRONMENT", "development")
	viper.SetDefault("SERVER_MAX_BODY_BYTES", 10<<20)
	viper.SetDefault("MONGODB_DATABASE", "resumate")
	viper.SetDefault("MONGODB_TIMEOUT", 10)
	viper.SetDefault("RATE_LIMIT_ENABLED", true)
	viper.SetDefault("RATE_LIMIT_RPS", 5)
	viper.SetDefault("RATE_LIMIT_BURST", 20)
	viper.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 60)
	viper.SetDefault("GEMINI_MODEL", "gemini-2.5-flash")
	viper.SetDefault("LLM_TIMEOUT_SECONDS", 30)
	viper.SetDefault("PDF_TIMEOUT_SECONDS", 60)
	viper.SetDefault("PDF_MAX_CONCURRENT", 2)
	viper.SetDefault("MINIO_BUCKET", "resume-exports")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "text")

	mongoURI, err := requiredEnv("MONGODB_URI", "MONGO_URI")
	if err != nil && requireMongo {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:         firstNonEmpty(viper.GetString("PORT"), viper.GetString("SERVER_PORT"), "5000"),
			Host:         viper.GetString("SERVER_HOST"),
			Environment:  viper.GetString("SERVER_ENVIRONMENT"),
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 90 * time.Second,
			MaxBodyBytes: viper.GetInt64("SERVER_MAX_BODY_BYTES"),
		},
		MongoDB: MongoDBConfig{
			URI:      mongoURI,
			Database: viper.GetString("MONGODB_DATABASE"),
			Timeout:  time.Duration(viper.GetInt("MONGODB_TIMEOUT")) * time.Second,
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		RateLimit: RateLimitConfig{
			Enabled:  viper.GetBool("RATE_LIMIT_ENABLED"),
			RPS:      viper.GetFloat64("RATE_LIMIT_RPS"),
			Burst:    viper.GetInt("RATE_LIMIT_BURST"),
			UseRedis: viper.GetBool("RATE_LIMIT_USE_REDIS"),
			Window:   time.Duration(viper.GetInt("RATE_LIMIT_WINDOW_SECONDS")) * time.Second,
		},
		Auth: AuthConfig{
			OIDCIssuer:    viper.GetString("OIDC_ISSUER"),
			OIDCClientID:  viper.GetString("OIDC_CLIENT_ID"),
			JWTSecret:     os.Getenv("AUTH_JWT_SECRET"),
			AllowInsecure: viper.GetBool("ALLOW_INSECURE_TOKEN"),
		},
		LLM: LLMConfig{
			APIKey:  os.Getenv("GEMINI_API_KEY"),
			Model:   viper.GetString("GEMINI_MODEL"),
			Timeout: time.Duration(viper.GetInt("LLM_TIMEOUT_SECONDS")) * time.Second,
		},
		PDF: PDFConfig{
			Timeout:       time.Duration(viper.GetInt("PDF_TIMEOUT_SECONDS")) * time.Second,
			MaxConcurrent: viper.GetInt("PDF_MAX_CONCURRENT"),
			ChromePath:    viper.GetString("CHROME_PATH"),
		},
		MinIO: MinIOConfig{
			Endpoint:  viper.GetString("MINIO_ENDPOINT"),
			AccessKey: viper.GetString("MINIO_ACCESS_KEY"),
			SecretKey: os.Getenv("MINIO_SECRET_KEY"),
			UseSSL:    viper.GetBool("MINIO_USE_SSL"),
			Bucket:    viper.GetString("MINIO_BUCKET"),
		},
		Log: LogConfig{
			Level:  viper.GetString("LOG_LEVEL"),
			Format: viper.GetString("LOG_FORMAT"),
		},
	}

	if cfg.PDF.MaxConcurrent < 1 {
		cfg.PDF.MaxConcurrent = 1
	}
	if cfg.LLM.APIKey == "" {
		logger.Warnf("GEMINI_API_KEY is not set; keyword and roadmap requests will fail")
	}
	if cfg.Auth.OIDCIssuer == "" && cfg.Auth.JWTSecret == "" && !cfg.Auth.AllowInsecure {
		logger.Warnf("no token verifier configured; every authenticated request will be rejected")
	}

	return cfg, nil
}

// requiredEnv returns the first non-empty variable among keys.
func requiredEnv(keys ...string) (string, error) {
	for _, k := range keys {
		if v := strings.TrimSpace(os.Getenv(k)); v != "" {
			return v, nil
		}
	}
	return "", fmt.Errorf("environment variable %s is required", strings.Join(keys, " or "))
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
