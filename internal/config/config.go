package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port         int           `yaml:"port"`
		ReadTimeout  time.Duration `yaml:"readTimeout"`
		WriteTimeout time.Duration `yaml:"writeTimeout"`
		BodyLimit    int64         `yaml:"bodyLimit"`
		RateLimit    float64       `yaml:"rateLimit"`
		RateBurst    int           `yaml:"rateBurst"`
		CORSOrigins  []string      `yaml:"corsOrigins"`
	} `yaml:"server"`

	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`

	Engine struct {
		Default    string        `yaml:"default"`
		LocalDelay time.Duration `yaml:"localDelay"`
	} `yaml:"engine"`

	OpenAI struct {
		APIKey    string `yaml:"apiKey"`
		Model     string `yaml:"model"`
		BaseURL   string `yaml:"baseURL"`
		MaxTokens int    `yaml:"maxTokens"`
	} `yaml:"openai"`

	OCR struct {
		Region        string  `yaml:"region"`
		MinConfidence float32 `yaml:"minConfidence"`
	} `yaml:"ocr"`

	Database struct {
		Driver   string `yaml:"driver"`
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		Name     string `yaml:"name"`
		SSLMode  string `yaml:"sslMode"`
	} `yaml:"database"`

	Minio struct {
		Endpoint   string `yaml:"endpoint"`
		AccessKey  string `yaml:"accessKey"`
		SecretKey  string `yaml:"secretKey"`
		BucketName string `yaml:"bucketName"`
		Region     string `yaml:"region"`
		UseSSL     bool   `yaml:"useSSL"`
	} `yaml:"minio"`

	Redis struct {
		Addr     string        `yaml:"addr"`
		Password string        `yaml:"password"`
		DB       int           `yaml:"db"`
		TTL      time.Duration `yaml:"ttl"`
	} `yaml:"redis"`

	Auth struct {
		// client name -> key
		APIKeys map[string]string `yaml:"apiKeys"`
	} `yaml:"auth"`
}

// Load baca file config.yaml, then .env and environment overrides.
// A missing file is fine: everything has a default or an env override.
func Load(path string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	var cfg Config
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, err
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyEnv() {
	override := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	override(&c.OpenAI.APIKey, "OPENAI_API_KEY")
	override(&c.OpenAI.Model, "OPENAI_MODEL")
	override(&c.OpenAI.BaseURL, "OPENAI_BASE_URL")
	override(&c.OCR.Region, "AWS_REGION")
	override(&c.Database.Password, "DB_PASSWORD")
	override(&c.Minio.AccessKey, "MINIO_ACCESS_KEY")
	override(&c.Minio.SecretKey, "MINIO_SECRET_KEY")
	override(&c.Redis.Password, "REDIS_PASSWORD")
	override(&c.Engine.Default, "PURELABEL_ENGINE")
	override(&c.Log.Level, "LOG_LEVEL")
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 15 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		// cloud analysis of a photo can take a while
		c.Server.WriteTimeout = 60 * time.Second
	}
	if c.Server.BodyLimit == 0 {
		c.Server.BodyLimit = 10 << 20
	}
	if c.Server.RateLimit == 0 {
		c.Server.RateLimit = 2
	}
	if c.Server.RateBurst == 0 {
		c.Server.RateBurst = 10
	}
	if len(c.Server.CORSOrigins) == 0 {
		c.Server.CORSOrigins = []string{"*"}
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "json"
	}
	if c.Engine.Default == "" {
		c.Engine.Default = "cloud"
	}
	if c.Engine.LocalDelay < 0 {
		c.Engine.LocalDelay = 0
	}
	if c.OCR.MinConfidence == 0 {
		c.OCR.MinConfidence = 80
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "mysql"
	}
	if c.Database.Port == 0 {
		if c.Database.Driver == "postgres" {
			c.Database.Port = 5432
		} else {
			c.Database.Port = 3306
		}
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Minio.BucketName == "" {
		c.Minio.BucketName = "purelabel-scans"
	}
	if c.Redis.TTL == 0 {
		c.Redis.TTL = 24 * time.Hour
	}
}

// Validate rejects settings the service cannot start with.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Engine.Default) {
	case "local", "cloud":
	default:
		return fmt.Errorf("engine.default must be local or cloud, got %q", c.Engine.Default)
	}
	switch c.Database.Driver {
	case "mysql", "postgres":
	default:
		return fmt.Errorf("database.driver must be mysql or postgres, got %q", c.Database.Driver)
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	if c.OCR.MinConfidence < 0 || c.OCR.MinConfidence > 100 {
		return fmt.Errorf("ocr.minConfidence must be within 0..100")
	}
	return nil
}

// HistoryEnabled reports whether a database is configured.
func (c *Config) HistoryEnabled() bool { return c.Database.Host != "" }

// Helper untuk build DSN MySQL
func (c *Config) MySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4&loc=UTC",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
	)
}

// PostgresDSN builds a lib/pq keyword/value connection string.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}
