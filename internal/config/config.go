package config

import (
	"fmt"
	"os"
	"path"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v2"
)

type Config struct {
	Public  Public
	Private Private
}

// Public holds settings that are safe to commit.
type Public struct {
	Port           string        `yaml:"port" validate:"required"`
	SessionTTL     time.Duration `yaml:"session_ttl" validate:"required"`
	SecureCookies  bool          `yaml:"secure_cookies"`
	LogLevel       string        `yaml:"log_level"`
	LogJSON        bool          `yaml:"log_json"`
	TemplatesDir   string        `yaml:"templates_dir" validate:"required"`
	StaticDir      string        `yaml:"static_dir" validate:"required"`
	VisitLogPath   string        `yaml:"visit_log_path" validate:"required"`
	AllowedOrigins []string      `yaml:"allowed_origins"`
	MetricsEnabled bool          `yaml:"metrics_enabled"`

	// media referenced from the home page and the /videos page, relative to /static/
	FeaturedVideos []string `yaml:"featured_videos"`
	Videos         []string `yaml:"videos"`

	LoginRateLimit   RateLimit `yaml:"login_rate_limit"`
	MessageRateLimit RateLimit `yaml:"message_rate_limit"`
}

// RateLimit is a token bucket: Rate tokens per second, at most Burst stored.
type RateLimit struct {
	Rate  float64 `yaml:"rate" validate:"gt=0"`
	Burst float64 `yaml:"burst" validate:"gte=1"`
}

type Private struct {
	Pg     Pg     `yaml:"pg"`
	JwtKey string `yaml:"jwt_key" validate:"required"`
}

type Pg struct {
	Host     string `yaml:"host" validate:"required"`
	Port     int    `yaml:"port" validate:"required"`
	User     string `yaml:"user" validate:"required"`
	Password string `yaml:"password"`
	Dbname   string `yaml:"dbname" validate:"required"`
}

func (c *Config) JwtKey() string {
	return c.Private.JwtKey
}

func (c *Config) SessionTTL() time.Duration {
	return c.Public.SessionTTL
}

func mustLoadPath(configPath string, output interface{}) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		panic("can't read config file: " + configPath)
	}

	if err := yaml.Unmarshal(configFile, output); err != nil {
		panic(fmt.Sprintf("can't unmarshal config file %s: %s", configPath, err))
	}
}

// applyEnv lets the deployment override the listen port and the signing key.
func applyEnv(cfg *Config) {
	if port := os.Getenv("PORT"); port != "" {
		cfg.Public.Port = port
	}
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		cfg.Private.JwtKey = secret
	}
}

// MustLoad reads public.yaml and private.yaml from configFolder and panics
// if either is missing or a required field is empty.
func MustLoad(configFolder string) *Config {
	var public Public
	mustLoadPath(path.Join(configFolder, "public.yaml"), &public)

	var private Private
	mustLoadPath(path.Join(configFolder, "private.yaml"), &private)

	cfg := &Config{Public: public, Private: private}
	applyEnv(cfg)

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(cfg); err != nil {
		panic("invalid config: " + err.Error())
	}
	return cfg
}
