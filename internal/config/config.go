package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigPath is used when --config is not provided.
	DefaultConfigPath = "config.yml"
	defaultPort       = 3000
	defaultEnv        = "development"

	defaultPinImagesBucket       = "pin-images"
	defaultProfilePicturesBucket = "profile-pictures"
)

// AppConfig holds runtime startup configuration. Values come from an
// optional YAML file with environment variables taking precedence.
type AppConfig struct {
	Port           int       `yaml:"port"`
	Env            string    `yaml:"env"` // "development" | "production"
	DSN            string    `yaml:"dsn"` // MySQL DSN
	RedisURL       string    `yaml:"redis_url"`
	JWTSecret      string    `yaml:"jwt_secret"`
	AllowedOrigins []string  `yaml:"allowed_origins"`
	S3             S3Options `yaml:"s3"`
	AMQPURL        string    `yaml:"amqp_url"`
	Buckets        Buckets   `yaml:"buckets"`
}

// S3Options configures the object storage client. All fields empty means
// storage runs in degraded mode (uploads rejected with an explicit 503).
type S3Options struct {
	Endpoint        string `yaml:"endpoint"`
	Region          string `yaml:"region"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	CustomDomain    string `yaml:"custom_domain"`
	PathStyleAccess bool   `yaml:"path_style_access"`
}

// Configured reports whether enough of the S3 config is present to build a client.
func (o S3Options) Configured() bool {
	return o.Region != "" && o.AccessKeyID != "" && o.SecretAccessKey != ""
}

// Buckets names the object storage buckets per concern.
type Buckets struct {
	PinImages       string `yaml:"pin_images"`
	ProfilePictures string `yaml:"profile_pictures"`
}

// Load reads the YAML file at path (missing file is not an error), applies
// environment overrides and validates required parameters.
func Load(path string) (*AppConfig, error) {
	// .env is a developer convenience; absence is normal.
	_ = godotenv.Load()

	cfg := &AppConfig{
		Port: defaultPort,
		Env:  defaultEnv,
		Buckets: Buckets{
			PinImages:       defaultPinImagesBucket,
			ProfilePictures: defaultProfilePicturesBucket,
		},
	}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse %s: %w", path, err)
			}
		case os.IsNotExist(err):
			// env-only configuration
		default:
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
	}

	applyEnv(cfg)
	normalize(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate enforces the required connection parameters. The process fails
// fast instead of limping along with a nil backend handle.
func (c *AppConfig) Validate() error {
	var missing []string
	if strings.TrimSpace(c.DSN) == "" {
		missing = append(missing, "DATABASE_DSN")
	}
	if strings.TrimSpace(c.RedisURL) == "" {
		missing = append(missing, "REDIS_URL")
	}
	if len(missing) > 0 {
		return errors.New("missing required config: " + strings.Join(missing, ", "))
	}
	return nil
}

// IsDev reports whether the app runs in development mode.
func (c *AppConfig) IsDev() bool {
	return strings.ToLower(strings.TrimSpace(c.Env)) != "production"
}

func applyEnv(cfg *AppConfig) {
	setString(&cfg.Env, "APP_ENV", "ENV")
	setString(&cfg.DSN, "DATABASE_DSN", "DSN")
	setString(&cfg.RedisURL, "REDIS_URL")
	setString(&cfg.JWTSecret, "JWT_SECRET")
	setString(&cfg.AMQPURL, "AMQP_URL", "RABBITMQ_URL")
	setString(&cfg.S3.Endpoint, "S3_ENDPOINT")
	setString(&cfg.S3.Region, "S3_REGION")
	setString(&cfg.S3.AccessKeyID, "S3_ACCESS_KEY_ID")
	setString(&cfg.S3.SecretAccessKey, "S3_SECRET_ACCESS_KEY")
	setString(&cfg.S3.CustomDomain, "S3_CUSTOM_DOMAIN")
	setString(&cfg.Buckets.PinImages, "BUCKET_PIN_IMAGES")
	setString(&cfg.Buckets.ProfilePictures, "BUCKET_PROFILE_PICTURES")

	if v := strings.TrimSpace(os.Getenv("PORT")); v != "" {
		if port, err := strconv.Atoi(v); err == nil && port > 0 && port < 65536 {
			cfg.Port = port
		}
	}
	if v := strings.TrimSpace(os.Getenv("S3_PATH_STYLE")); v != "" {
		cfg.S3.PathStyleAccess = v == "1" || strings.EqualFold(v, "true")
	}
	if v := strings.TrimSpace(os.Getenv("ALLOWED_ORIGINS")); v != "" {
		parts := strings.Split(v, ",")
		origins := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				origins = append(origins, p)
			}
		}
		cfg.AllowedOrigins = origins
	}
}

func normalize(cfg *AppConfig) {
	if cfg.Port <= 0 || cfg.Port >= 65536 {
		cfg.Port = defaultPort
	}
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = defaultEnv
	}
	if strings.TrimSpace(cfg.Buckets.PinImages) == "" {
		cfg.Buckets.PinImages = defaultPinImagesBucket
	}
	if strings.TrimSpace(cfg.Buckets.ProfilePictures) == "" {
		cfg.Buckets.ProfilePictures = defaultProfilePicturesBucket
	}
}

func setString(dst *string, keys ...string) {
	for _, key := range keys {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			*dst = v
			return
		}
	}
}
