package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=5000"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`
	DemoMode bool   `env:"DEMO_MODE, default=false"`

	JWT      JWTConfig
	Mongo    MongoConfig
	Redis    RedisConfig
	Razorpay RazorpayConfig
	Kafka    KafkaConfig

	HTTP HTTPConfig

	WebhookWorkers int  `env:"WEBHOOK_WORKERS, default=4"`
	SeedOnStart    bool `env:"SEED_ON_START,   default=true"`
}

// HTTPConfig holds the edge settings of the server. RateLimitMax requests are
// allowed per client IP every RateLimitWindow.
type HTTPConfig struct {
	CORSOrigin      string        `env:"CORS_ORIGIN,             default=http://localhost:3000"`
	BodyLimit       string        `env:"BODY_LIMIT,              default=10M"`
	RateLimitWindow time.Duration `env:"RATE_LIMIT_WINDOW,       default=15m"`
	RateLimitMax    int           `env:"RATE_LIMIT_MAX_REQUESTS, default=100"`
}

type JWTConfig struct {
	Secret           string        `env:"JWT_SECRET"`
	RefreshSecret    string        `env:"JWT_REFRESH_SECRET"`
	ExpiresIn        time.Duration `env:"JWT_EXPIRES_IN,         default=1h"`
	RefreshExpiresIn time.Duration `env:"JWT_REFRESH_EXPIRES_IN, default=168h"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=medical_booking"`
}

// RedisConfig locates the dedup store. URL overrides the discrete fields.
type RedisConfig struct {
	URL      string `env:"REDIS_URL"`
	Addr     string `env:"REDIS_ADDR,      default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,        default=0"`
	PoolSize int    `env:"REDIS_POOL_SIZE, default=10"`
}

type RazorpayConfig struct {
	KeyID         string `env:"RAZORPAY_KEY_ID"`
	KeySecret     string `env:"RAZORPAY_KEY_SECRET"`
	WebhookSecret string `env:"RAZORPAY_WEBHOOK_SECRET"`
	Currency      string `env:"PAYMENT_CURRENCY, default=INR"`
}

// KafkaConfig enables the Kafka publisher when Brokers is non-empty.
type KafkaConfig struct {
	Brokers     []string `env:"KAFKA_BROKERS"`
	TopicPrefix string   `env:"KAFKA_TOPIC_PREFIX, default=booking."`
}

func (c *Config) IsDevelopment() bool { return strings.EqualFold(c.Env, "development") }

func (c *Config) IsProduction() bool { return strings.EqualFold(c.Env, "production") }

// Validate rejects configurations the server cannot run with.
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.IsProduction() && c.DemoMode {
		return errors.New("DEMO_MODE cannot be enabled in production")
	}
	if !c.DemoMode && (c.Razorpay.KeyID == "" || c.Razorpay.KeySecret == "") {
		return errors.New("RAZORPAY_KEY_ID and RAZORPAY_KEY_SECRET are required unless DEMO_MODE is set")
	}
	if !c.DemoMode && c.Razorpay.WebhookSecret == "" {
		return errors.New("RAZORPAY_WEBHOOK_SECRET is required unless DEMO_MODE is set")
	}
	return nil
}

// Load reads an optional .env file and then the process environment using
// go-envconfig. Variables already set in the environment win over .env.
func Load(ctx context.Context, envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config: load %s: %w", f, err)
		}
	}
	return process(ctx, envconfig.OsLookuper())
}

func process(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}
