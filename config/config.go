package config

import (
	"log"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	AppEnv string `envconfig:"APP_ENV" default:"development"`
	Port   string `envconfig:"PORT" default:"3000"`

	// DBDriver selects the SQL dialect: mariadb, postgres or sqlite.
	DBDriver    string `envconfig:"DB_DRIVER" default:"mariadb"`
	DBUser      string `envconfig:"DB_USER"`
	DBPassword  string `envconfig:"DB_PASSWORD"`
	DBHost      string `envconfig:"DB_HOST" default:"localhost"`
	DBPort      string `envconfig:"DB_PORT"`
	DBName      string `envconfig:"DB_NAME" default:"clinic"`
	DatabaseURL string `envconfig:"DATABASE_URL"`
	SQLitePath  string `envconfig:"SQLITE_PATH" default:"clinic.db"`

	JWTSecret    string `envconfig:"JWT_SECRET_KEY"`
	JWTTTLHours  int    `envconfig:"JWT_TTL_HOURS" default:"24"`
	AuthRequired bool   `envconfig:"AUTH_REQUIRED" default:"false"`

	StaticDir      string  `envconfig:"STATIC_DIR" default:"front"`
	RateLimitRPS   float64 `envconfig:"RATE_LIMIT_RPS" default:"5"`
	RateLimitBurst int     `envconfig:"RATE_LIMIT_BURST" default:"10"`
	CORSOrigins    string  `envconfig:"CORS_ORIGINS" default:"*"`

	// AMQPURL enables publishing booking events to RabbitMQ when set.
	AMQPURL      string `envconfig:"AMQP_URL"`
	AMQPExchange string `envconfig:"AMQP_EXCHANGE" default:"clinic.events"`
}

var (
	cfg  *Config
	once sync.Once
)

// LoadConfig reads .env (when present) and the process environment once.
func LoadConfig() *Config {
	once.Do(func() {
		if err := godotenv.Load(); err != nil {
			log.Println("Warning: .env file not found. Relying on environment variables.")
		}
		c, err := Load()
		if err != nil {
			log.Fatalf("invalid configuration: %v", err)
		}
		cfg = c
	})
	return cfg
}

// Load processes the environment without touching .env or the cached config.
func Load() (*Config, error) {
	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return nil, err
	}
	c.DBDriver = strings.ToLower(strings.TrimSpace(c.DBDriver))
	return &c, nil
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.AppEnv, "production")
}

// AllowedOrigins splits CORS_ORIGINS on commas.
func (c *Config) AllowedOrigins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
