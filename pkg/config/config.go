package config

import (
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
	pkgerrors "github.com/pkg/errors"
)

type Config struct {
	Host            string        `long:"http.host" env:"HTTP_HOST" default:"0.0.0.0" description:"IP to listen on"`
	Port            int           `long:"http.port" env:"PORT" default:"8080" description:"port to listen on for insecure connections"`
	ShutdownTimeout time.Duration `long:"http.shutdown-timeout" env:"HTTP_SHUTDOWN_TIMEOUT" default:"10s" description:"graceful shutdown deadline"`
	Env             string        `long:"env" env:"ENV" default:"development" description:"deployment environment"`

	PostgresURL          string        `long:"postgres" env:"POSTGRES_CONN_STR" description:"postgres dsn"`
	PostgresMaxOpenConns int           `long:"postgres.max_open_connections" env:"POSTGRES_MAX_OPEN_CONNECTIONS" default:"20" description:"postgres maximal open connections"`
	PostgresMaxIdleConns int           `long:"postgres.max_idle_connections" env:"POSTGRES_MAX_IDLE_CONNECTIONS" default:"5" description:"postgres maximal idle connections"`
	PostgresConnMaxLife  time.Duration `long:"postgres.conn_max_lifetime" env:"POSTGRES_CONN_MAX_LIFETIME" default:"30m" description:"postgres connection max lifetime"`
	AutoMigrate          bool          `long:"postgres.auto-migrate" env:"POSTGRES_AUTO_MIGRATE" description:"migrate the schema on start"`

	FirebaseCredentialsPath string `long:"firebase.credentials" env:"FIREBASE_CREDENTIALS_PATH" description:"firebase service account file; firebase tokens are rejected when empty"`
	JWTSecret               string `long:"jwt.secret" env:"JWT_SECRET" description:"HS256 secret; jwt tokens are rejected when empty"`

	LogLevel string `long:"log.level" env:"LOG_LEVEL" default:"info" description:"Log level" choice:"debug" choice:"info" choice:"warn" choice:"error"`
}

// Load reads .env when present, then flags and environment into a Config.
func Load(args []string) (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	parser := flags.NewParser(&cfg, flags.Default)
	if _, err := parser.ParseArgs(args); err != nil {
		return nil, pkgerrors.Wrap(err, "config.Load")
	}

	if cfg.PostgresURL == "" {
		return nil, pkgerrors.New("config.Load: postgres dsn is required")
	}
	if cfg.FirebaseCredentialsPath == "" && cfg.JWTSecret == "" {
		return nil, pkgerrors.New("config.Load: configure firebase credentials or a jwt secret")
	}
	return &cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
