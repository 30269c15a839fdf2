package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App      *appConfig
	Database *dbConfig
	Service  *svcConfig
	TMS      *tmsConfig
}

type appConfig struct {
	Name    string `envconfig:"LOCPORTAL_APP_NAME" default:"LocPortal Backend"`
	Version string `envconfig:"LOCPORTAL_APP_VERSION" default:"0.1.0"`
	Env     string `envconfig:"LOCPORTAL_ENV" default:"dev"`
}

type dbConfig struct {
	Type     string `envconfig:"DB_TYPE" default:"pgsql"`
	Hostname string `envconfig:"DB_HOST" default:"localhost"`
	Port     int    `envconfig:"DB_PORT" default:"5432"`
	Name     string `envconfig:"DB_NAME" default:"locportal"`
	User     string `envconfig:"DB_USER" default:"admin"`
	Password string `envconfig:"DB_PASS" default:"adminpass"`
}

type svcConfig struct {
	Address         string `envconfig:"LOCPORTAL_ADDRESS" default:":8000"`
	LogLevel        string `envconfig:"LOCPORTAL_LOG_LEVEL" default:"info"`
	MigrationFolder string `envconfig:"LOCPORTAL_MIGRATIONS_FOLDER" default:"deploy/migrations"`
}

type tmsConfig struct {
	Provider      string        `envconfig:"TMS_PROVIDER" default:"phrase"`
	BaseUrl       string        `envconfig:"TMS_BASE_URL" default:""`
	ApiToken      string        `envconfig:"TMS_API_TOKEN" default:""`
	ProjectID     string        `envconfig:"TMS_PROJECT_ID" default:""`
	WebhookSecret string        `envconfig:"TMS_WEBHOOK_SECRET" default:""`
	HTTPTimeout   time.Duration `envconfig:"TMS_HTTP_TIMEOUT" default:"30s"`
	HTTPRetries   int           `envconfig:"TMS_HTTP_RETRIES" default:"3"`
}

func New() (*Config, error) {
	cfg := new(Config)
	if err := envconfig.Process("", cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// NewDefault returns a configuration suitable for tests: an in-memory sqlite
// database and no external TMS configured.
func NewDefault() *Config {
	return &Config{
		App: &appConfig{
			Name:    "LocPortal Backend",
			Version: "0.1.0",
			Env:     "test",
		},
		Database: &dbConfig{
			Type: "sqlite",
			Name: ":memory:",
		},
		Service: &svcConfig{
			Address:  "localhost:0",
			LogLevel: "debug",
		},
		TMS: &tmsConfig{
			Provider:    "phrase",
			ProjectID:   "test-project",
			HTTPTimeout: 5 * time.Second,
			HTTPRetries: 1,
		},
	}
}
