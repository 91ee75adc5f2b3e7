package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"news_watchdog/internal/domain"
)

type Config struct {
	Server    string           `yaml:"server"`
	Postgres  PostgresConfig   `yaml:"postgres"`
	Databases []DatabaseConfig `yaml:"databases"`
	Notify    NotifyConfig     `yaml:"notify"`
	Check     CheckConfig      `yaml:"check"`
	RabbitMQ  RabbitMQConfig   `yaml:"rabbitmq"`
	LogLevel  string           `yaml:"log_level"`
}

// PostgresConfig is the connection template shared by all databases.
// The database name comes from each DatabaseConfig.
type PostgresConfig struct {
	Host           string        `yaml:"host"`
	Port           int           `yaml:"port"`
	User           string        `yaml:"user"`
	Password       string        `yaml:"password"`
	SSLMode        string        `yaml:"sslmode"`
	ConnectTimeout time.Duration `yaml:"connect_timeout"`
}

// DSN returns the connection string for the given database.
func (p PostgresConfig) DSN(dbname string) string {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		quote(p.Host), p.Port, quote(p.User), quote(p.Password), quote(dbname), quote(p.SSLMode),
	)
	if p.ConnectTimeout > 0 {
		dsn += fmt.Sprintf(" connect_timeout=%d", int(p.ConnectTimeout.Seconds()))
	}
	return dsn
}

var dsnEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`)

// quote escapes a value for a libpq key=value connection string.
func quote(v string) string {
	if v != "" && !strings.ContainsAny(v, ` '\`) {
		return v
	}
	return "'" + dsnEscaper.Replace(v) + "'"
}

type DatabaseConfig struct {
	Name   string `yaml:"name"`
	DB     string `yaml:"db"`
	Server string `yaml:"server"`
}

type NotifyConfig struct {
	URL             string        `yaml:"url"`
	Password        string        `yaml:"password"`
	Timeout         time.Duration `yaml:"timeout"`
	MessageTemplate string        `yaml:"message_template"`
}

type CheckConfig struct {
	Interval       time.Duration `yaml:"interval"`
	QueryTimeout   time.Duration `yaml:"query_timeout"`
	CycleTimeout   time.Duration `yaml:"cycle_timeout"`
	MaxConcurrency int           `yaml:"max_concurrency"`
}

type RabbitMQConfig struct {
	URL        string `yaml:"url"`
	Exchange   string `yaml:"exchange"`
	RoutingKey string `yaml:"routing_key"`
	QueueName  string `yaml:"queue_name"`
}

// Enabled reports whether stale alerts should also go to RabbitMQ.
func (r RabbitMQConfig) Enabled() bool {
	return r.URL != ""
}

func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.setDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

// Targets returns the configured databases in declaration order.
func (c *Config) Targets() []domain.Target {
	targets := make([]domain.Target, 0, len(c.Databases))
	for _, d := range c.Databases {
		server := d.Server
		if server == "" {
			server = c.Server
		}
		targets = append(targets, domain.Target{
			Name:   d.Name,
			DB:     d.DB,
			Server: server,
		})
	}
	return targets
}

func (c *Config) Validate() error {
	var errs []error

	if len(c.Databases) == 0 {
		errs = append(errs, errors.New("no databases configured"))
	}

	seen := make(map[string]bool, len(c.Databases))
	for i, d := range c.Databases {
		if d.DB == "" {
			errs = append(errs, fmt.Errorf("databases[%d]: db is required", i))
			continue
		}
		if seen[d.DB] {
			errs = append(errs, fmt.Errorf("databases[%d]: duplicate db %q", i, d.DB))
		}
		seen[d.DB] = true
	}

	if c.Notify.URL == "" {
		errs = append(errs, errors.New("notify.url is required"))
	}
	if c.Check.Interval <= 0 {
		errs = append(errs, errors.New("check.interval must be positive"))
	}
	if c.Check.MaxConcurrency < 0 {
		errs = append(errs, errors.New("check.max_concurrency must not be negative"))
	}

	return errors.Join(errs...)
}

func (c *Config) setDefaults() {
	if c.Postgres.Host == "" {
		c.Postgres.Host = "localhost"
	}
	if c.Postgres.Port == 0 {
		c.Postgres.Port = 5432
	}
	if c.Postgres.SSLMode == "" {
		c.Postgres.SSLMode = "disable"
	}
	if c.Postgres.ConnectTimeout == 0 {
		c.Postgres.ConnectTimeout = 10 * time.Second
	}
	for i := range c.Databases {
		if c.Databases[i].Name == "" {
			c.Databases[i].Name = c.Databases[i].DB
		}
	}
	if c.Notify.Timeout == 0 {
		c.Notify.Timeout = 10 * time.Second
	}
	if c.Check.Interval == 0 {
		c.Check.Interval = time.Hour
	}
	if c.Check.QueryTimeout == 0 {
		c.Check.QueryTimeout = 30 * time.Second
	}
	if c.RabbitMQ.Exchange == "" {
		c.RabbitMQ.Exchange = "news_watchdog"
	}
	if c.RabbitMQ.RoutingKey == "" {
		c.RabbitMQ.RoutingKey = "stale"
	}
	if c.RabbitMQ.QueueName == "" {
		c.RabbitMQ.QueueName = "stale_alerts"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}
