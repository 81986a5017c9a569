package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/YelzhanWeb/cafebot/internal/domain"
)

type Config struct {
	App           AppConfig           `yaml:"app"`
	Log           LogConfig           `yaml:"log"`
	HTTP          HTTPConfig          `yaml:"http"`
	Telegram      TelegramConfig      `yaml:"telegram"`
	Database      DatabaseConfig      `yaml:"database"`
	Sessions      SessionsConfig      `yaml:"sessions"`
	Redis         RedisConfig         `yaml:"redis"`
	RabbitMQ      RabbitMQConfig      `yaml:"rabbitmq"`
	Notifications NotificationsConfig `yaml:"notifications"`
	Menu          []MenuCategory      `yaml:"menu"`
}

type AppConfig struct {
	Service     string `yaml:"service"`
	CafeName    string `yaml:"cafe_name"`
	CafeAddress string `yaml:"cafe_address"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type HTTPConfig struct {
	Port       int    `yaml:"port"`
	AdminToken string `yaml:"admin_token"`
}

type TelegramConfig struct {
	Token         string `yaml:"token"`
	APIURL        string `yaml:"api_url"`
	WebhookSecret string `yaml:"webhook_secret"`
	// WebhookURL is the public base URL; when set, serve registers the
	// webhook with Telegram on startup
	WebhookURL string  `yaml:"webhook_url"`
	AdminIDs   []int64 `yaml:"admin_ids"`
	StaffIDs   []int64 `yaml:"staff_ids"`
}

type DatabaseConfig struct {
	Driver   string `yaml:"driver"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	Path     string `yaml:"path"`
}

type SessionsConfig struct {
	// Backend is database, redis or memory
	Backend         string        `yaml:"backend"`
	TTL             time.Duration `yaml:"ttl"`
	DistributedLock bool          `yaml:"distributed_lock"`
	LockTTL         time.Duration `yaml:"lock_ttl"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix"`
}

type RabbitMQConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
}

type NotificationsConfig struct {
	// Mode is direct (Telegram from the serving process) or rabbitmq
	Mode     string `yaml:"mode"`
	Prefetch int    `yaml:"prefetch"`

	// MaxAttempts is how many deliveries a notification gets before it is
	// dead-lettered
	MaxAttempts int           `yaml:"max_attempts"`
	RetryDelay  time.Duration `yaml:"retry_delay"`
	// MetricsPort serves /metrics from the relay; 0 disables it
	MetricsPort int `yaml:"metrics_port"`
}

type MenuCategory struct {
	Category string     `yaml:"category"`
	Items    []MenuItem `yaml:"items"`
}

type MenuItem struct {
	Name  string `yaml:"name"`
	Price string `yaml:"price"`
}

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	SessionsDatabase = "database"
	SessionsRedis    = "redis"
	SessionsMemory   = "memory"

	NotifyDirect   = "direct"
	NotifyRabbitMQ = "rabbitmq"
)

// Load reads the YAML file over the defaults, then applies .env and
// environment overrides
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse yaml: %w", err)
	}

	// .env is optional
	_ = godotenv.Load()

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func (c *Config) applyEnv() error {
	setString(&c.Telegram.Token, "TELEGRAM_BOT_TOKEN")
	setString(&c.Telegram.WebhookSecret, "TELEGRAM_WEBHOOK_SECRET")
	setString(&c.Telegram.WebhookURL, "TELEGRAM_WEBHOOK_URL")
	setString(&c.Database.Password, "DATABASE_PASSWORD")
	setString(&c.Redis.Password, "REDIS_PASSWORD")
	setString(&c.RabbitMQ.Password, "RABBITMQ_PASSWORD")
	setString(&c.HTTP.AdminToken, "ADMIN_API_TOKEN")
	setString(&c.Log.Level, "LOG_LEVEL")

	if v, ok := os.LookupEnv("HTTP_PORT"); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("HTTP_PORT: %w", err)
		}
		c.HTTP.Port = port
	}
	return nil
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("unknown database driver %q", c.Database.Driver)
	}

	switch c.Sessions.Backend {
	case SessionsDatabase, SessionsRedis, SessionsMemory:
	default:
		return fmt.Errorf("unknown sessions backend %q", c.Sessions.Backend)
	}

	if c.Sessions.DistributedLock && c.Redis.Addr == "" {
		return errors.New("distributed_lock requires redis.addr")
	}

	switch c.Notifications.Mode {
	case NotifyDirect, NotifyRabbitMQ:
	default:
		return fmt.Errorf("unknown notifications mode %q", c.Notifications.Mode)
	}

	if c.Notifications.MaxAttempts < 1 {
		return errors.New("notifications.max_attempts must be at least 1")
	}

	if _, err := c.Catalog(); err != nil {
		return err
	}

	return nil
}

// Catalog builds the menu from the menu section
func (c *Config) Catalog() (*domain.Catalog, error) {
	categories := make([]domain.Category, 0, len(c.Menu))
	for _, mc := range c.Menu {
		items := make([]domain.CatalogItem, 0, len(mc.Items))
		for _, mi := range mc.Items {
			price, err := decimal.NewFromString(mi.Price)
			if err != nil {
				return nil, fmt.Errorf("menu %q/%q: invalid price %q: %w", mc.Category, mi.Name, mi.Price, err)
			}
			items = append(items, domain.CatalogItem{Name: mi.Name, Price: price})
		}
		categories = append(categories, domain.Category{Name: mc.Category, Items: items})
	}

	catalog, err := domain.NewCatalog(categories)
	if err != nil {
		return nil, fmt.Errorf("menu: %w", err)
	}
	return catalog, nil
}

// StaffRecipients falls back to the admins when no staff is configured
func (c *Config) StaffRecipients() []int64 {
	if len(c.Telegram.StaffIDs) > 0 {
		return c.Telegram.StaffIDs
	}
	return c.Telegram.AdminIDs
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		d.Host, d.Port, d.User, d.Password, d.Database)
}

func (r RabbitMQConfig) URL() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%d/", r.User, r.Password, r.Host, r.Port)
}
