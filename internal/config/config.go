package config

import (
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
)

type Environment string

const (
	EnvLocal      Environment = "local"
	EnvDev        Environment = "dev"
	EnvStage      Environment = "stage"
	EnvProduction Environment = "production"
)

type RecordStoreDriver string

const (
	RecordStoreDriverHTTP   RecordStoreDriver = "http"
	RecordStoreDriverMemory RecordStoreDriver = "memory"
)

type ConfigBasicClient struct {
	Username string
	Password string
}

type Config struct {
	App struct {
		Version  string      `env:"APP_VERSION" envDefault:"local"`
		Env      Environment `env:"APP_ENV" envDefault:"local"`
		Timezone string      `env:"APP_TIMEZONE" envDefault:"Europe/Moscow"`
	}

	HTTP struct {
		Port string `env:"HTTP_SERVER_PORT" envDefault:"8080"`
		Host string `env:"HTTP_SERVER_HOST" envDefault:"localhost"`
	}

	RecordStore struct {
		Driver   RecordStoreDriver `env:"RECORD_STORE_DRIVER" envDefault:"http"`
		URL      string            `env:"RECORD_STORE_URL"`
		Username string            `env:"RECORD_STORE_USERNAME"`
		Password string            `env:"RECORD_STORE_PASSWORD"`
		Timeout  time.Duration     `env:"RECORD_STORE_TIMEOUT" envDefault:"10s"`
	}

	Auth struct {
		BasicClientsString string `env:"AUTH_BASIC_CLIENTS" envDefault:"availability:availability"`
		BasicClients       []ConfigBasicClient
	}

	RabbitMQ struct {
		Enabled  bool   `env:"RABBITMQ_ENABLED"`
		URL      string `env:"RABBITMQ_URL"`
		Exchange string `env:"RABBITMQ_EXCHANGE" envDefault:"recordstore"`
		Queue    string `env:"RABBITMQ_QUEUE" envDefault:"availability-svc.records"`
		Bind     string `env:"RABBITMQ_BIND" envDefault:"recordstore.availability-svc.#"`
	}

	Cache struct {
		Enabled  bool `env:"CACHE_ENABLED" envDefault:"true"`
		DaysSize int  `env:"CACHE_DAYS_SIZE" envDefault:"5000"`
	}

	Booking struct {
		DebounceWindow time.Duration `env:"BOOKING_DEBOUNCE_WINDOW" envDefault:"2s"`
		DebounceSize   int           `env:"BOOKING_DEBOUNCE_SIZE" envDefault:"1000"`
		AutoConfirm    bool          `env:"BOOKING_AUTO_CONFIRM"`
	}

	Calendar struct {
		DefaultDays int `env:"CALENDAR_DEFAULT_DAYS" envDefault:"31"`
		MaxDays     int `env:"CALENDAR_MAX_DAYS" envDefault:"92"`
	}

	Log struct {
		Level  string `env:"LOG_LEVEL" envDefault:"info"`
		Format string `env:"LOG_FORMAT" envDefault:"console"`
	}
}

func NewConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	// Приведение окружения к нижнему регистру для унификации
	cfg.App.Env = Environment(strings.ToLower(string(cfg.App.Env)))
	cfg.RecordStore.Driver = RecordStoreDriver(strings.ToLower(string(cfg.RecordStore.Driver)))
	cfg.Auth.BasicClients = ParseBasicClients(cfg.Auth.BasicClientsString)

	return cfg, nil
}

// ParseBasicClients разбирает "user:pass,user2:pass2", пары без ':' пропускаются
func ParseBasicClients(str string) []ConfigBasicClient {
	clients := []ConfigBasicClient{}
	for _, pair := range strings.Split(str, ",") {
		parts := strings.SplitN(strings.TrimSpace(pair), ":", 2)
		if len(parts) == 2 && parts[0] != "" {
			clients = append(clients, ConfigBasicClient{
				Username: parts[0],
				Password: parts[1],
			})
		}
	}
	return clients
}

func (c *Config) IsLocal() bool {
	return c.App.Env == EnvLocal
}

func (c *Config) IsNotLocal() bool {
	return c.App.Env == EnvDev || c.App.Env == EnvStage || c.App.Env == EnvProduction
}

// Location таймзона приложения, при ошибке UTC
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
