// Package config предоставялет структуры и функцию для парсинга и загрузки конфига
package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config общая структура для хранения настроек
type Config struct {
	Env                     string `yaml:"env"`
	StorageConnectionString string `yaml:"storage_connection_string"`
	RedisConnection         `yaml:"redis_connection"`
	HTTPServer              `yaml:"http_server"`
	JWTToken                `yaml:"jwttoken"`
	RabbitMQ                `yaml:"rabbitmq"`
	BillingGateway          `yaml:"billing_gateway"`
	MarineProvider          `yaml:"marine_provider"`
	RateLimit               `yaml:"rate_limit"`
}

// HTTPServer структура для настройки сервера
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp"`
	IdleTimeout time.Duration `yaml:"idle_timeout"`
}

// RedisConnection структура для настройки подключения к redis
type RedisConnection struct {
	AddressRedis string        `yaml:"addressredis"`
	Password     string        `yaml:"password"`
	User         string        `yaml:"user"`
	DB           int           `yaml:"db"`
	MaxRetries   int           `yaml:"max_retries"`
	DialTimeout  time.Duration `yaml:"dial_timeout"`
	TimeoutRedis time.Duration `yaml:"timeoutredis"`
	// SharedRateLimit переключает счётчики ограничителя частоты
	// на Redis: обязательно при нескольких экземплярах сервиса.
	SharedRateLimit bool `yaml:"shared_rate_limit"`
}

// JWTToken структура для работы с jwt-токеном
type JWTToken struct {
	JWTSecretKey string        `yaml:"jwt_secret_key"`
	TokenTTL     time.Duration `yaml:"token_ttl"`
}

// RabbitMQ структура для настройки подключения к брокеру сообщений
type RabbitMQ struct {
	RabbitMQURL        string        `yaml:"rabbitmq_url"`
	RabbitMQMaxRetries int           `yaml:"rabbitmq_max_retries"`
	RabbitMQRetryDelay time.Duration `yaml:"rabbitmq_retry_delay"`
}

// BillingGateway структура для настройки клиента платёжного шлюза
type BillingGateway struct {
	ShopID         string        `yaml:"shop_id"`
	SecretKey      string        `yaml:"secret_key"`
	WebhookSecret  string        `yaml:"webhook_secret"`
	GatewayTimeout time.Duration `yaml:"gateway_timeout"`
}

// MarineProvider структура для настройки внешнего поставщика морских данных
type MarineProvider struct {
	ProviderAPIURL  string        `yaml:"provider_api_url"`
	ProviderAPIKey  string        `yaml:"provider_api_key"`
	ProviderTimeout time.Duration `yaml:"provider_timeout"`
	DailyLimit      int           `yaml:"daily_limit"`
	MonthlyLimit    int           `yaml:"monthly_limit"`
	CacheTTL        time.Duration `yaml:"cache_ttl"`
}

// RateLimit структура для настройки ограничителя частоты запросов
type RateLimit struct {
	MaxRequests int           `yaml:"max_requests"`
	Window      time.Duration `yaml:"window"`
}

// MustLoad функция для загрузки конфига, возвращает конфиг, сгенерированный из config/config.go
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("file: %s - does not exist", configPath)
	}
	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return &cfg
}

func (c *Config) String() string {
	return fmt.Sprintf(
		"Env: %s\n"+
			"StorageConnectionString: %s\n"+
			"RedisConnection:\n"+
			"  Addr: %s\n"+
			"  DB: %d\n"+
			"  SharedRateLimit: %t\n"+
			"HTTPServer:\n"+
			"  Address: %s\n"+
			"  Timeout: %s\n"+
			"  IdleTimeout: %s\n"+
			"RabbitMQ:\n"+
			"  URL: %s\n"+
			"MarineProvider:\n"+
			"  URL: %s\n"+
			"  DailyLimit: %d\n"+
			"  MonthlyLimit: %d\n"+
			"RateLimit:\n"+
			"  MaxRequests: %d\n"+
			"  Window: %s\n",
		c.Env,
		c.StorageConnectionString,
		c.AddressRedis,
		c.DB,
		c.SharedRateLimit,
		c.AddressHTTP,
		c.TimeoutHTTP,
		c.IdleTimeout,
		c.RabbitMQURL,
		c.ProviderAPIURL,
		c.DailyLimit,
		c.MonthlyLimit,
		c.MaxRequests,
		c.Window,
	)
}
