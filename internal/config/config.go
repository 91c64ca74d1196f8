package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/subosito/gotenv"
)

type Config struct {
	API      *APIconfig
	Events   *Eventsconfig
	DB       *DBconfig
	RabbitMq *RabbitMqconfig
	Srv      *Serviceconfig
	Log      *Loggerconfig
	Storage  *Storageconfig
}

type APIconfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

type Eventsconfig struct {
	// Transport is one of ws, amqp or none.
	Transport string `yaml:"transport"`
	WSURL     string `yaml:"ws_url"`
}

type DBconfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
}

type RabbitMqconfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	VHost    string `yaml:"vhost"`
	Exchange string `yaml:"exchange"`
}

type Serviceconfig struct {
	ConsolePort   string `yaml:"console_port"`
	PublicBaseURL string `yaml:"public_base_url"`
	CompanyName   string `yaml:"company_name"`
	// JWTSecret, when set, makes the console server verify token signatures.
	JWTSecret string `yaml:"jwt_secret"`
}

type Loggerconfig struct {
	Level string `yaml:"level"`
}

type Storageconfig struct {
	// File holds the token key/value store standing in for browser local storage.
	File string `yaml:"file"`
}

// New reads the configuration from the environment. A .env file in the working
// directory is loaded first when present; variables already set win over it.
func New() (*Config, error) {
	if err := gotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	getEnv := func(key, def string) string {
		val := os.Getenv(key)
		if val == "" {
			fmt.Fprintf(os.Stderr, "using default %s=%v\n", key, def)
			return def
		}
		return val
	}

	getEnvInt := func(key string, def int) int {
		valStr := os.Getenv(key)
		if valStr == "" {
			fmt.Fprintf(os.Stderr, "using default %s=%v\n", key, def)
			return def
		}
		val, err := strconv.Atoi(valStr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "cannot parse %s, using default %v\n", key, def)
			return def
		}
		return val
	}

	getEnvBool := func(key string, def bool) bool {
		valStr := os.Getenv(key)
		if valStr == "" {
			return def
		}
		val, err := strconv.ParseBool(valStr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "cannot parse %s, using default %v\n", key, def)
			return def
		}
		return val
	}

	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}

	cnf := &Config{
		API: &APIconfig{
			BaseURL: strings.TrimRight(getEnv("CONSOLE_API_URL", "http://localhost:4000"), "/"),
			Timeout: time.Duration(getEnvInt("CONSOLE_API_TIMEOUT_SECONDS", 30)) * time.Second,
		},
		Events: &Eventsconfig{
			Transport: strings.ToLower(getEnv("EVENTS_TRANSPORT", "ws")),
			WSURL:     getEnv("CONSOLE_WS_URL", "ws://localhost:4000/ws/admin"),
		},
		DB: &DBconfig{
			Enabled:  getEnvBool("DB_ENABLED", false),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "nolsaf_console"),
			Password: getEnv("DB_PASSWORD", "nolsaf_console"),
			Database: getEnv("DB_NAME", "nolsaf_console"),
		},
		RabbitMq: &RabbitMqconfig{
			Host:     getEnv("RABBITMQ_HOST", "localhost"),
			Port:     getEnvInt("RABBITMQ_PORT", 5672),
			User:     getEnv("RABBITMQ_USER", "guest"),
			Password: getEnv("RABBITMQ_PASSWORD", "guest"),
			VHost:    os.Getenv("RABBITMQ_VHOST"),
			Exchange: getEnv("RABBITMQ_EXCHANGE", "admin_events"),
		},
		Srv: &Serviceconfig{
			ConsolePort:   getEnv("CONSOLE_PORT", "3004"),
			PublicBaseURL: strings.TrimRight(getEnv("CONSOLE_PUBLIC_URL", "http://localhost:3004"), "/"),
			CompanyName:   getEnv("CONSOLE_COMPANY_NAME", "NoLSAF"),
			JWTSecret:     os.Getenv("CONSOLE_JWT_SECRET"),
		},
		Log: &Loggerconfig{
			Level: getEnv("LOG_LEVEL", "INFO"),
		},
		Storage: &Storageconfig{
			File: getEnv("CONSOLE_STORAGE_FILE", filepath.Join(home, ".nolsaf", "storage.json")),
		},
	}

	return cnf, nil
}

// DSN returns the postgres connection string for the journal database.
func (c *DBconfig) DSN() string {
	return fmt.Sprintf("postgres://%v:%v@%v:%v/%v?sslmode=disable",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.Database,
	)
}

// URL returns the AMQP url.
func (c *RabbitMqconfig) URL() string {
	return fmt.Sprintf("amqp://%v:%v@%v:%v/%v",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.VHost,
	)
}
