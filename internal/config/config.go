// Package config provides configuration management for the application.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Aircall    AircallConfig    `mapstructure:"aircall"`
	Trigger    TriggerConfig    `mapstructure:"trigger"`
	Reconciler ReconcilerConfig `mapstructure:"reconciler"`
	Middleware MiddlewareConfig `mapstructure:"middleware"`
}

type ServerConfig struct {
	Port         string `mapstructure:"port"`
	ReadTimeout  int    `mapstructure:"read_timeout"`
	WriteTimeout int    `mapstructure:"write_timeout"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// AircallConfig holds credentials and transport settings for the Aircall API.
type AircallConfig struct {
	BaseURL        string               `mapstructure:"base_url"`
	APIID          string               `mapstructure:"api_id"`
	APIToken       string               `mapstructure:"api_token"`
	Timeout        int                  `mapstructure:"timeout"`
	MaxPages       int                  `mapstructure:"max_pages"`
	CircuitBreaker CircuitBreakerConfig `mapstructure:"circuit_breaker"`
}

type CircuitBreakerConfig struct {
	MaxRequests      uint32  `mapstructure:"max_requests"`
	Interval         int     `mapstructure:"interval"`
	Timeout          int     `mapstructure:"timeout"`
	FailureRatio     float64 `mapstructure:"failure_ratio"`
	ConsecutiveFails uint32  `mapstructure:"consecutive_fails"`
}

// TriggerConfig controls where inbound webhook callbacks land and where
// normalized events are published.
type TriggerConfig struct {
	PublicURL     string `mapstructure:"public_url"`
	EventsChannel string `mapstructure:"events_channel"`
}

type ReconcilerConfig struct {
	IntervalMinutes int `mapstructure:"interval_minutes"`
}

type MiddlewareConfig struct {
	RateLimit      int      `mapstructure:"rate_limit"`
	RateLimitBurst int      `mapstructure:"rate_limit_burst"`
	EnableCORS     bool     `mapstructure:"enable_cors"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

func LoadConfig(configPath string) (*Config, error) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")

	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.read_timeout", 10)
	viper.SetDefault("server.write_timeout", 10)
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("aircall.base_url", "https://api.aircall.io/v1")
	viper.SetDefault("aircall.timeout", 30)
	viper.SetDefault("aircall.max_pages", 0)
	viper.SetDefault("aircall.circuit_breaker.max_requests", 3)
	viper.SetDefault("aircall.circuit_breaker.interval", 60)
	viper.SetDefault("aircall.circuit_breaker.timeout", 60)
	viper.SetDefault("aircall.circuit_breaker.failure_ratio", 0.6)
	viper.SetDefault("aircall.circuit_breaker.consecutive_fails", 5)
	viper.SetDefault("trigger.events_channel", "aircall:events")
	viper.SetDefault("reconciler.interval_minutes", 15)
	viper.SetDefault("middleware.rate_limit", 100)
	viper.SetDefault("middleware.rate_limit_burst", 1000)
	viper.SetDefault("middleware.enable_cors", true)
	viper.SetDefault("middleware.allowed_origins", []string{"*"})

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	viper.AutomaticEnv()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}
