package config

import "time"

// APIConfig представляет конфигурацию удаленного REST API.
type APIConfig struct {
	BaseURL       string        `yaml:"base_url" env:"CLIENT_API_BASE_URL" env-default:"http://localhost:8000/api/v1"`
	Timeout       time.Duration `yaml:"timeout" env:"CLIENT_API_TIMEOUT" env-default:"30s"`
	RefreshLeeway time.Duration `yaml:"refresh_leeway" env:"CLIENT_API_REFRESH_LEEWAY" env-default:"30s"`
}
