package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config represents the application configuration structure: the running
// environment, backend endpoints and the local session state file.
type Config struct {
	// Environment specifies the current running environment (development, production, etc.)
	Environment string `env:"ENVIRONMENT" env-default:"development" yaml:"environment"`

	// API contains the backend endpoint configuration.
	API struct {
		// BaseURL is the root of the traffic-violation backend, e.g. "https://host/api".
		BaseURL string `env:"API_BASE_URL" env-default:"http://localhost:3000/api" yaml:"baseUrl"`
		// RecognizerURL is the full endpoint of the plate-recognition service.
		// It is a separate, unauthenticated service.
		RecognizerURL string `env:"API_RECOGNIZER_URL" env-default:"http://localhost:8000/detect" yaml:"recognizerUrl"`
		// RequestTimeout bounds every backend call, recognition uploads included.
		RequestTimeout time.Duration `env:"API_REQUEST_TIMEOUT" env-default:"30s" yaml:"requestTimeout"`
	} `yaml:"api"`

	// Session configures the local session state.
	Session struct {
		// Path is the file the session token and identity are stored in.
		Path string `env:"SESSION_PATH" env-default:".patrol/session.json" yaml:"path"`
	} `yaml:"session"`
}

// Load receives the path for a yaml config file and returns a filled Config
// struct.
func Load(configPath string) (*Config, error) {
	var cfg Config
	err := cleanenv.ReadConfig(configPath, &cfg)
	if err != nil {
		return nil, fmt.Errorf("could not read config: %w", err)
	}

	return &cfg, nil
}
