package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ServerOptions configures the HTTP API server.
type ServerOptions struct {
	ListenAddr string `yaml:"listenAddr"`
	JWTSecret  string `yaml:"jwtSecret"`
}

// Config holds the application configuration
type Config struct {
	DBPath     string        `yaml:"dbPath"`
	RateAPIURL string        `yaml:"rateApiUrl"`
	Server     ServerOptions `yaml:"server"`
}

const defaultListenAddr = ":3020"

var (
	// Global configuration instance
	globalConfig *Config
	// Mutex to ensure thread-safe access to the global configuration
	configMutex sync.RWMutex
	// Flag to track if the configuration has been loaded
	configLoaded bool
	// Load .env once; secrets may live there instead of config.yaml
	envOnce sync.Once
)

func loadEnv() {
	envOnce.Do(func() {
		// Missing .env is fine, plain environment variables still apply.
		_ = godotenv.Load()
	})
}

// DefaultDBPath returns the default SQLite location under the user's home.
func DefaultDBPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "wealth.db"
	}
	return filepath.Join(homeDir, ".wealth-tracker", "wealth.db")
}

// LoadConfig loads the configuration from the specified YAML file
func LoadConfig(configPath string) (*Config, error) {
	// Read the configuration file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Parse the YAML data
	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	return &config, nil
}

// InitGlobalConfig initializes the global configuration from the specified file
func InitGlobalConfig(configPath string) error {
	config, err := LoadConfig(configPath)
	if err != nil {
		return err
	}

	configMutex.Lock()
	defer configMutex.Unlock()

	globalConfig = config
	configLoaded = true
	return nil
}

// GetConfig returns the global configuration instance
// If the configuration hasn't been loaded yet, it attempts to load it from
// the default location (./config.yaml)
func GetConfig() (*Config, error) {
	loadEnv()

	configMutex.RLock()
	if configLoaded {
		defer configMutex.RUnlock()
		return globalConfig, nil
	}
	configMutex.RUnlock()

	// Try to load from default location
	configPath := "config.yaml"
	if err := InitGlobalConfig(configPath); err != nil {
		// If the default config file doesn't exist, create it
		if os.IsNotExist(err) {
			// Create a default configuration
			defaultConfig := &Config{
				DBPath:     DefaultDBPath(),
				RateAPIURL: "", // Empty selects the default public endpoint
				Server: ServerOptions{
					ListenAddr: defaultListenAddr,
					JWTSecret:  "",
				},
			}

			// Marshal the default configuration to YAML
			data, err := yaml.Marshal(defaultConfig)
			if err != nil {
				return nil, fmt.Errorf("error creating default config: %w", err)
			}

			// Write the default configuration to the file
			if err := os.WriteFile(configPath, data, 0644); err != nil {
				return nil, fmt.Errorf("error writing default config: %w", err)
			}

			// Set the global configuration to the default
			configMutex.Lock()
			globalConfig = defaultConfig
			configLoaded = true
			configMutex.Unlock()

			return defaultConfig, nil
		}
		return nil, err
	}

	configMutex.RLock()
	defer configMutex.RUnlock()
	return globalConfig, nil
}

// GetDBPath returns the SQLite path from the configuration.
func GetDBPath() (string, error) {
	config, err := GetConfig()
	if err != nil {
		return "", err
	}

	if config.DBPath == "" {
		return DefaultDBPath(), nil
	}
	return config.DBPath, nil
}

// GetRateAPIURL returns the exchange-rate endpoint URL. The WEALTH_RATE_API_URL
// environment variable wins over the configuration file.
func GetRateAPIURL() (string, error) {
	loadEnv()
	if url := os.Getenv("WEALTH_RATE_API_URL"); url != "" {
		return url, nil
	}

	config, err := GetConfig()
	if err != nil {
		return "", err
	}
	return config.RateAPIURL, nil
}

// GetListenAddr returns the API server listen address from the configuration.
func GetListenAddr() (string, error) {
	config, err := GetConfig()
	if err != nil {
		return "", err
	}

	if config.Server.ListenAddr == "" {
		return defaultListenAddr, nil
	}
	return config.Server.ListenAddr, nil
}

// GetJWTSecret returns the token signing secret. The WEALTH_JWT_SECRET
// environment variable wins over the configuration file.
func GetJWTSecret() (string, error) {
	loadEnv()
	if secret := os.Getenv("WEALTH_JWT_SECRET"); secret != "" {
		return secret, nil
	}

	config, err := GetConfig()
	if err != nil {
		return "", err
	}

	if config.Server.JWTSecret == "" {
		return "", fmt.Errorf("error: JWT secret not set in configuration or WEALTH_JWT_SECRET")
	}
	return config.Server.JWTSecret, nil
}
