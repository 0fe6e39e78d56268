// Package config holds the settings shared by the command line tools.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/TroyNeubauer/encryption"
)

// Config holds tool configuration. Environment variables provide the defaults;
// command line flags override them.
type Config struct {
	KeyFile   string
	KeySize   int
	Algorithm int
	Window    string
}

// Load loads configuration from environment variables.
func Load() *Config {
	return &Config{
		KeyFile:   getEnv("ENCRYPTION_KEY_FILE", "key.bin"),
		KeySize:   getEnvInt("ENCRYPTION_KEY_SIZE", encryption.DefaultKeySize),
		Algorithm: getEnvInt("ENCRYPTION_ALGORITHM", 2),
		Window:    getEnv("ENCRYPTION_WINDOWING", "word"),
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.KeyFile) == "" {
		return fmt.Errorf("config: key file must be set")
	}
	if c.KeySize <= 0 {
		return fmt.Errorf("config: key size must be positive, got %d", c.KeySize)
	}
	if c.Algorithm != 1 && c.Algorithm != 2 {
		return fmt.Errorf("config: algorithm must be 1 or 2, got %d", c.Algorithm)
	}
	if _, err := encryption.ParseWindowing(c.Window); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// Windowing returns the parsed windowing strategy. Call Validate first.
func (c *Config) Windowing() encryption.Windowing {
	w, _ := encryption.ParseWindowing(c.Window)
	return w
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
