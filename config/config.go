package config

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the bot process.
type Config struct {
	DBUrl        string
	DiscordToken string
	TestGuildID  string
	Environment  string
}

// Load loads configuration from environment variables.
// It attempts to load from a .env file if not in production.
// DATABASE_URL and DISCORD_TOKEN are required; a missing value is an error
// and the caller is expected to treat it as fatal.
func Load() (*Config, error) {
	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}

	// In production .env might not exist and we rely on system
	// environment variables.
	if env != "production" {
		if err := godotenv.Load(); err != nil {
			log.Printf("Warning: .env file not found or couldn't be loaded: %v", err)
		}
	}

	cfg := &Config{
		Environment:  env,
		DBUrl:        os.Getenv("DATABASE_URL"),
		DiscordToken: os.Getenv("DISCORD_TOKEN"),
		TestGuildID:  os.Getenv("TEST_GUILD_ID"),
	}

	if cfg.DBUrl == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}
	if cfg.DiscordToken == "" {
		return nil, fmt.Errorf("DISCORD_TOKEN is not set")
	}

	return cfg, nil
}
