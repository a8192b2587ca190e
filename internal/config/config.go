package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	HTTPAddr string
	Env      string
	LogLevel string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Roll limits, zero means the service default
	MaxDice          int
	MaxWriteAttempts int

	// CORSOrigins is empty when every origin is allowed
	CORSOrigins []string

	Discord DiscordConfig
}

// DiscordConfig holds the optional Discord bot settings
type DiscordConfig struct {
	Token         string
	ApplicationID string
	GuildID       string

	// ChannelID receives an announcement for every resolved roll
	ChannelID string
}

// Load reads configuration from environment variables.
// In development, it loads from .env file if present.
func Load() (*Config, error) {
	// Load .env file if it exists (for development)
	_ = godotenv.Load()

	cfg := &Config{
		HTTPAddr:      getEnv("HTTP_ADDR", ":8080"),
		Env:           getEnv("ENV", "development"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		Discord: DiscordConfig{
			Token:         os.Getenv("DISCORD_TOKEN"),
			ApplicationID: os.Getenv("DISCORD_APPLICATION_ID"),
			GuildID:       os.Getenv("DISCORD_GUILD_ID"),
			ChannelID:     os.Getenv("DISCORD_CHANNEL_ID"),
		},
	}

	var err error
	if cfg.RedisDB, err = getInt("REDIS_DB", 0); err != nil {
		return nil, err
	}
	if cfg.MaxDice, err = getInt("MAX_DICE", 0); err != nil {
		return nil, err
	}
	if cfg.MaxWriteAttempts, err = getInt("MAX_WRITE_ATTEMPTS", 0); err != nil {
		return nil, err
	}

	// Parse allowed origins (comma-separated)
	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		for _, entry := range strings.Split(origins, ",") {
			entry = strings.TrimSpace(entry)
			if entry != "" {
				cfg.CORSOrigins = append(cfg.CORSOrigins, entry)
			}
		}
	}

	return cfg, nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// DiscordEnabled reports whether the bot should be started
func (c *Config) DiscordEnabled() bool {
	return c.Discord.Token != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}

	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}
