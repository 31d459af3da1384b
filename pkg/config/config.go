package config

import (
	"encoding/json"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/smirnovd/tg-couple-bot/pkg/logger"
)

type Config struct {
	Database DatabaseConfig `json:"database"`
	Telegram TelegramConfig `json:"telegram"`
	Webapp   WebappConfig   `json:"webapp"`
	Notifier NotifierConfig `json:"notifier"`
	Logging  LoggingConfig  `json:"logging"`
}

type DatabaseConfig struct {
	Host     string `json:"host"`
	User     string `json:"user"`
	Password string `json:"password"`
	DBName   string `json:"dbname"`
	Port     int    `json:"port"`
	SSLMode  string `json:"sslmode"`
}

type TelegramConfig struct {
	Token       string `json:"token"`
	BotUsername string `json:"bot_username"`
}

type WebappConfig struct {
	Listen string `json:"listen"`
}

type NotifierConfig struct {
	IntervalMinutes int `json:"interval_minutes"`
}

type LoggingConfig struct {
	Level     string `json:"level"`
	File      string `json:"file"`
	GormLevel string `json:"gorm_level"`
}

var AppConfig Config

// LoadConfig reads the JSON config file and then applies environment
// overrides for secrets. A missing .env file is not an error.
func LoadConfig(filename string) error {
	_ = godotenv.Load()

	file, err := os.Open(filename)
	if err != nil {
		logger.Error("failed to open config file", "error", err)
		return err
	}
	defer file.Close()

	decoder := json.NewDecoder(file)
	if err := decoder.Decode(&AppConfig); err != nil {
		logger.Error("failed to decode config file", "error", err)
		return err
	}

	applyEnvOverrides(&AppConfig)
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("DB_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := os.Getenv("DB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Database.Port = port
		} else {
			logger.Error("invalid DB_PORT override", "value", v, "error", err)
		}
	}
	if v := os.Getenv("DB_USER"); v != "" {
		cfg.Database.User = v
	}
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("DB_NAME"); v != "" {
		cfg.Database.DBName = v
	}
	if v := os.Getenv("BOT_TOKEN"); v != "" {
		cfg.Telegram.Token = v
	}
	if v := os.Getenv("BOT_USERNAME"); v != "" {
		cfg.Telegram.BotUsername = v
	}
}
