package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

type Config struct {
	SERVER_PORT    int
	DATABASE_URL   string
	JWT_SECRET     string
	REFRESH_SECRET string
	KAFKA_BROKERS  []string
	ES_URL         string
	ES_USER        string
	ES_PASSWORD    string
	ES_INDEX       string
	UPLOAD_DIR     string
	UPLOAD_BASEURL string
	LOG_LEVEL      string
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	config := &Config{
		SERVER_PORT:    envIntDefault("SERVER_PORT", 8080),
		DATABASE_URL:   os.Getenv("DATABASE_URL"),
		JWT_SECRET:     os.Getenv("JWT_SECRET"),
		REFRESH_SECRET: os.Getenv("REFRESH_SECRET"),
		KAFKA_BROKERS:  envListDefault("KAFKA_BROKERS", "localhost:9092"),
		ES_URL:         os.Getenv("ES_URL"),
		ES_USER:        os.Getenv("ES_USER"),
		ES_PASSWORD:    os.Getenv("ES_PASSWORD"),
		ES_INDEX:       envDefault("ES_INDEX", "menu_items"),
		UPLOAD_DIR:     envDefault("UPLOAD_DIR", "uploads"),
		UPLOAD_BASEURL: envDefault("UPLOAD_BASEURL", "/uploads"),
		LOG_LEVEL:      envDefault("LOG_LEVEL", "info"),
	}

	return config, nil
}

func envDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntDefault(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envListDefault(key, def string) []string {
	raw := envDefault(key, def)
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
