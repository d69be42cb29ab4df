package config

import (
	"os"
	"strconv"
)

type Config struct {
	StoreName string
	Approver  string
	QRSize    int
}

func Load() *Config {
	return &Config{
		StoreName: getEnv("STORE_NAME", "Reluxe Resale"),
		Approver:  getEnv("APPROVER_NAME", "Manager"),
		QRSize:    getEnvInt("QR_SIZE", 256),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
