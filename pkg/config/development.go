package config

import (
	"os"
	"strconv"
)

// loadDevelopmentConfig fills in local paths that weren't explicitly set.
func loadDevelopmentConfig(cfg *Config) {
	port, err := strconv.Atoi(os.Getenv("PORT"))
	if err == nil {
		cfg.ServerPort = port
	}

	cfg.DatabaseDebug = true
	if cfg.DatabaseFilePath == "" {
		cfg.DatabaseFilePath = "./tmp/library.sqlite"
	}
	if cfg.ExtractDirectory == "" {
		cfg.ExtractDirectory = "./tmp/extracted"
	}
}
