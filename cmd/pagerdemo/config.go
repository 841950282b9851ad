package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	storeSQLite = "sqlite"
	storeMemory = "memory"
)

type Config struct {
	Port string
	// SpecFile is an optional YAML pagination spec, see package specfile.
	SpecFile string
	// Records is the default page size when no spec file is given.
	Records  int
	Store    string
	LogLevel zapcore.Level
}

func LoadConfig(envPath string) (*Config, error) {
	// The .env file is optional.
	_ = godotenv.Load(envPath)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := validatePort(port); err != nil {
		return nil, fmt.Errorf("invalid port: %w", err)
	}

	records := 5
	if v := os.Getenv("RECORDS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid RECORDS %q", v)
		}
		records = n
	}

	store := os.Getenv("STORE")
	switch store {
	case "":
		store = storeSQLite
	case storeSQLite, storeMemory:
	default:
		return nil, fmt.Errorf("unknown STORE %q", store)
	}

	level := zap.InfoLevel
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		parsed, err := zapcore.ParseLevel(v)
		if err != nil {
			return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
		}
		level = parsed
	}

	return &Config{
		Port:     port,
		SpecFile: os.Getenv("SPEC_FILE"),
		Records:  records,
		Store:    store,
		LogLevel: level,
	}, nil
}

func validatePort(port string) error {
	portNum, err := strconv.Atoi(port)
	if err != nil {
		return errors.New("port must be a number")
	}

	if portNum < 1 || portNum > 65535 {
		return errors.New("port must be between 1 and 65535")
	}

	return nil
}

// newLogger builds a JSON production logger at the given level.
func newLogger(level zapcore.Level) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.Encoding = "json"
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.MessageKey = "msg"
	cfg.EncoderConfig.LevelKey = "level"
	cfg.EncoderConfig.CallerKey = "caller"

	return cfg.Build()
}
