package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// Environment variables read by casectl.
const (
	envLogLevel    = "CASESIM_LOG_LEVEL"
	envMonitorPort = "CASESIM_MONITOR_PORT"
	envRecordPath  = "CASESIM_RECORD_PATH"
	envMaxCycles   = "CASESIM_MAX_CYCLES"
)

const defaultMaxCycles = 1000

type config struct {
	LogLevel    zerolog.Level
	MonitorPort int
	RecordPath  string
	MaxCycles   uint64
}

func defaultConfig() config {
	return config{
		LogLevel:  zerolog.InfoLevel,
		MaxCycles: defaultMaxCycles,
	}
}

// loadConfig loads the env file, if it exists, and reads the configuration
// from the environment. Variables already set in the environment win over
// the file.
func loadConfig(path string) (config, error) {
	if path != "" {
		err := godotenv.Load(path)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return config{}, fmt.Errorf("load %s: %w", path, err)
		}
	}

	return configFromEnv(os.LookupEnv)
}

func configFromEnv(lookup func(string) (string, bool)) (config, error) {
	cfg := defaultConfig()

	if v, ok := lookup(envLogLevel); ok && v != "" {
		level, err := zerolog.ParseLevel(v)
		if err != nil {
			return config{}, fmt.Errorf("%s: %w", envLogLevel, err)
		}

		cfg.LogLevel = level
	}

	if v, ok := lookup(envMonitorPort); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil || port < 0 || port > 65535 {
			return config{}, fmt.Errorf("%s: invalid port %q", envMonitorPort, v)
		}

		cfg.MonitorPort = port
	}

	if v, ok := lookup(envRecordPath); ok {
		cfg.RecordPath = v
	}

	if v, ok := lookup(envMaxCycles); ok && v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return config{}, fmt.Errorf("%s: %w", envMaxCycles, err)
		}

		cfg.MaxCycles = n
	}

	return cfg, nil
}
