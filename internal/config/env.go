package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type envConfig struct {
	APP_PORT           string
	LOG_FILE_PATH      string
	LOG_LEVEL          string
	EXPORT_DIR         string
	REPORT_CONFIG_PATH string

	DB_HOST              string
	DB_PORT              int
	DB_USER              string
	DB_PASSWORD          string
	DB_NAME              string
	DB_SSL_MODE          string
	DB_MAX_OPEN_CONNS    int
	DB_MAX_IDLE_CONNS    int
	DB_CONN_MAX_LIFETIME time.Duration
}

// DefaultEnvConfig holds the process settings once LoadEnvConfig ran.
var DefaultEnvConfig = envConfig{
	APP_PORT:             "8080",
	LOG_LEVEL:            "info",
	EXPORT_DIR:           ".",
	DB_PORT:              5432,
	DB_SSL_MODE:          "disable",
	DB_MAX_OPEN_CONNS:    10,
	DB_MAX_IDLE_CONNS:    5,
	DB_CONN_MAX_LIFETIME: 5 * time.Minute,
}

// DBEnabled reports whether a database host is configured.
func (c envConfig) DBEnabled() bool {
	return c.DB_HOST != ""
}

// LoadEnvConfig reads .env (when present) and the environment into DefaultEnvConfig.
// Variables already set in the environment win over .env.
func LoadEnvConfig(files ...string) error {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}

	c := DefaultEnvConfig
	str(&c.APP_PORT, "APP_PORT")
	str(&c.LOG_FILE_PATH, "LOG_FILE_PATH")
	str(&c.LOG_LEVEL, "LOG_LEVEL")
	str(&c.EXPORT_DIR, "EXPORT_DIR")
	str(&c.REPORT_CONFIG_PATH, "REPORT_CONFIG_PATH")
	str(&c.DB_HOST, "DB_HOST")
	str(&c.DB_USER, "DB_USER")
	str(&c.DB_PASSWORD, "DB_PASSWORD")
	str(&c.DB_NAME, "DB_NAME")
	str(&c.DB_SSL_MODE, "DB_SSL_MODE")

	var err error
	if c.DB_PORT, err = integer("DB_PORT", c.DB_PORT); err != nil {
		return err
	}
	if c.DB_MAX_OPEN_CONNS, err = integer("DB_MAX_OPEN_CONNS", c.DB_MAX_OPEN_CONNS); err != nil {
		return err
	}
	if c.DB_MAX_IDLE_CONNS, err = integer("DB_MAX_IDLE_CONNS", c.DB_MAX_IDLE_CONNS); err != nil {
		return err
	}
	if v := os.Getenv("DB_CONN_MAX_LIFETIME"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("DB_CONN_MAX_LIFETIME: %w", err)
		}
		c.DB_CONN_MAX_LIFETIME = d
	}

	DefaultEnvConfig = c
	return nil
}

func str(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok {
		*dst = v
	}
}

func integer(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}
