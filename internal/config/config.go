// Package config reads server settings from the environment, after
// loading a .env file when one is present.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Store string

const (
	StoreMemory   Store = "memory"
	StorePostgres Store = "postgres"
	StoreMongo    Store = "mongo"
)

type Config struct {
	Addr    string
	TLSCert string
	TLSKey  string

	Store         Store
	DatabaseURL   string
	MongoURI      string
	MongoDatabase string

	TokenKey             string
	OperatorLogin        string
	OperatorPasswordHash string

	RateLimit float64
	RateBurst int
}

// AuthEnabled reports whether the operator login is configured.
func (c Config) AuthEnabled() bool {
	return c.TokenKey != "" && c.OperatorPasswordHash != ""
}

func (c Config) TLS() bool {
	return c.TLSCert != "" && c.TLSKey != ""
}

// Load reads .env files (a missing file is not an error) and then the
// process environment. Existing environment variables win over .env.
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load env file: %w", err)
	}
	return FromEnv()
}

func FromEnv() (Config, error) {
	c := Config{
		Addr:                 env("ADDR", ":8080"),
		TLSCert:              os.Getenv("TLS_CERT"),
		TLSKey:               os.Getenv("TLS_KEY"),
		Store:                Store(strings.ToLower(env("SNAPSHOT_STORE", string(StoreMemory)))),
		DatabaseURL:          os.Getenv("DATABASE_URL"),
		MongoURI:             os.Getenv("MONGO_URI"),
		MongoDatabase:        env("MONGO_DATABASE", "electrohub"),
		TokenKey:             os.Getenv("TOKEN_KEY"),
		OperatorLogin:        env("OPERATOR_LOGIN", "admin"),
		OperatorPasswordHash: os.Getenv("OPERATOR_PASSWORD_HASH"),
	}

	var err error
	if c.RateLimit, err = strconv.ParseFloat(env("RATE_LIMIT", "5"), 64); err != nil || c.RateLimit <= 0 {
		return Config{}, fmt.Errorf("RATE_LIMIT must be a positive number")
	}
	if c.RateBurst, err = strconv.Atoi(env("RATE_BURST", "10")); err != nil || c.RateBurst < 1 {
		return Config{}, fmt.Errorf("RATE_BURST must be a positive integer")
	}

	switch c.Store {
	case StoreMemory, StorePostgres:
	case StoreMongo:
		if c.MongoURI == "" {
			return Config{}, fmt.Errorf("MONGO_URI is required when SNAPSHOT_STORE=mongo")
		}
	default:
		return Config{}, fmt.Errorf("unknown SNAPSHOT_STORE %q", c.Store)
	}
	if (c.TLSCert == "") != (c.TLSKey == "") {
		return Config{}, fmt.Errorf("TLS_CERT and TLS_KEY must be set together")
	}
	return c, nil
}

func env(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
