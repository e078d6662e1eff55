// Package config loads server settings from an optional HCL file, a .env
// file and the environment, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/hashicorp/hcl/v2/hclsimple"
	"github.com/joho/godotenv"
)

// Store drivers.
const (
	DriverMongo  = "mongo"
	DriverMemory = "memory"
)

// Config holds the server configuration.
type Config struct {
	ListenAddr   string       `hcl:"listen_addr,optional"`
	StoreDriver  string       `hcl:"store_driver,optional"`
	HighestLimit int          `hcl:"highest_limit,optional"`
	PageSize     int          `hcl:"page_size,optional"`
	CORSOrigin   string       `hcl:"cors_origin,optional"`
	Mongo        *MongoConfig `hcl:"mongo,block"`
	Audit        *AuditConfig `hcl:"audit,block"`
}

// MongoConfig locates the document store.
type MongoConfig struct {
	URI      string `hcl:"uri,optional"`
	Database string `hcl:"database,optional"`
}

// AuditConfig locates the PostgreSQL audit database. Auditing is off when
// DatabaseURL is empty.
type AuditConfig struct {
	DatabaseURL string `hcl:"database_url,optional"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		ListenAddr:   ":3000",
		StoreDriver:  DriverMongo,
		HighestLimit: 6,
		PageSize:     8,
		CORSOrigin:   "*",
		Mongo: &MongoConfig{
			Database: "foodshare",
		},
		Audit: &AuditConfig{},
	}
}

// Load builds the configuration. path may be empty to skip the HCL file.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	cfg := Default()
	if path != "" {
		if err := cfg.decodeFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) decodeFile(path string) error {
	var file Config
	if err := hclsimple.DecodeFile(path, nil, &file); err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}

	if file.ListenAddr != "" {
		c.ListenAddr = file.ListenAddr
	}
	if file.StoreDriver != "" {
		c.StoreDriver = file.StoreDriver
	}
	if file.HighestLimit != 0 {
		c.HighestLimit = file.HighestLimit
	}
	if file.PageSize != 0 {
		c.PageSize = file.PageSize
	}
	if file.CORSOrigin != "" {
		c.CORSOrigin = file.CORSOrigin
	}
	if file.Mongo != nil {
		if file.Mongo.URI != "" {
			c.Mongo.URI = file.Mongo.URI
		}
		if file.Mongo.Database != "" {
			c.Mongo.Database = file.Mongo.Database
		}
	}
	if file.Audit != nil && file.Audit.DatabaseURL != "" {
		c.Audit.DatabaseURL = file.Audit.DatabaseURL
	}
	return nil
}

func (c *Config) applyEnv() error {
	if port := os.Getenv("PORT"); port != "" {
		c.ListenAddr = ":" + port
	}
	setString(&c.ListenAddr, "LISTEN_ADDR")
	setString(&c.StoreDriver, "STORE_DRIVER")
	setString(&c.Mongo.URI, "MONGO_URI")
	setString(&c.Mongo.Database, "MONGO_DATABASE")
	setString(&c.Audit.DatabaseURL, "AUDIT_DATABASE_URL")
	setString(&c.CORSOrigin, "CORS_ORIGIN")
	if err := setInt(&c.HighestLimit, "HIGHEST_LIMIT"); err != nil {
		return err
	}
	return setInt(&c.PageSize, "PAGE_SIZE")
}

// Validate checks the configuration is usable.
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case DriverMongo:
		if c.Mongo.URI == "" {
			return fmt.Errorf("MONGO_URI is required for the %s store driver", DriverMongo)
		}
		if c.Mongo.Database == "" {
			return fmt.Errorf("MONGO_DATABASE must not be empty")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown store driver %q", c.StoreDriver)
	}
	if c.HighestLimit < 1 {
		return fmt.Errorf("highest_limit must be positive, got %d", c.HighestLimit)
	}
	if c.PageSize < 1 {
		return fmt.Errorf("page_size must be positive, got %d", c.PageSize)
	}
	return nil
}

func setString(dst *string, key string) {
	if val := os.Getenv(key); val != "" {
		*dst = val
	}
}

func setInt(dst *int, key string) error {
	val := os.Getenv(key)
	if val == "" {
		return nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return fmt.Errorf("%s must be a number: %w", key, err)
	}
	*dst = n
	return nil
}
