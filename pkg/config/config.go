// Package config loads snapshare settings from a TOML file and the
// environment.
//
// Values are resolved in three layers, later layers winning:
//
//  1. [Default]
//  2. the TOML file passed to [Load] (sections server, mongo, redis,
//     storage, conversion, render, log, telemetry)
//  3. environment variables (see [Config.ApplyEnv])
//
// Missing conversion credentials are not a load error. The flipbook build
// reports them as a CONFIGURATION error when a build is requested.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/snapshare/pkg/conversion"
	apperr "github.com/matzehuels/snapshare/pkg/errors"
	"github.com/matzehuels/snapshare/pkg/event"
)

// DefaultPath is the config file looked up when no --config flag is given.
const DefaultPath = "snapshare.toml"

// Storage backends.
const (
	BackendMongo = "mongo"
	BackendLocal = "local"
)

// Config is the complete application configuration.
type Config struct {
	Server     ServerConfig     `toml:"server"`
	Mongo      MongoConfig      `toml:"mongo"`
	Redis      RedisConfig      `toml:"redis"`
	Storage    StorageConfig    `toml:"storage"`
	Conversion ConversionConfig `toml:"conversion"`
	Render     RenderConfig     `toml:"render"`
	Log        LogConfig        `toml:"log"`
	Telemetry  TelemetryConfig  `toml:"telemetry"`
}

type ServerConfig struct {
	Addr        string   `toml:"addr"`
	CORSOrigins []string `toml:"cors_origins"`
	// PublicURL is the externally reachable base URL. Stored documents are
	// served under PublicURL/files/ and must be reachable by the conversion
	// service.
	PublicURL string `toml:"public_url"`
}

type MongoConfig struct {
	URI      string `toml:"uri"`
	Database string `toml:"database"`
}

type RedisConfig struct {
	Enabled  bool   `toml:"enabled"`
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

type StorageConfig struct {
	Backend  string `toml:"backend"`
	LocalDir string `toml:"local_dir"`
}

type ConversionConfig struct {
	Endpoint string        `toml:"endpoint"`
	ClientID string        `toml:"client_id"`
	APIKey   string        `toml:"api_key"`
	Timeout  time.Duration `toml:"timeout"`
	Attempts int           `toml:"attempts"`
}

// Client returns the conversion client settings.
func (c ConversionConfig) Client() conversion.Config {
	return conversion.Config{
		Endpoint: c.Endpoint,
		ClientID: c.ClientID,
		APIKey:   c.APIKey,
		Timeout:  c.Timeout,
		Attempts: c.Attempts,
	}
}

type RenderConfig struct {
	MemoryQuality  int `toml:"memory_quality"`
	CollageQuality int `toml:"collage_quality"`
	StoryQuality   int `toml:"story_quality"`
	MaxImagePixels int `toml:"max_image_px"`
}

// Qualities returns the JPEG quality per style.
func (r RenderConfig) Qualities() map[event.Style]int {
	return map[event.Style]int{
		event.StyleMemoryArchive:     r.MemoryQuality,
		event.StyleTypographyCollage: r.CollageQuality,
		event.StyleMinimalistStory:   r.StoryQuality,
	}
}

type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "text" or "json"
}

type TelemetryConfig struct {
	Enabled bool `toml:"enabled"`
	Stdout  bool `toml:"stdout"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:        ":8000",
			CORSOrigins: []string{"*"},
			PublicURL:   "http://localhost:8000",
		},
		Mongo: MongoConfig{
			URI:      "mongodb://localhost:27017",
			Database: "snapshare",
		},
		Redis: RedisConfig{Addr: "localhost:6379"},
		Storage: StorageConfig{
			Backend:  BackendLocal,
			LocalDir: "data",
		},
		Conversion: ConversionConfig{
			Endpoint: conversion.DefaultEndpoint,
			Timeout:  60 * time.Second,
			Attempts: 1,
		},
		Render: RenderConfig{
			MemoryQuality:  85,
			CollageQuality: 85,
			StoryQuality:   95,
			MaxImagePixels: 2400,
		},
		Log: LogConfig{Level: "info", Format: "text"},
	}
}

// Load reads path over the defaults and applies environment overrides.
// An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides settings from environment variables:
//
//	MONGO_URL, DB_NAME, REDIS_ADDR (also enables redis), PUBLIC_URL,
//	CORS_ORIGINS (comma separated), CONVERSION_ENDPOINT,
//	CONVERSION_CLIENT_ID, CONVERSION_API_KEY, CONVERSION_ATTEMPTS
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	set := func(name string, dst *string) {
		if v, ok := lookup(name); ok && v != "" {
			*dst = v
		}
	}
	set("MONGO_URL", &c.Mongo.URI)
	set("DB_NAME", &c.Mongo.Database)
	set("PUBLIC_URL", &c.Server.PublicURL)
	set("CONVERSION_ENDPOINT", &c.Conversion.Endpoint)
	set("CONVERSION_CLIENT_ID", &c.Conversion.ClientID)
	set("CONVERSION_API_KEY", &c.Conversion.APIKey)

	if v, ok := lookup("REDIS_ADDR"); ok && v != "" {
		c.Redis.Addr = v
		c.Redis.Enabled = true
	}
	if v, ok := lookup("CORS_ORIGINS"); ok && v != "" {
		c.Server.CORSOrigins = splitList(v)
	}
	if v, ok := lookup("CONVERSION_ATTEMPTS"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return apperr.Wrap(apperr.ErrCodeInvalidInput, err, "CONVERSION_ATTEMPTS")
		}
		c.Conversion.Attempts = n
	}
	return nil
}

// Validate checks settings the server cannot start without.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return invalid("server.addr is required")
	}
	switch c.Storage.Backend {
	case BackendLocal:
		if c.Storage.LocalDir == "" {
			return invalid("storage.local_dir is required for the local backend")
		}
	case BackendMongo:
		if c.Mongo.URI == "" || c.Mongo.Database == "" {
			return invalid("mongo.uri and mongo.database are required for the mongo backend")
		}
	default:
		return invalid("storage.backend must be %q or %q, got %q", BackendMongo, BackendLocal, c.Storage.Backend)
	}
	if c.Redis.Enabled && c.Redis.Addr == "" {
		return invalid("redis.addr is required when redis is enabled")
	}
	for name, q := range map[string]int{
		"render.memory_quality":  c.Render.MemoryQuality,
		"render.collage_quality": c.Render.CollageQuality,
		"render.story_quality":   c.Render.StoryQuality,
	} {
		if q < 1 || q > 100 {
			return invalid("%s must be between 1 and 100, got %d", name, q)
		}
	}
	if c.Render.MaxImagePixels < 0 {
		return invalid("render.max_image_px cannot be negative")
	}
	if c.Conversion.Attempts < 0 {
		return invalid("conversion.attempts cannot be negative")
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		return invalid("log.format must be text or json, got %q", c.Log.Format)
	}
	return nil
}

func invalid(format string, args ...any) error {
	return apperr.New(apperr.ErrCodeInvalidInput, format, args...)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
