package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	EnvPipelineScorerTimeout = "MAILTRIAGE_PIPELINE_SCORER_TIMEOUT"
	EnvDedupeBackend         = "MAILTRIAGE_DEDUPE_BACKEND"
	EnvDedupeRedisAddr       = "MAILTRIAGE_DEDUPE_REDIS_ADDR"
	EnvDedupeRedisPassword   = "MAILTRIAGE_DEDUPE_REDIS_PASSWORD"
	EnvDedupeRedisDB         = "MAILTRIAGE_DEDUPE_REDIS_DB"
	EnvDedupeRedisKey        = "MAILTRIAGE_DEDUPE_REDIS_KEY"
	EnvDedupeRedisTTL        = "MAILTRIAGE_DEDUPE_REDIS_TTL"
)

// Duplicate tracking backends.
const (
	DedupeMemory = "memory"
	DedupeRedis  = "redis"
)

// PipelineConfig holds triage pipeline settings: the scorer call timeout and
// the duplicate-hash backend.
type PipelineConfig struct {
	ScorerTimeout string       `toml:"scorer_timeout"`
	Dedupe        DedupeConfig `toml:"dedupe"`
}

// DedupeConfig selects and configures the duplicate-hash store. The memory
// backend keeps hashes in-process; redis shares them across instances.
type DedupeConfig struct {
	Backend       string `toml:"backend"`
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
	RedisKey      string `toml:"redis_key"`
	RedisTTL      string `toml:"redis_ttl"`
}

// ScorerTimeoutDuration returns ScorerTimeout as a time.Duration.
func (c *PipelineConfig) ScorerTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ScorerTimeout)
	return d
}

// RedisTTLDuration returns RedisTTL as a time.Duration. Zero disables expiry.
func (c *DedupeConfig) RedisTTLDuration() time.Duration {
	d, _ := time.ParseDuration(c.RedisTTL)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *PipelineConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *PipelineConfig) Merge(overlay *PipelineConfig) {
	if overlay.ScorerTimeout != "" {
		c.ScorerTimeout = overlay.ScorerTimeout
	}
	if overlay.Dedupe.Backend != "" {
		c.Dedupe.Backend = overlay.Dedupe.Backend
	}
	if overlay.Dedupe.RedisAddr != "" {
		c.Dedupe.RedisAddr = overlay.Dedupe.RedisAddr
	}
	if overlay.Dedupe.RedisPassword != "" {
		c.Dedupe.RedisPassword = overlay.Dedupe.RedisPassword
	}
	if overlay.Dedupe.RedisDB != 0 {
		c.Dedupe.RedisDB = overlay.Dedupe.RedisDB
	}
	if overlay.Dedupe.RedisKey != "" {
		c.Dedupe.RedisKey = overlay.Dedupe.RedisKey
	}
	if overlay.Dedupe.RedisTTL != "" {
		c.Dedupe.RedisTTL = overlay.Dedupe.RedisTTL
	}
}

func (c *PipelineConfig) loadDefaults() {
	if c.ScorerTimeout == "" {
		c.ScorerTimeout = "2m"
	}
	if c.Dedupe.Backend == "" {
		c.Dedupe.Backend = DedupeMemory
	}
	if c.Dedupe.RedisAddr == "" {
		c.Dedupe.RedisAddr = "localhost:6379"
	}
	if c.Dedupe.RedisKey == "" {
		c.Dedupe.RedisKey = "mailtriage:dedupe"
	}
	if c.Dedupe.RedisTTL == "" {
		c.Dedupe.RedisTTL = "0s"
	}
}

func (c *PipelineConfig) loadEnv() {
	if v := os.Getenv(EnvPipelineScorerTimeout); v != "" {
		c.ScorerTimeout = v
	}
	if v := os.Getenv(EnvDedupeBackend); v != "" {
		c.Dedupe.Backend = v
	}
	if v := os.Getenv(EnvDedupeRedisAddr); v != "" {
		c.Dedupe.RedisAddr = v
	}
	if v := os.Getenv(EnvDedupeRedisPassword); v != "" {
		c.Dedupe.RedisPassword = v
	}
	if v := os.Getenv(EnvDedupeRedisDB); v != "" {
		if db, err := strconv.Atoi(v); err == nil {
			c.Dedupe.RedisDB = db
		}
	}
	if v := os.Getenv(EnvDedupeRedisKey); v != "" {
		c.Dedupe.RedisKey = v
	}
	if v := os.Getenv(EnvDedupeRedisTTL); v != "" {
		c.Dedupe.RedisTTL = v
	}
}

func (c *PipelineConfig) validate() error {
	if _, err := time.ParseDuration(c.ScorerTimeout); err != nil {
		return fmt.Errorf("invalid scorer_timeout: %w", err)
	}
	if c.Dedupe.Backend != DedupeMemory && c.Dedupe.Backend != DedupeRedis {
		return fmt.Errorf("invalid dedupe backend: %s", c.Dedupe.Backend)
	}
	if _, err := time.ParseDuration(c.Dedupe.RedisTTL); err != nil {
		return fmt.Errorf("invalid dedupe redis_ttl: %w", err)
	}
	return nil
}
