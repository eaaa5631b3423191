// Package config reads runtime settings for the client and the dev server.
package config

import (
	"errors"
	"flag"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/text/language"
)

const (
	defaultAPIURL     = "http://localhost:8080"
	defaultTimeout    = 10 * time.Second
	defaultLanguage   = "en"
	defaultLogLevel   = "info"
	defaultListenAddr = ":8080"
	defaultGameTTL    = time.Hour

	envAPIURL       = "LANGMAN_API_URL"
	envTimeout      = "LANGMAN_TIMEOUT"
	envLanguage     = "LANGMAN_LANGUAGE"
	envLogLevel     = "LANGMAN_LOG_LEVEL"
	envLogDev       = "LANGMAN_LOG_DEV"
	envListenAddr   = "LANGMAN_LISTEN_ADDR"
	envGameTokenTTL = "LANGMAN_GAME_TOKEN_TTL"
	envSigningKey   = "LANGMAN_SIGNING_KEY"
)

type Config struct {
	APIURL   string
	Timeout  time.Duration
	Language string
	LogLevel string
	LogDev   bool

	// Dev server only.
	ListenAddr   string
	GameTokenTTL time.Duration
	SigningKey   string
}

func Defaults() Config {
	return Config{
		APIURL:       defaultAPIURL,
		Timeout:      defaultTimeout,
		Language:     defaultLanguage,
		LogLevel:     defaultLogLevel,
		ListenAddr:   defaultListenAddr,
		GameTokenTTL: defaultGameTTL,
	}
}

// Load reads the given dotenv files (missing ones are skipped) and then the
// environment. Variables already set in the environment win over the files.
func Load(files ...string) (Config, error) {
	for _, f := range files {
		if _, err := os.Stat(f); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return Config{}, fmt.Errorf("config: load %s: %w", f, err)
		}
	}
	return FromEnv()
}

// FromEnv constructs a Config from LANGMAN_* variables on top of Defaults.
// All malformed values are reported together.
func FromEnv() (Config, error) {
	cfg := Defaults()
	var errs error

	if v := env(envAPIURL); v != "" {
		cfg.APIURL = strings.TrimRight(v, "/")
	}
	if v := env(envTimeout); v != "" {
		d, err := time.ParseDuration(v)
		errs = multierr.Append(errs, wrap(envTimeout, err))
		cfg.Timeout = d
	}
	if v := env(envLanguage); v != "" {
		cfg.Language = v
	}
	if v := env(envLogLevel); v != "" {
		cfg.LogLevel = v
	}
	if v := env(envLogDev); v != "" {
		b, err := strconv.ParseBool(v)
		errs = multierr.Append(errs, wrap(envLogDev, err))
		cfg.LogDev = b
	}
	if v := env(envListenAddr); v != "" {
		cfg.ListenAddr = v
	}
	if v := env(envGameTokenTTL); v != "" {
		d, err := time.ParseDuration(v)
		errs = multierr.Append(errs, wrap(envGameTokenTTL, err))
		cfg.GameTokenTTL = d
	}
	cfg.SigningKey = env(envSigningKey)

	if errs != nil {
		return Config{}, errs
	}
	return cfg, nil
}

// BindFlags registers flags that override c when fs is parsed.
func (c *Config) BindFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.APIURL, "api", c.APIURL, "game server base URL")
	fs.DurationVar(&c.Timeout, "timeout", c.Timeout, "per-request timeout")
	fs.StringVar(&c.Language, "lang", c.Language, "default game language")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "log level (debug, info, warn, error)")
	fs.BoolVar(&c.LogDev, "log-dev", c.LogDev, "human-readable development logging")
	fs.StringVar(&c.ListenAddr, "listen", c.ListenAddr, "dev server listen address")
	fs.DurationVar(&c.GameTokenTTL, "game-token-ttl", c.GameTokenTTL, "dev server game token lifetime")
}

// Validate ensures the configuration is usable.
func (c Config) Validate() error {
	var errs error
	u, err := url.Parse(c.APIURL)
	switch {
	case err != nil:
		errs = multierr.Append(errs, fmt.Errorf("config: api url: %w", err))
	case u.Scheme != "http" && u.Scheme != "https", u.Host == "":
		errs = multierr.Append(errs, fmt.Errorf("config: api url %q must be an absolute http(s) URL", c.APIURL))
	}
	if c.Timeout <= 0 {
		errs = multierr.Append(errs, fmt.Errorf("config: timeout must be positive, got %s", c.Timeout))
	}
	if _, err := language.Parse(c.Language); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("config: language %q: %w", c.Language, err))
	}
	if _, err := zap.ParseAtomicLevel(c.LogLevel); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("config: log level: %w", err))
	}
	if strings.TrimSpace(c.ListenAddr) == "" {
		errs = multierr.Append(errs, errors.New("config: listen address is required"))
	}
	if c.GameTokenTTL <= 0 {
		errs = multierr.Append(errs, fmt.Errorf("config: game token ttl must be positive, got %s", c.GameTokenTTL))
	}
	return errs
}

func env(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func wrap(key string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("config: %s: %w", key, err)
}
