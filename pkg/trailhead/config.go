package trailhead

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/BrandonKowalski/trailhead/pkg/trailhead/constants"
	"github.com/BrandonKowalski/trailhead/pkg/trailhead/router"
)

// Config is the file-level router configuration.
//
//	mode = "sync"
//	fallback = "static"
//	fallback_url = "https://example.com/start"
//	log_level = "debug"
//	log_path = "/var/log/app/trailhead.log"
type Config struct {
	Mode        string `toml:"mode"`         // "async" (default) or "sync"
	Fallback    string `toml:"fallback"`     // "none" (default) or "static"
	FallbackURL string `toml:"fallback_url"` // Ambient URL for the static fallback
	LogLevel    string `toml:"log_level"`    // Internal log level; TRAILHEAD_LOG_LEVEL wins
	LogPath     string `toml:"log_path"`     // Log file; TRAILHEAD_LOG_PATH wins
}

// LoadConfig reads a TOML config file. Unknown keys are rejected.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, NewConfigError("read", err)
	}
	if err := checkUndecoded(md); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ParseConfig reads a TOML config from a string.
func ParseConfig(data string) (Config, error) {
	var cfg Config
	md, err := toml.Decode(data, &cfg)
	if err != nil {
		return Config{}, NewConfigError("parse", err)
	}
	if err := checkUndecoded(md); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func checkUndecoded(md toml.MetaData) error {
	undecoded := md.Undecoded()
	if len(undecoded) == 0 {
		return nil
	}
	keys := make([]string, len(undecoded))
	for i, k := range undecoded {
		keys[i] = k.String()
	}
	sort.Strings(keys)
	return NewConfigError("keys", fmt.Errorf("unknown keys: %s", strings.Join(keys, ", ")))
}

// Options converts the config into router options. Logger is left unset.
func (c Config) Options() (router.Options, error) {
	var opts router.Options

	switch strings.ToLower(strings.TrimSpace(c.Mode)) {
	case "", "async":
		opts.Mode = router.ModeAsync
	case "sync":
		opts.Mode = router.ModeSync
	default:
		return router.Options{}, NewConfigError("mode", fmt.Errorf("%w: %q", ErrInvalidMode, c.Mode))
	}

	switch strings.ToLower(strings.TrimSpace(c.Fallback)) {
	case "", "none":
		opts.Fallback = router.FallbackNone
	case "static":
		opts.Fallback = router.FallbackStatic
		opts.FallbackURL = c.FallbackURL
	default:
		return router.Options{}, NewConfigError("fallback", fmt.Errorf("%w: %q", ErrInvalidFallback, c.Fallback))
	}

	return opts, nil
}

func (c Config) withEnv() Config {
	if level := os.Getenv(constants.LogLevelEnvVar); level != "" {
		c.LogLevel = level
	}
	if path := os.Getenv(constants.LogPathEnvVar); path != "" {
		c.LogPath = path
	}
	return c
}
