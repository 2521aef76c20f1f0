package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Config is the runtime configuration read from vcore.yaml or vcore.toml.
type Config struct {
	// Identical holds the default options of structural equality.
	Identical IdenticalConfig `yaml:"identical" toml:"identical"`

	// Coerce holds the default options of the coercion engine.
	Coerce CoerceConfig `yaml:"coerce" toml:"coerce"`

	// Access tunes access sites.
	Access AccessConfig `yaml:"access" toml:"access"`

	// LogLevel is one of debug, info, warn, error. Defaults to info.
	LogLevel string `yaml:"log_level,omitempty" toml:"log_level"`
}

// IdenticalConfig mirrors the seven flags of identical().
type IdenticalConfig struct {
	NumEq             bool `yaml:"num_eq" toml:"num_eq"`
	SingleNA          bool `yaml:"single_na" toml:"single_na"`
	AttribAsSet       bool `yaml:"attrib_as_set" toml:"attrib_as_set"`
	IgnoreBytecode    bool `yaml:"ignore_bytecode" toml:"ignore_bytecode"`
	IgnoreEnvironment bool `yaml:"ignore_environment" toml:"ignore_environment"`
	IgnoreSrcref      bool `yaml:"ignore_srcref" toml:"ignore_srcref"`
	ExtptrAsRef       bool `yaml:"extptr_as_ref" toml:"extptr_as_ref"`
}

// CoerceConfig holds the attribute and reuse flags of a coercion.
type CoerceConfig struct {
	PreserveNames      bool `yaml:"preserve_names" toml:"preserve_names"`
	PreserveDimensions bool `yaml:"preserve_dimensions" toml:"preserve_dimensions"`
	PreserveAttributes bool `yaml:"preserve_attributes" toml:"preserve_attributes"`
	AllowReuse         bool `yaml:"allow_reuse" toml:"allow_reuse"`
}

// AccessConfig tunes the inline caches of access sites.
type AccessConfig struct {
	// CacheLimit is how many specialised accessors a site keeps before it
	// switches to the generic path. Zero disables specialisation.
	CacheLimit int `yaml:"cache_limit" toml:"cache_limit"`
}

// Default returns the configuration used when no file is present. The
// identical defaults are those of the language's identical().
func Default() Config {
	return Config{
		Identical: IdenticalConfig{
			NumEq:          true,
			SingleNA:       true,
			AttribAsSet:    true,
			IgnoreBytecode: true,
			IgnoreSrcref:   true,
		},
		Access:   AccessConfig{CacheLimit: DefaultAccessCacheLimit},
		LogLevel: "info",
	}
}

// LoadConfig reads and parses a configuration file. The format follows the
// file extension.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	return ParseConfig(data, path)
}

// ParseConfig parses configuration content. Keys absent from the file keep
// their defaults; unknown keys are an error. The path selects the format and
// is used in error messages.
func ParseConfig(data []byte, path string) (*Config, error) {
	cfg := Default()
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		md, err := toml.Decode(string(data), &cfg)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			sort.Strings(keys)
			return nil, fmt.Errorf("parsing %s: unknown keys %s", path, strings.Join(keys, ", "))
		}
	} else {
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	}
	if err := cfg.validate(path); err != nil {
		return nil, err
	}
	cfg.setDefaults()
	return &cfg, nil
}

// FindConfig searches for a configuration file starting from dir and
// walking up to parent directories. It returns "" and a nil error when
// there is none.
func FindConfig(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving directory: %w", err)
	}

	for {
		for _, name := range ConfigFileNames {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

var logLevels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// validate checks the configuration for semantic errors.
func (c *Config) validate(path string) error {
	if c.Access.CacheLimit < 0 || c.Access.CacheLimit > MaxAccessCacheLimit {
		return fmt.Errorf("%s: access.cache_limit %d is outside 0..%d", path, c.Access.CacheLimit, MaxAccessCacheLimit)
	}
	if c.LogLevel != "" {
		if _, ok := logLevels[strings.ToLower(c.LogLevel)]; !ok {
			return fmt.Errorf("%s: unknown log_level %q", path, c.LogLevel)
		}
	}
	return nil
}

// setDefaults fills in default values for omitted fields.
func (c *Config) setDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	c.LogLevel = strings.ToLower(c.LogLevel)
}

// SlogLevel returns the configured level for log/slog.
func (c *Config) SlogLevel() slog.Level {
	return ParseLogLevel(c.LogLevel)
}

// ParseLogLevel maps a level name to its slog level, defaulting to info.
func ParseLogLevel(name string) slog.Level {
	if l, ok := logLevels[strings.ToLower(name)]; ok {
		return l
	}
	return slog.LevelInfo
}

// ValidLogLevel reports whether name is a known level.
func ValidLogLevel(name string) bool {
	_, ok := logLevels[strings.ToLower(name)]
	return ok
}
