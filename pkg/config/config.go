// Package config loads the lama configuration file.
//
// The file is YAML by default and JSON when its extension is ".json". Every
// section is optional; absent keys keep their defaults.
//
//	solver:
//	  executable: /opt/ccx/bin/ccx
//	  search_paths: [/opt/ccx/bin/ccx]
//	  extensions: [.inp]
//	  timeout: 30m
//	tolerances:
//	  reciprocity: 1e-6
//	library:
//	  path: materials.yaml
//	store:
//	  backend: redis
//	  redis:
//	    addr: localhost:6379
//	server:
//	  addr: ":8080"
//	log:
//	  level: debug
//	  format: json
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aretw0/lama/pkg/material"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// DefaultFile is read when no explicit path is given.
const DefaultFile = "lama.yaml"

// Store backends.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendFile   = "file"
)

// Config is the whole configuration file.
type Config struct {
	Solver     SolverConfig     `yaml:"solver" json:"solver"`
	Tolerances material.Options `yaml:"tolerances" json:"tolerances"`
	Library    LibraryConfig    `yaml:"library" json:"library"`
	Store      StoreConfig      `yaml:"store" json:"store"`
	Server     ServerConfig     `yaml:"server" json:"server"`
	Log        LogConfig        `yaml:"log" json:"log"`
}

// SolverConfig controls discovery and execution of the external solver.
type SolverConfig struct {
	// Executable skips discovery when set.
	Executable  string        `yaml:"executable" json:"executable"`
	SearchPaths []string      `yaml:"search_paths" json:"search_paths"`
	Extensions  []string      `yaml:"extensions" json:"extensions"`
	Timeout     time.Duration `yaml:"timeout" json:"timeout"`
	WorkingDir  string        `yaml:"working_dir" json:"working_dir"`
}

// LibraryConfig points at the material library file.
type LibraryConfig struct {
	Path string `yaml:"path" json:"path"`
}

// StoreConfig selects the MaterialStore backend.
type StoreConfig struct {
	Backend string      `yaml:"backend" json:"backend"`
	Redis   RedisConfig `yaml:"redis" json:"redis"`
	// Dir is the record directory of the file backend.
	Dir     string      `yaml:"dir" json:"dir"`
}

// RedisConfig holds the connection settings of the redis backend.
type RedisConfig struct {
	Addr     string        `yaml:"addr" json:"addr"`
	Password string        `yaml:"password" json:"password"`
	DB       int           `yaml:"db" json:"db"`
	Prefix   string        `yaml:"prefix" json:"prefix"`
	TTL      time.Duration `yaml:"ttl" json:"ttl"`
}

// ServerConfig configures `lama serve`.
type ServerConfig struct {
	Addr string `yaml:"addr" json:"addr"`
}

// LogConfig configures the process logger.
type LogConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Solver: SolverConfig{
			Extensions: []string{".inp"},
		},
		Tolerances: material.DefaultOptions(),
		Store: StoreConfig{
			Backend: BackendMemory,
			Redis: RedisConfig{
				Addr:   "localhost:6379",
				Prefix: "lama:material:",
			},
			Dir: ".lama/materials",
		},
		Server: ServerConfig{Addr: ":8080"},
		Log:    LogConfig{Level: "info", Format: "text"},
	}
}

// Load reads the configuration at path. An empty path means DefaultFile, and
// a missing default file yields Default(). A missing explicit path is an
// error.
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}

	cfg, err := Parse(data, strings.ToLower(filepath.Ext(path)) == ".json")
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML (or JSON when asJSON is set) over the defaults and
// validates the result.
func Parse(data []byte, asJSON bool) (Config, error) {
	raw := map[string]any{}
	if asJSON {
		if err := json.Unmarshal(data, &raw); err != nil {
			return Config{}, fmt.Errorf("failed to parse json config: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return Config{}, fmt.Errorf("failed to parse yaml config: %w", err)
		}
	}

	cfg := Default()
	cfg.Solver.Extensions = nil

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "yaml",
		Result:           &cfg,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
	})
	if err != nil {
		return Config{}, err
	}
	if err := dec.Decode(raw); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	if len(cfg.Solver.Extensions) == 0 {
		cfg.Solver.Extensions = Default().Solver.Extensions
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports settings that cannot work.
func (c Config) Validate() error {
	var errs []error
	switch c.Store.Backend {
	case BackendMemory, BackendRedis, BackendFile:
	default:
		errs = append(errs, fmt.Errorf("store.backend: unknown backend %q (want %s, %s or %s)", c.Store.Backend, BackendMemory, BackendRedis, BackendFile))
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format: unknown format %q", c.Log.Format))
	}
	for _, ext := range c.Solver.Extensions {
		if !strings.HasPrefix(ext, ".") {
			errs = append(errs, fmt.Errorf("solver.extensions: %q must start with a dot", ext))
		}
	}
	if c.Solver.Timeout < 0 {
		errs = append(errs, fmt.Errorf("solver.timeout: must not be negative"))
	}
	if c.Tolerances.SymmetryTolerance < 0 || c.Tolerances.ReciprocityTolerance < 0 || c.Tolerances.MaxConditionNumber < 0 {
		errs = append(errs, fmt.Errorf("tolerances: must not be negative"))
	}
	return errors.Join(errs...)
}
