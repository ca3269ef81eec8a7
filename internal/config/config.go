package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-json-experiment/json"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/tsgonest/swagts/internal/endpoint"
	"github.com/tsgonest/swagts/internal/typegen"
)

// FileNames lists the config file names Discover looks for, in order.
var FileNames = []string{
	"swagts.config.json",
	"swagts.config.yaml",
	"swagts.config.yml",
	"swagts.config.toml",
}

// Config represents the swagts configuration.
type Config struct {
	// Input lists the OpenAPI documents to generate from (JSON or YAML).
	Input []string `json:"input" yaml:"input" toml:"input"`

	// Output is the directory the TypeScript files are written to. With
	// several inputs each gets a subdirectory named after its file.
	Output        string `json:"output" yaml:"output" toml:"output"`
	TypesFile     string `json:"typesFile,omitempty" yaml:"typesFile,omitempty" toml:"typesFile,omitempty"`
	EndpointsFile string `json:"endpointsFile,omitempty" yaml:"endpointsFile,omitempty" toml:"endpointsFile,omitempty"`

	// TypeMap maps OpenAPI primitive type names to TypeScript types. Entries
	// are merged over typegen.DefaultTypeMap.
	TypeMap   map[string]string `json:"typeMap,omitempty" yaml:"typeMap,omitempty" toml:"typeMap,omitempty"`
	Overrides OverridesConfig   `json:"overrides,omitempty" yaml:"overrides,omitempty" toml:"overrides,omitempty"`

	PrefixSegments int  `json:"prefixSegments" yaml:"prefixSegments" toml:"prefixSegments"`
	PropLineBreak  int  `json:"propLineBreak" yaml:"propLineBreak" toml:"propLineBreak"` // 0 keeps objects on one line
	FailFast       bool `json:"failFast,omitempty" yaml:"failFast,omitempty" toml:"failFast,omitempty"`
	Strict         bool `json:"strict,omitempty" yaml:"strict,omitempty" toml:"strict,omitempty"`

	LogLevel    string `json:"logLevel,omitempty" yaml:"logLevel,omitempty" toml:"logLevel,omitempty"`
	LogFormat   string `json:"logFormat,omitempty" yaml:"logFormat,omitempty" toml:"logFormat,omitempty"` // "text" or "json"
	Concurrency int    `json:"concurrency,omitempty" yaml:"concurrency,omitempty" toml:"concurrency,omitempty"`
}

// OverridesConfig holds type overrides. Paths keys are dotted structural
// paths ("User.address.city", "getUsers.query.limit") and win over Fields.
type OverridesConfig struct {
	Fields map[string]string `json:"fields,omitempty" yaml:"fields,omitempty" toml:"fields,omitempty"`
	Paths  map[string]string `json:"paths,omitempty" yaml:"paths,omitempty" toml:"paths,omitempty"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Output:         "src/api",
		TypesFile:      "types.ts",
		EndpointsFile:  "endpoints.ts",
		PrefixSegments: 0,
		PropLineBreak:  typegen.DefaultOptions().PropLineBreak,
		LogLevel:       "info",
		LogFormat:      "text",
		Concurrency:    4,
	}
}

// Load reads and parses a swagts config file. The format follows the file
// extension: .json, .yaml, .yml or .toml.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
	}

	config := DefaultConfig()
	if err := decode(filepath.Ext(path), data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file %q: %w", path, err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config in %q: %w", path, err)
	}

	return &config, nil
}

func decode(ext string, data []byte, config *Config) error {
	switch strings.ToLower(ext) {
	case ".json":
		return json.Unmarshal(data, config, json.RejectUnknownMembers(true))
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(config); err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		return nil
	case ".toml":
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		return dec.Decode(config)
	default:
		return fmt.Errorf("unsupported config format %q", ext)
	}
}

// Discover returns the first config file of FileNames present in dir, or "".
func Discover(dir string) string {
	for _, name := range FileNames {
		p := filepath.Join(dir, name)
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p
		}
	}
	return ""
}

// Validate checks the config for logical errors.
func (c *Config) Validate() error {
	if c.PrefixSegments < 0 {
		return fmt.Errorf("prefixSegments must not be negative, got %d", c.PrefixSegments)
	}
	if c.PropLineBreak < 0 {
		return fmt.Errorf("propLineBreak must not be negative, got %d", c.PropLineBreak)
	}
	if c.Concurrency < 0 {
		return fmt.Errorf("concurrency must not be negative, got %d", c.Concurrency)
	}
	for _, f := range []struct{ key, name string }{
		{"typesFile", c.TypesFile},
		{"endpointsFile", c.EndpointsFile},
	} {
		if f.name != "" && filepath.Ext(f.name) != ".ts" {
			return fmt.Errorf("%s must have a .ts extension, got %q", f.key, f.name)
		}
	}
	if c.TypesFile != "" && c.TypesFile == c.EndpointsFile {
		return fmt.Errorf("typesFile and endpointsFile must differ, both are %q", c.TypesFile)
	}
	return nil
}

// Types returns the type map: the defaults with the configured entries
// applied on top. Blank entries are dropped so the kind falls back to the
// wildcard.
func (c *Config) Types() typegen.TypeMap {
	m := typegen.DefaultTypeMap()
	for k, v := range c.TypeMap {
		if strings.TrimSpace(v) == "" {
			delete(m, k)
			continue
		}
		m[k] = v
	}
	return m
}

// TypeOverrides returns the configured overrides.
func (c *Config) TypeOverrides() typegen.Overrides {
	return typegen.Overrides{Fields: c.Overrides.Fields, Paths: c.Overrides.Paths}
}

// EngineOptions returns the rendering options.
func (c *Config) EngineOptions() typegen.Options {
	return typegen.Options{PropLineBreak: c.PropLineBreak}
}

// CollectOptions returns the endpoint collection options.
func (c *Config) CollectOptions() endpoint.Options {
	return endpoint.Options{PrefixSegments: c.PrefixSegments, FailFast: c.FailFast}
}

// Engine builds a type engine from the config.
func (c *Config) Engine() *typegen.Engine {
	return typegen.NewEngine(c.Types(), c.TypeOverrides(), c.EngineOptions())
}

// OutputPaths returns the types and endpoints file paths under dir. Empty
// names fall back to the defaults.
func (c *Config) OutputPaths(dir string) (types, endpoints string) {
	def := DefaultConfig()
	tf, ef := c.TypesFile, c.EndpointsFile
	if tf == "" {
		tf = def.TypesFile
	}
	if ef == "" {
		ef = def.EndpointsFile
	}
	return filepath.Join(dir, tf), filepath.Join(dir, ef)
}
