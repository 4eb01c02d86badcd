package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Config describes the handler chain: an ordered list of rules, each of
// which compiles into one handler. Order is dispatch order.
type Config struct {
	// Handlers lists the chain's rules in dispatch order.
	Handlers []Rule `yaml:"handlers"`
}

// Rule declares a single handler.
type Rule struct {
	// Name identifies the handler. Names must be unique within a config.
	Name string `yaml:"name"`

	// Match selects which requests the handler claims. An empty match
	// claims every request.
	Match MatchSpec `yaml:"match,omitempty"`

	// Forward, when set, makes the handler POST matched requests to this
	// URL instead of servicing them locally.
	Forward string `yaml:"forward,omitempty"`
}

// MatchSpec holds at most one match form.
type MatchSpec struct {
	// Tags matches requests whose tag is one of these values.
	Tags []string `yaml:"tags,omitempty"`

	// Pattern matches request tags against a regular expression.
	Pattern string `yaml:"pattern,omitempty"`

	// Schema matches requests whose JSON payload validates against this
	// JSON Schema.
	Schema map[string]any `yaml:"schema,omitempty"`
}

// forms counts how many match forms are set.
func (m MatchSpec) forms() int {
	n := 0
	if len(m.Tags) > 0 {
		n++
	}
	if m.Pattern != "" {
		n++
	}
	if m.Schema != nil {
		n++
	}
	return n
}

// DefaultConfig returns an empty chain: every request goes unhandled.
func DefaultConfig() *Config {
	return &Config{Handlers: []Rule{}}
}

// LoadFile loads configuration from a file. A missing file yields the
// default configuration.
func LoadFile(path string) (*Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("error opening config file: %w", err)
	}
	defer f.Close()

	return Load(f)
}

// Load loads and validates configuration from an io.Reader.
func Load(r io.Reader) (*Config, error) {
	config := DefaultConfig()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("error reading config data: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("error parsing config YAML: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks structural invariants: nonempty unique names, at most one
// match form per rule, and compilable patterns. Schema resolution is left
// to the component that compiles rules into handlers.
func (c *Config) Validate() error {
	seen := make(map[string]struct{}, len(c.Handlers))
	for i, rule := range c.Handlers {
		if rule.Name == "" {
			return fmt.Errorf("handler %d: name is required", i)
		}
		if _, dup := seen[rule.Name]; dup {
			return fmt.Errorf("handler %q: duplicate name", rule.Name)
		}
		seen[rule.Name] = struct{}{}

		if rule.Match.forms() > 1 {
			return fmt.Errorf("handler %q: at most one of tags, pattern, schema may be set", rule.Name)
		}
		if rule.Match.Pattern != "" {
			if _, err := regexp.Compile(rule.Match.Pattern); err != nil {
				return fmt.Errorf("handler %q: invalid pattern: %w", rule.Name, err)
			}
		}
	}
	return nil
}

// Save writes the configuration to a file
func (c *Config) Save(path string) error {
	// Create parent directories if they don't exist
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}
