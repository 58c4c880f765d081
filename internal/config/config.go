// Package config loads codetour-mcp settings from YAML with flag overrides.
//
// Precedence, lowest first: Default(), the file named by --config or
// CODETOUR_CONFIG, then command-line flags. Path fields accept ${VAR} and
// ${VAR:-default} references.
package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/petasbytes/codetour-mcp/internal/telemetry"
)

// EnvVar names the environment variable holding the config file path.
const EnvVar = "CODETOUR_CONFIG"

type Config struct {
	// Workspace is the root relative tour paths are resolved against.
	Workspace string `yaml:"workspace"`

	// ToursDir is where list_tours looks by default and where create_tour
	// puts title-derived tours, relative to the workspace.
	ToursDir string `yaml:"tours_dir"`

	Log LogConfig `yaml:"log"`

	Agent AgentConfig `yaml:"agent"`
}

type LogConfig struct {
	Level string `yaml:"level"`

	// EventsFile, when set, receives every log record as a JSON line.
	EventsFile string `yaml:"events_file"`
}

type AgentConfig struct {
	// Model is the Anthropic model ID; empty selects the provider default.
	Model string `yaml:"model"`

	MaxTokens int64 `yaml:"max_tokens"`

	// Conversation is where tour-agent persists the chat transcript.
	Conversation string `yaml:"conversation"`
}

func Default() *Config {
	return &Config{
		Workspace: ".",
		ToursDir:  ".tours",
		Log: LogConfig{
			Level: "info",
		},
		Agent: AgentConfig{
			MaxTokens:    1024,
			Conversation: ".agent/conversation.json",
		},
	}
}

// Load reads the file named by CODETOUR_CONFIG, or returns Default() when
// the variable is unset.
func Load() (*Config, error) {
	path := os.Getenv(EnvVar)
	if path == "" {
		cfg := Default()
		cfg.expandVariables()
		return cfg, nil
	}
	return LoadFile(path)
}

// LoadFile reads path over Default(). Keys absent from the file keep their defaults.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	cfg.expandVariables()
	return cfg, nil
}

func (c *Config) expandVariables() {
	vars := map[string]string{
		"HOME": os.Getenv("HOME"),
	}
	c.Workspace = expandVars(c.Workspace, vars)
	vars["WORKSPACE"] = c.Workspace

	c.ToursDir = expandVars(c.ToursDir, vars)
	c.Log.EventsFile = expandVars(c.Log.EventsFile, vars)
	c.Agent.Conversation = expandVars(c.Agent.Conversation, vars)
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// expandVars replaces ${NAME} and ${NAME:-default}. vars wins over the
// environment; unset names expand to the default, or "".
func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}
		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}
		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

func (c *Config) Validate() error {
	var errs []error

	if c.Workspace == "" {
		errs = append(errs, fmt.Errorf("workspace is required"))
	}
	if c.ToursDir == "" {
		errs = append(errs, fmt.Errorf("tours_dir is required"))
	}
	if _, err := telemetry.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level must be one of: debug, info, warn, error"))
	}
	if c.Agent.MaxTokens <= 0 {
		errs = append(errs, fmt.Errorf("agent.max_tokens must be positive, got %d", c.Agent.MaxTokens))
	}

	return errors.Join(errs...)
}

// Flags holds the command-line overrides registered by RegisterFlags.
type Flags struct {
	fs *pflag.FlagSet

	ConfigPath string
	Workspace  string
	ToursDir   string
	LogLevel   string
	EventsFile string
}

// RegisterFlags adds the shared flags to fs.
func RegisterFlags(fs *pflag.FlagSet) *Flags {
	f := &Flags{fs: fs}
	fs.StringVar(&f.ConfigPath, "config", "", "path to YAML config file (overrides $"+EnvVar+")")
	fs.StringVarP(&f.Workspace, "workspace", "w", "", "workspace root that relative tour paths resolve against")
	fs.StringVar(&f.ToursDir, "tours-dir", "", "tours directory relative to the workspace (default .tours)")
	fs.StringVar(&f.LogLevel, "log-level", "", "log level: debug, info, warn, error")
	fs.StringVar(&f.EventsFile, "events-file", "", "append JSON log records to this file")
	return f
}

// Resolve loads the configuration the flags point at and applies every flag
// that was set on the command line, then validates the result.
func (f *Flags) Resolve() (*Config, error) {
	var (
		cfg *Config
		err error
	)
	if f.ConfigPath != "" {
		cfg, err = LoadFile(f.ConfigPath)
	} else {
		cfg, err = Load()
	}
	if err != nil {
		return nil, err
	}

	if f.fs.Changed("workspace") {
		cfg.Workspace = f.Workspace
	}
	if f.fs.Changed("tours-dir") {
		cfg.ToursDir = f.ToursDir
	}
	if f.fs.Changed("log-level") {
		cfg.Log.Level = f.LogLevel
	}
	if f.fs.Changed("events-file") {
		cfg.Log.EventsFile = f.EventsFile
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}
