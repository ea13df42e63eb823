// Package config resolves generator settings from a config file, the
// environment and command-line flags.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/roach88/bindgen/internal/codegen"
	"github.com/roach88/bindgen/internal/naming"
)

// EnvPrefix is prepended to every environment override, e.g. BINDGEN_NAMESPACE.
const EnvPrefix = "BINDGEN"

// DefaultName is the config file searched for when no path is given.
const DefaultName = "bindgen"

// Config holds generator settings.
type Config struct {
	Header      string `mapstructure:"header"`
	Namespace   string `mapstructure:"namespace"`
	CommandRule string `mapstructure:"command_rule"`
	EventRule   string `mapstructure:"event_rule"`
	ErrorsAsAny bool   `mapstructure:"errors_as_any"`
	Output      string `mapstructure:"output"`
	GlobalsFile string `mapstructure:"globals_file"`
}

// flagKeys maps config keys to the CLI flags that override them.
var flagKeys = map[string]string{
	"header":        "header",
	"namespace":     "namespace",
	"command_rule":  "command-rule",
	"event_rule":    "event-rule",
	"errors_as_any": "errors-as-any",
	"output":        "output",
	"globals_file":  "globals-file",
}

// LoadOptions tells Load where to look.
type LoadOptions struct {
	// File is an explicit config path. It must exist when set.
	File string
	// SearchDir is searched for bindgen.{yaml,toml,json} when File is empty.
	SearchDir string
	// Flags, when set, override file and env values for flags the user changed.
	Flags *pflag.FlagSet
}

// Load reads configuration from file, env and flags. Env var overrides use prefix BINDGEN_.
func Load(opts LoadOptions) (Config, error) {
	v := viper.New()

	defaults := codegen.DefaultOptions()
	v.SetDefault("header", defaults.Header)
	v.SetDefault("namespace", "")
	v.SetDefault("command_rule", string(naming.DefaultCommandRule))
	v.SetDefault("event_rule", string(naming.DefaultEventRule))
	v.SetDefault("errors_as_any", defaults.ErrorsAsAny)
	v.SetDefault("output", "")
	v.SetDefault("globals_file", "")

	if opts.File != "" {
		v.SetConfigFile(opts.File)
	} else {
		dir := opts.SearchDir
		if dir == "" {
			dir = "."
		}
		v.AddConfigPath(dir)
		v.SetConfigName(DefaultName)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if opts.File != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	if opts.Flags != nil {
		for key, name := range flagKeys {
			f := opts.Flags.Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return Config{}, fmt.Errorf("bind flag %s: %w", name, err)
			}
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

// Policy returns the naming policy described by c.
func (c Config) Policy() naming.Policy {
	return naming.Policy{
		Namespace:   c.Namespace,
		CommandRule: naming.Rule(c.CommandRule),
		EventRule:   naming.Rule(c.EventRule),
	}
}

// Options returns the code generation options described by c.
func (c Config) Options() codegen.Options {
	return codegen.Options{
		Header:      c.Header,
		Naming:      c.Policy(),
		ErrorsAsAny: c.ErrorsAsAny,
	}
}
