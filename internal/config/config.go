package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/spf13/viper"

	"fieldnotes/internal/model"
)

const (
	envPrefix      = "FIELDNOTES"
	configFileName = "config.yaml"
)

// Config is the user configuration. Values come from, in increasing precedence: defaults,
// the config file, FIELDNOTES_* environment variables, and command-line flags (applied by
// the caller).
type Config struct {
	Workspace WorkspaceConfig `mapstructure:"workspace"`
	Log       LogConfig       `mapstructure:"log"`
	Output    OutputConfig    `mapstructure:"output"`
	Citations CitationsConfig `mapstructure:"citations"`
	TUI       TUIConfig       `mapstructure:"tui"`
}

type WorkspaceConfig struct {
	// Dir is the .fieldnotes directory. Empty means discover from the working directory.
	Dir string `mapstructure:"dir"`
}

type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

type OutputConfig struct {
	Format string `mapstructure:"format"`
	Pretty bool   `mapstructure:"pretty"`
}

type CitationsConfig struct {
	Style string `mapstructure:"style"`
}

type TUIConfig struct {
	// MarkdownStyle is a glamour standard style name ("auto", "dark", "light", "notty").
	MarkdownStyle string `mapstructure:"markdown_style"`
}

// Dir returns $FIELDNOTES_CONFIG_DIR, or ~/.fieldnotes.
func Dir() (string, error) {
	if v := strings.TrimSpace(os.Getenv(envPrefix + "_CONFIG_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".fieldnotes"), nil
}

// Load reads configuration. An empty path uses config.yaml in Dir(); a missing default
// file is not an error, a missing explicit one is.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	bindEnvVars(v)

	explicit := strings.TrimSpace(path) != ""
	if !explicit {
		dir, err := Dir()
		if err != nil {
			return Config{}, err
		}
		path = filepath.Join(dir, configFileName)
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		if explicit || !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.Output.Format = strings.ToLower(strings.TrimSpace(cfg.Output.Format))
	cfg.Citations.Style = strings.ToLower(strings.TrimSpace(cfg.Citations.Style))
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("workspace.dir", "")
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.development", false)
	v.SetDefault("output.format", "json")
	v.SetDefault("output.pretty", false)
	v.SetDefault("citations.style", string(model.StyleAPA))
	v.SetDefault("tui.markdown_style", "auto")
}

// AutomaticEnv only applies to keys viper already knows; binding makes Unmarshal see them.
func bindEnvVars(v *viper.Viper) {
	for _, key := range []string{
		"workspace.dir",
		"log.level",
		"log.development",
		"output.format",
		"output.pretty",
		"citations.style",
		"tui.markdown_style",
	} {
		_ = v.BindEnv(key)
	}
}

func (c Config) Validate() error {
	styles := []any{}
	for _, s := range model.AllCitationStyles() {
		styles = append(styles, string(s))
	}
	return validation.Errors{
		"log.level":          validation.Validate(c.Log.Level, validation.In("debug", "info", "warn", "error")),
		"output.format":      validation.Validate(c.Output.Format, validation.In("json", "yaml", "yml")),
		"citations.style":    validation.Validate(c.Citations.Style, validation.In(styles...)),
		"tui.markdown_style": validation.Validate(c.TUI.MarkdownStyle, validation.In("auto", "dark", "light", "notty", "ascii", "pink", "dracula", "tokyo-night")),
	}.Filter()
}
