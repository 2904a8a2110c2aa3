// Package config loads runtime settings from defaults, an optional TOML file,
// RENUMBER_* environment variables and command-line flags, in that order of
// increasing precedence.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	rerrors "renumber/pkg/errors"
	"renumber/pkg/logging"
	"renumber/pkg/report"
)

// EnvPrefix is the prefix of environment variables read by Load.
const EnvPrefix = "RENUMBER_"

// AppName names the XDG config subdirectory.
const AppName = "renumber"

// DefaultSkipFiles lists OS metadata files that are never renumbered.
var DefaultSkipFiles = []string{".DS_Store", "Thumbs.db"}

// Config holds runtime settings.
type Config struct {
	DryRun    bool     `koanf:"dry_run"`
	Verbose   int      `koanf:"verbose"`
	Format    string   `koanf:"format"`
	SkipFiles []string `koanf:"skip_files"`
	LogFile   string   `koanf:"log_file"`
	Color     string   `koanf:"color"`
}

// LoadOptions controls where Load looks for settings.
type LoadOptions struct {
	// Path is an explicit config file. It must exist when set.
	Path string
	// DefaultPath is read when Path is empty and the file exists.
	// Empty means the XDG location (see DefaultPath).
	DefaultPath string
	// Flags, when set, override everything else for flags the user changed.
	Flags *pflag.FlagSet
}

// DefaultPath returns $XDG_CONFIG_HOME/renumber/config.toml.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, AppName, "config.toml")
}

func defaults() map[string]any {
	return map[string]any{
		"dry_run":    false,
		"verbose":    0,
		"format":     string(report.FormatText),
		"skip_files": append([]string(nil), DefaultSkipFiles...),
		"log_file":   "",
		"color":      string(logging.ColorAuto),
	}
}

// Load builds a Config from all layers and validates it.
func Load(opts LoadOptions) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, rerrors.Wrap(err, rerrors.CodeConfig, "load defaults")
	}

	if err := loadFile(k, opts); err != nil {
		return nil, err
	}

	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil)
	if err != nil {
		return nil, rerrors.Wrap(err, rerrors.CodeConfig, "load environment")
	}

	var extraSkips []string
	if opts.Flags != nil {
		var err error
		if extraSkips, err = applyFlags(k, opts.Flags); err != nil {
			return nil, err
		}
	}

	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, rerrors.Wrap(err, rerrors.CodeConfig, "decode configuration")
	}
	cfg.SkipFiles = append(cfg.SkipFiles, extraSkips...)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func loadFile(k *koanf.Koanf, opts LoadOptions) error {
	path := opts.Path
	if path == "" {
		path = opts.DefaultPath
		if path == "" {
			path = DefaultPath()
		}
		if _, err := os.Stat(path); err != nil {
			return nil
		}
	}

	if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
		return rerrors.Wrapf(err, rerrors.CodeConfig, "load config file %s", path)
	}

	return nil
}

// applyFlags copies user-set flags into k. Names given with --skip are
// returned separately so they extend the configured skip list instead of
// replacing it.
func applyFlags(k *koanf.Koanf, fs *pflag.FlagSet) ([]string, error) {
	if fs.Changed("dry-run") {
		v, err := fs.GetBool("dry-run")
		if err != nil {
			return nil, rerrors.Wrap(err, rerrors.CodeConfig, "read --dry-run")
		}
		if err := setKey(k, "dry_run", v); err != nil {
			return nil, err
		}
	}

	if fs.Changed("verbose") {
		v, err := fs.GetCount("verbose")
		if err != nil {
			return nil, rerrors.Wrap(err, rerrors.CodeConfig, "read --verbose")
		}
		if err := setKey(k, "verbose", v); err != nil {
			return nil, err
		}
	}

	for flagName, key := range map[string]string{"format": "format", "log-file": "log_file", "color": "color"} {
		if !fs.Changed(flagName) {
			continue
		}
		v, err := fs.GetString(flagName)
		if err != nil {
			return nil, rerrors.Wrapf(err, rerrors.CodeConfig, "read --%s", flagName)
		}
		if err := setKey(k, key, v); err != nil {
			return nil, err
		}
	}

	if !fs.Changed("skip") {
		return nil, nil
	}

	extra, err := fs.GetStringSlice("skip")
	if err != nil {
		return nil, rerrors.Wrap(err, rerrors.CodeConfig, "read --skip")
	}

	return extra, nil
}

func setKey(k *koanf.Koanf, key string, value any) error {
	if err := k.Set(key, value); err != nil {
		return rerrors.Wrapf(err, rerrors.CodeConfig, "apply flag for %s", key)
	}
	return nil
}

// Validate checks enumerated and numeric settings.
func (c *Config) Validate() error {
	if c.Verbose < 0 {
		return rerrors.Newf(rerrors.CodeConfig, "verbose must be >= 0, got %d", c.Verbose)
	}

	if _, err := report.ParseFormat(c.Format); err != nil {
		return rerrors.Wrap(err, rerrors.CodeConfig, "invalid format")
	}

	switch logging.ColorMode(c.Color) {
	case logging.ColorAuto, logging.ColorAlways, logging.ColorNever:
	default:
		return rerrors.Newf(rerrors.CodeConfig, "color must be auto, always or never, got %q", c.Color)
	}

	return nil
}

// RegisterFlags adds the flags applyFlags understands to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.Bool("dry-run", false, "Show the rename plan without changing anything")
	fs.CountP("verbose", "v", "Increase log verbosity (repeatable)")
	fs.String("format", string(report.FormatText), "Plan output format for --dry-run: text, json, yaml or toml")
	fs.StringSlice("skip", nil, "Additional file names to ignore (repeatable)")
	fs.String("log-file", "", "Also write JSON logs to this file")
	fs.String("color", string(logging.ColorAuto), "Colour mode for logs and report: auto, always or never")
	fs.String("config", "", "Path to a TOML config file")
}
