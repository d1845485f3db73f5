package main

import (
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/reoring/classdict/i18n"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	xdgbasedir "github.com/zchee/go-xdgbasedir"
)

const appName = "classdict"

var envKeyReplacer = strings.NewReplacer("-", "_")

// config is the merged view of the config file, CLASSDICT_* variables and
// flags.
type config struct {
	Schema   string `mapstructure:"schema"`
	Verbose  bool   `mapstructure:"verbose"`
	LogLevel string `mapstructure:"log-level"`
	Lang     string `mapstructure:"lang"`
	NoColor  bool   `mapstructure:"no-color"`
	MaxBytes int64  `mapstructure:"max-bytes"`
	MaxDepth int    `mapstructure:"max-depth"`
}

// defaultConfigPath is $XDG_CONFIG_HOME/classdict/config.yaml.
func defaultConfigPath() string {
	return filepath.Join(xdgbasedir.ConfigHome(), appName, "config.yaml")
}

// loadConfig merges the config file at path (optional when it is the default
// location), the environment and the bound flags.
func loadConfig(v *viper.Viper, path string, flags *pflag.FlagSet) (*config, error) {
	v.SetEnvPrefix("CLASSDICT")
	v.SetEnvKeyReplacer(envKeyReplacer)
	v.AutomaticEnv()
	v.SetDefault("log-level", "info")
	v.SetDefault("lang", "en")
	v.SetDefault("max-bytes", 32<<20)
	if err := v.BindPFlags(flags); err != nil {
		return nil, errors.Wrap(err, "failed to bind flags")
	}

	explicit := path != ""
	if !explicit {
		path = defaultConfigPath()
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		if explicit || !isNotExist(err) {
			return nil, errors.Wrapf(err, "failed to read config %s", path)
		}
	}

	var cfg config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to decode config")
	}
	return &cfg, nil
}

// globals wires the flags shared by every sub-command and keeps the merged
// configuration once the command starts.
type globals struct {
	configPath string
	cfg        *config
}

func newRootCommand() *cobra.Command {
	g := &globals{}
	cmd := &cobra.Command{
		Use:   appName,
		Short: "validate and convert documents with classdict schema types",
		Long: `classdict loads schema types from a declaration file and checks, converts,
describes or interactively builds objects of those types.`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(viper.New(), g.configPath, cmd.Flags())
			if err != nil {
				return err
			}
			g.cfg = cfg
			initLogging(cfg.LogLevel, cfg.Verbose)
			i18n.SetLanguage(cfg.Lang)
			if cfg.NoColor {
				color.NoColor = true
			}
			log.Debugf("config loaded: %+v", *cfg)
			return nil
		},
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	f := cmd.PersistentFlags()
	f.StringVar(&g.configPath, "config", "", "config file (default "+defaultConfigPath()+")")
	f.String("schema", "", "schema declaration file (YAML or JSON)")
	f.Bool("verbose", false, "enable library debug logging")
	f.String("log-level", "info", "log level of the command itself")
	f.String("lang", "en", `message language, one of "en" or "ja"`)
	f.Bool("no-color", false, "disable colored output")
	f.Int64("max-bytes", 32<<20, "reject documents larger than this many bytes (0 disables)")
	f.Int("max-depth", 0, "reject documents nested deeper than this (0 disables)")

	cmd.AddCommand(
		newCheckCommand(g),
		newRoundtripCommand(g),
		newDescribeCommand(g),
		newPromptCommand(g, surveyPrompter{}),
	)
	return cmd
}

func isNotExist(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist)
}
