package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/cybergodev/jsontoken"
)

const (
	envPrefix      = "JSONTOK"
	configFileName = ".jsontok.yaml"
)

// app carries state shared by all subcommands
type app struct {
	v      *viper.Viper
	logger *zap.Logger
	level  zap.AtomicLevel
}

func newRootCommand(logger *zap.Logger, level zap.AtomicLevel) *cobra.Command {
	a := &app{v: viper.New(), logger: logger, level: level}

	cmd := &cobra.Command{
		Use:   "jsontok",
		Short: "Inspect JSON documents token by token",
		Long: heredoc.Doc(`
			jsontok tokenizes JSON input with a streaming parser and reports tokens,
			their locations and the values numeric tokens convert to.
		`),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.initConfig(cmd)
		},
	}

	flags := cmd.PersistentFlags()
	flags.String("config", "", "Config file (default is $HOME/"+configFileName+")")
	flags.String("preset", "default", "Parser preset: default, strict or lenient")
	flags.Int("max-depth", jsontoken.DefaultMaxNestingDepth, "Maximum nesting depth (0 disables the limit)")
	flags.Int("max-number-length", jsontoken.DefaultMaxNumberLength, "Maximum characters in a number (0 disables the limit)")
	flags.Int("max-string-length", jsontoken.DefaultMaxStringLength, "Maximum bytes in a string (0 disables the limit)")
	flags.String("buffer-size", humanize.IBytes(jsontoken.DefaultBufferSize), "Read buffer size, e.g. 4KiB")
	flags.Bool("allow-non-numeric", false, "Accept NaN and Infinity as numbers")
	flags.Bool("allow-trailing-comma", false, "Accept a trailing comma in arrays and objects")
	flags.BoolP("verbose", "v", false, "Enable debug logging")
	flags.Bool("no-color", false, "Disable colored output")

	cmd.AddCommand(
		newTokensCommand(a),
		newNumberCommand(a),
		newFmtCommand(a),
		newStatsCommand(a),
		newVersionCommand(),
	)
	return cmd
}

// initConfig binds flags, environment and the config file into the app's
// viper instance. Flags take precedence over JSONTOK_* variables, which take
// precedence over the file.
func (a *app) initConfig(cmd *cobra.Command) error {
	if err := bindFlags(a.v, cmd.Flags()); err != nil {
		return err
	}
	a.v.SetEnvPrefix(envPrefix)
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	path, err := a.loadConfigFile()
	if err != nil {
		return err
	}

	if a.v.GetBool("verbose") {
		a.level.SetLevel(zapcore.DebugLevel)
	}
	if a.v.GetBool("no-color") {
		color.NoColor = true
	}
	if path != "" {
		a.logger.Debug("loaded config file", zap.String("path", path))
	}
	return nil
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	var bindErr error
	flags.VisitAll(func(f *pflag.Flag) {
		if bindErr != nil {
			return
		}
		bindErr = v.BindPFlag(f.Name, f)
	})
	return bindErr
}

// loadConfigFile reads an explicit --config file, or the default file when
// it exists
func (a *app) loadConfigFile() (string, error) {
	cfgPath := strings.TrimSpace(a.v.GetString("config"))
	explicit := cfgPath != ""

	if cfgPath == "" {
		home, err := homedir.Dir()
		if err != nil {
			return "", nil
		}
		cfgPath = filepath.Join(home, configFileName)
	}

	expanded, err := homedir.Expand(cfgPath)
	if err != nil {
		return "", fmt.Errorf("expand config path %q: %w", cfgPath, err)
	}
	info, err := os.Stat(expanded)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return "", nil
		}
		return "", fmt.Errorf("config file %q: %w", expanded, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("config file %q is a directory", expanded)
	}

	a.v.SetConfigFile(expanded)
	a.v.SetConfigType("yaml")
	if err := a.v.ReadInConfig(); err != nil {
		return "", fmt.Errorf("read config file %q: %w", expanded, err)
	}
	return expanded, nil
}

// parserConfig builds the tokenizer configuration from the preset and any
// explicitly set overrides
func (a *app) parserConfig(stderr io.Writer) (*jsontoken.Config, error) {
	var cfg *jsontoken.Config
	switch preset := strings.ToLower(a.v.GetString("preset")); preset {
	case "", "default":
		cfg = jsontoken.DefaultConfig()
	case "strict":
		cfg = jsontoken.StrictConfig()
	case "lenient":
		cfg = jsontoken.LenientConfig()
	default:
		return nil, fmt.Errorf("unknown preset %q (expected default, strict or lenient)", preset)
	}

	if a.v.IsSet("max-depth") {
		cfg.MaxNestingDepth = a.v.GetInt("max-depth")
	}
	if a.v.IsSet("max-number-length") {
		cfg.MaxNumberLength = a.v.GetInt("max-number-length")
	}
	if a.v.IsSet("max-string-length") {
		cfg.MaxStringLength = a.v.GetInt("max-string-length")
	}
	if a.v.IsSet("buffer-size") {
		size, err := humanize.ParseBytes(a.v.GetString("buffer-size"))
		if err != nil {
			return nil, fmt.Errorf("invalid buffer-size: %w", err)
		}
		cfg.BufferSize = int(size)
	}
	if a.v.IsSet("allow-non-numeric") {
		cfg.AllowNonNumericNumbers = a.v.GetBool("allow-non-numeric")
	}
	if a.v.IsSet("allow-trailing-comma") {
		cfg.AllowTrailingComma = a.v.GetBool("allow-trailing-comma")
	}
	if a.v.GetBool("verbose") {
		cfg.Logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	if err := jsontoken.ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// openInput opens the named file, or stdin for "-" and no argument
func openInput(cmd *cobra.Command, args []string) (io.ReadCloser, string, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.NopCloser(cmd.InOrStdin()), "<stdin>", nil
	}
	f, err := os.Open(args[0])
	if err != nil {
		return nil, "", fmt.Errorf("failed to open input: %w", err)
	}
	return f, args[0], nil
}
