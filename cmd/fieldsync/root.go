package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/joeshaw/envdecode"
	"github.com/spf13/cobra"

	"github.com/reoring/fieldsync/i18n"
)

// Config holds settings read from the environment. Flags override it.
type Config struct {
	// Structure selects the adapter. ENV: FIELDSYNC_STRUCTURE
	Structure string `env:"FIELDSYNC_STRUCTURE,default=plain"`
	// LogLevel is debug, info, warn or error. ENV: FIELDSYNC_LOG_LEVEL
	LogLevel string `env:"FIELDSYNC_LOG_LEVEL,default=warn"`
	// FormPath locates the form subtree inside the state file. ENV: FIELDSYNC_FORM_PATH
	FormPath string `env:"FIELDSYNC_FORM_PATH"`
	// Lang selects error message language, en or ja. ENV: FIELDSYNC_LANG
	Lang string `env:"FIELDSYNC_LANG,default=en"`
	// Verbose forces debug logging. ENV: FIELDSYNC_VERBOSE
	Verbose bool `env:"FIELDSYNC_VERBOSE"`
}

var (
	// Global flags
	verbose       bool
	structureName string
	formPath      string
	logLevel      string
	lang          string

	cfg    Config
	logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	stdout io.Writer = os.Stdout
)

var rootCmd = &cobra.Command{
	Use:   "fieldsync",
	Short: "Inspect form-state snapshots",
	Long: `fieldsync projects field props out of a saved form-state tree the same way
a mounted field would, and lists the value paths it holds.`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup(cmd)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Shorthand for --log-level=debug")
	rootCmd.PersistentFlags().StringVar(&structureName, "structure", "", "Tree adapter: plain or immutable")
	rootCmd.PersistentFlags().StringVar(&formPath, "form", "", "Dotted path of the form subtree (default: root)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&lang, "lang", "", "Error message language: en or ja")
}

// loadConfig reads the environment, then applies any flags that were set.
func loadConfig(cmd *cobra.Command) (Config, error) {
	var c Config
	// Defaults come from the struct tags; an empty environment is fine.
	if err := envdecode.Decode(&c); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return Config{}, fmt.Errorf("failed to read environment: %w", err)
	}
	flags := cmd.Flags()
	if flags.Changed("structure") {
		c.Structure = structureName
	}
	if flags.Changed("form") {
		c.FormPath = formPath
	}
	if flags.Changed("log-level") {
		c.LogLevel = logLevel
	}
	if flags.Changed("lang") {
		c.Lang = lang
	}
	if flags.Changed("verbose") {
		c.Verbose = verbose
	}
	if c.Verbose {
		c.LogLevel = "debug"
	}
	return c, nil
}

func setup(cmd *cobra.Command) error {
	c, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	level, err := parseLevel(c.LogLevel)
	if err != nil {
		return err
	}
	cfg = c
	i18n.SetLanguage(c.Lang)
	logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	stdout = cmd.OutOrStdout()
	return nil
}

func parseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return l, nil
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
