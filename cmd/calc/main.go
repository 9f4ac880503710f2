package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"go-calculator/internal/config"
)

var (
	// Global flags
	configPath string
	locale     string
	verbose    bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "calc",
	Short: "A keypad calculator for the terminal and over HTTP",
	Long: `calc is a four-function keypad calculator.

Run without arguments for the terminal keypad (keyboard and mouse),
replay a key script with "calc eval", or serve sessions over HTTP
and websockets with "calc serve".`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runKeypad,
}

var evalCmd = &cobra.Command{
	Use:   "eval SCRIPT",
	Short: "Replay a key script and print the display",
	Long: `Feeds every key of SCRIPT to the calculator and prints the display.
Named keys are written in angle brackets.

Example:
  calc eval '12+3*4<enter>'
  calc eval '9<bs>8<esc>7'`,
	Args: cobra.ExactArgs(1),
	RunE: runEval,
}

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Show the key bindings",
	Args:  cobra.NoArgs,
	RunE:  runKeys,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve calculator sessions over HTTP",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: $CALC_CONFIG or calc.yaml)")
	rootCmd.PersistentFlags().StringVarP(&locale, "locale", "l", "", "Locale for digit grouping, e.g. en-US or de-DE")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.Flags().BoolVar(&watchConfig, "watch", false, "Reload the config file when it changes")
	evalCmd.Flags().BoolVar(&evalRaw, "raw", false, "Print the raw operands instead of the formatted display")
	keysCmd.Flags().StringVar(&keysStyle, "style", "auto", "Glamour style (auto, dark, light, notty)")
	keysCmd.Flags().BoolVar(&keysMarkdown, "markdown", false, "Print markdown without rendering")
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides server.addr)")

	rootCmd.AddCommand(evalCmd)
	rootCmd.AddCommand(keysCmd)
	rootCmd.AddCommand(serveCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := loadDotEnv(); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// resolveConfigPath picks --config, then $CALC_CONFIG, then ./calc.yaml.
func resolveConfigPath() string {
	if configPath != "" {
		return configPath
	}
	if p := os.Getenv("CALC_CONFIG"); p != "" {
		return p
	}
	return "calc.yaml"
}

// loadConfig loads and validates the config with global flags applied.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(resolveConfigPath())
	if err != nil {
		return nil, err
	}
	if locale != "" {
		cfg.Locale = locale
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
