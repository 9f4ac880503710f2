package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"go-calculator/internal/calc"
	"go-calculator/internal/config"
	"go-calculator/internal/observability"
	"go-calculator/internal/ui"
)

var watchConfig bool

func runKeypad(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// The keypad owns the terminal, so logs go to logging.file or nowhere.
	logger, err := observability.NewLogger(cfg.Logging, "")
	if err != nil {
		return err
	}
	defer logger.Sync()

	tag, err := cfg.LocaleTag()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	opts := ui.Options{
		Formatter: calc.NewFormatter(tag),
		Theme:     ui.ThemeFor(cfg.UI.Theme),
		ShowHelp:  cfg.UI.ShowHelp,
		Logger:    logger,
	}

	if watchConfig {
		path := resolveConfigPath()
		if _, err := os.Stat(path); err != nil {
			logger.Warn("config watch skipped", zap.String("path", path), zap.Error(err))
		} else {
			w, err := config.NewWatcher(path, logger)
			if err != nil {
				return err
			}
			go w.Run(ctx)
			defer func() {
				cancel()
				w.Wait()
			}()
			opts.Updates = w.Updates()
		}
	}

	final, err := ui.Run(ctx, ui.New(opts), cfg.UI.Mouse)
	if err != nil {
		return err
	}

	logger.Info("keypad closed", zap.Stringer("current", final.State().Current))
	return nil
}
