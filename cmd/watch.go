package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnoswap-labs/gsg/grep"
)

var watchCmd = &cobra.Command{
	Use:   "watch EXPR dirs...",
	Short: "Search files again whenever they change",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
		defer stop()

		return runWatch(ctx, cmd, args[0], args[1:])
	},
}

func runWatch(ctx context.Context, cmd *cobra.Command, expr string, dirs []string) error {
	config, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	engine, err := grep.New(expr, config, logger)
	if err != nil {
		return err
	}

	f, err := newFormatter(config)
	if err != nil {
		return err
	}

	sc, err := newScanner(config)
	if err != nil {
		return err
	}

	w, err := grep.NewWatcher(logger, engine, sc, cmd.OutOrStdout(), f)
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(dirs...); err != nil {
		return err
	}

	logger.Info("watching for changes", zap.Strings("dirs", dirs))
	err = w.Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
