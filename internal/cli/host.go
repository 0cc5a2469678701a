package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ppiankov/factlens/internal/host"
	"github.com/ppiankov/factlens/internal/logging"
	"github.com/ppiankov/factlens/internal/pipeline"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// hostCmd represents the host command
var hostCmd = &cobra.Command{
	Use:   "host",
	Short: "Serve verification requests over stdin/stdout",
	Long: `Run the native-messaging host. Each request and response is a JSON
document prefixed with its length as a 32-bit native-endian integer.

Browsers start this mode automatically; run it by hand only for debugging.
Logs go to stderr, stdout carries protocol frames only.`,
	Args: cobra.ArbitraryArgs,
	RunE: runHost,
}

func init() {
	rootCmd.AddCommand(hostCmd)
}

func runHost(cmd *cobra.Command, args []string) error {
	if err := loadEnvFiles(); err != nil {
		return err
	}

	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	p, err := pipeline.NewFromConfig(cfg, logger)
	if err != nil {
		return fmt.Errorf("build pipeline: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("native host started",
		zap.String("version", Version),
		zap.String("llm_provider", cfg.LLM.Provider),
		zap.Strings("args", args),
	)

	err = host.New(p, p.Platforms(), logger).Serve(ctx, cmd.InOrStdin(), cmd.OutOrStdout())
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("native host stopped", zap.Error(err))
		return err
	}

	logger.Info("native host stopped")
	return nil
}
