package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/julienpequegnot/bannergen/internal/config"
	"github.com/julienpequegnot/bannergen/internal/logging"
	"github.com/spf13/cobra"
)

// runtime is what every command needs: configuration and a logger. It is
// built once per command invocation and passed down explicitly.
type runtime struct {
	cfg      *config.Config
	logger   *slog.Logger
	closeLog func() error
}

func newRuntime(cmd *cobra.Command) (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	if rootVerbose {
		level = slog.LevelDebug
	}

	logger, closeLog, err := logging.Setup(cmd.ErrOrStderr(), level, config.LogPath())
	if err != nil {
		return nil, fmt.Errorf("failed to set up logging: %w", err)
	}
	logger.Debug("configuration loaded", "dir", config.Dir(), "command", cmd.Name())

	return &runtime{cfg: cfg, logger: logger, closeLog: closeLog}, nil
}

func (rt *runtime) Close() {
	if err := rt.closeLog(); err != nil {
		fmt.Fprintln(os.Stderr, "failed to close log file:", err)
	}
}
