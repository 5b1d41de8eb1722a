package cli

import (
	"log/slog"
	"os/signal"
	"syscall"

	"cardtrack/internal/logging"
	"cardtrack/internal/server"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:          "serve",
		Short:        "Run the HTTP and websocket server",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := rootOpts.load(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if logging.ParseLevel(cfg.LogLevel) > slog.LevelDebug {
				gin.SetMode(gin.ReleaseMode)
			}

			s, err := server.Init(cfg, logger)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return s.Run(ctx)
		},
	}
}
