package cli

import (
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/tchevalier/mpm/internal/server"
	"github.com/tchevalier/mpm/internal/store"
)

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		addr   string
		dbPath string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the scheduling API over HTTP",
		Long: `Start the HTTP API: POST /api/schedule computes a schedule from a JSON
task list, POST /api/report returns the PDF report, and /api/runs exposes
the saved history when --db is set.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(rootOpts, addr, dbPath)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&dbPath, "db", "", "history database path (empty disables history)")

	return cmd
}

func runServe(opts *RootOptions, addr, dbPath string) error {
	level := slog.LevelInfo
	if opts.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if !opts.Verbose {
		gin.SetMode(gin.ReleaseMode)
	}

	var st *store.Store
	if dbPath != "" {
		var err error
		st, err = store.Open(dbPath)
		if err != nil {
			return WrapExitError(ExitCommandError, "opening history database", err)
		}
		defer st.Close()
		logger.Info("run history enabled", "db", dbPath)
	}

	srv := server.New(logger, st)
	if err := srv.Run(addr); err != nil {
		return WrapExitError(ExitCommandError, "serving", err)
	}
	return nil
}
