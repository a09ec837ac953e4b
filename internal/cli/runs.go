package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tchevalier/mpm/internal/store"
)

// NewRunsCommand creates the runs command.
func NewRunsCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		dbPath string
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "runs [run-id]",
		Short: "List or show saved schedule runs",
		Long: `Without arguments, list the saved runs in the history database.
With a run id, print that run's full schedule.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				return runShowRun(rootOpts, dbPath, args[0], cmd)
			}
			return runListRuns(rootOpts, dbPath, limit, cmd)
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "mpm.db", "history database path")
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of runs to list (0 for all)")

	return cmd
}

func openRunStore(formatter *OutputFormatter, dbPath string) (*store.Store, error) {
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		msg := fmt.Sprintf("history database not found: %s", dbPath)
		formatter.Error("E005", msg, "")
		return nil, NewExitError(ExitCommandError, msg)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		formatter.Error("E001", err.Error(), "")
		return nil, WrapExitError(ExitCommandError, "opening history database", err)
	}
	return st, nil
}

func runListRuns(opts *RootOptions, dbPath string, limit int, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	st, err := openRunStore(formatter, dbPath)
	if err != nil {
		return err
	}
	defer st.Close()

	runs, err := st.ListRuns(cmd.Context(), limit)
	if err != nil {
		formatter.Error("E001", err.Error(), "")
		return WrapExitError(ExitCommandError, "listing runs", err)
	}

	if done, err := formatter.JSON(map[string]any{"runs": runs}); done {
		return err
	}

	if len(runs) == 0 {
		fmt.Fprintln(formatter.Writer, "No saved runs")
		return nil
	}
	tw := tabwriter.NewWriter(formatter.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCREATED\tTASKS\tDURATION")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n",
			r.ID, r.Name, r.CreatedAt.Format("2006-01-02 15:04:05"),
			r.TaskCount, formatValue(r.ProjectDuration))
	}
	return tw.Flush()
}

func runShowRun(opts *RootOptions, dbPath, id string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	st, err := openRunStore(formatter, dbPath)
	if err != nil {
		return err
	}
	defer st.Close()

	run, err := st.GetRun(cmd.Context(), id)
	if err != nil {
		formatter.Error("E005", err.Error(), "")
		return WrapExitError(ExitCommandError, "reading run", err)
	}

	if done, err := formatter.JSON(run); done {
		return err
	}

	fmt.Fprintf(formatter.Writer, "Run %s (%s, saved %s)\n\n",
		run.ID, run.Name, run.CreatedAt.Format("2006-01-02 15:04:05"))
	printResultText(formatter, run.Result)
	return nil
}
