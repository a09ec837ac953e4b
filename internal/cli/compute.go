package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tchevalier/mpm/internal/store"
)

// ComputeResult is the JSON payload of a successful compute.
type ComputeResult struct {
	Results any    `json:"results"`
	RunID   string `json:"run_id,omitempty"`
}

// NewComputeCommand creates the compute command.
func NewComputeCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		save   bool
		dbPath string
	)

	cmd := &cobra.Command{
		Use:   "compute <plan-file>",
		Short: "Compute the MPM schedule for a plan",
		Long: `Compute earliest and latest start dates, margins, total project
duration and the critical path for every task in the plan file.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompute(rootOpts, args[0], save, dbPath, cmd)
		},
	}

	cmd.Flags().BoolVar(&save, "save", false, "persist the run to the history database")
	cmd.Flags().StringVar(&dbPath, "db", "mpm.db", "history database path")

	return cmd
}

func runCompute(opts *RootOptions, path string, save bool, dbPath string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	plan, err := loadPlan(formatter, path)
	if err != nil {
		return err
	}
	res, err := computePlan(formatter, plan)
	if err != nil {
		return err
	}

	runID := ""
	if save {
		st, err := store.Open(dbPath)
		if err != nil {
			formatter.Error("E001", err.Error(), "")
			return WrapExitError(ExitCommandError, "opening history database", err)
		}
		defer st.Close()

		runID, err = st.SaveRun(cmd.Context(), plan.Name, plan.Tasks, res)
		if err != nil {
			formatter.Error("E001", err.Error(), "")
			return WrapExitError(ExitCommandError, "saving run", err)
		}
		formatter.VerboseLog("Saved run %s to %s", runID, dbPath)
	}

	if done, err := formatter.JSON(ComputeResult{Results: res, RunID: runID}); done {
		return err
	}

	printResultText(formatter, res)
	if runID != "" {
		fmt.Fprintf(formatter.Writer, "\nSaved as run %s\n", runID)
	}
	return nil
}
