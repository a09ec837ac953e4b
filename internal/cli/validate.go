package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid     bool `json:"valid"`
	TaskCount int  `json:"task_count"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <plan-file>",
		Short: "Validate a plan without printing the schedule",
		Long: `Check a plan file end to end: file shape against the schema, then the
engine's semantic rules (unique names, positive durations, resolvable
predecessors, acyclic precedence graph).`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
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
	if _, err := computePlan(formatter, plan); err != nil {
		return err
	}

	if done, err := formatter.JSON(ValidationResult{Valid: true, TaskCount: len(plan.Tasks)}); done {
		return err
	}
	fmt.Fprintf(formatter.Writer, "Plan is valid (%d task(s))\n", len(plan.Tasks))
	return nil
}
