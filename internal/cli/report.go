package cli

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/tchevalier/mpm/internal/report"
)

// NewReportCommand creates the report command.
func NewReportCommand(rootOpts *RootOptions) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "report <plan-file>",
		Short: "Generate the PDF project report",
		Long: `Generate the full project report: schedule summary tables plus the
network diagram, as a PDF document.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(rootOpts, args[0], output, cmd)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "reseau_mpm.pdf", "output PDF file")

	return cmd
}

func runReport(opts *RootOptions, path, output string, cmd *cobra.Command) error {
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

	pdf, err := report.Generate(plan.Name, res, time.Now())
	if err != nil {
		formatter.Error("E001", err.Error(), "")
		return WrapExitError(ExitCommandError, "generating report", err)
	}
	if err := os.WriteFile(output, pdf, 0o644); err != nil {
		formatter.Error("E007", err.Error(), "")
		return WrapExitError(ExitCommandError, "writing report", err)
	}

	if done, err := formatter.JSON(map[string]any{"output": output, "bytes": len(pdf)}); done {
		return err
	}
	formatter.VerboseLog("Wrote %d bytes", len(pdf))
	cmd.Printf("Report written to %s\n", output)
	return nil
}
