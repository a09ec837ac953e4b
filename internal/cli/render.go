package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tchevalier/mpm/internal/render"
)

// NewRenderCommand creates the render command.
func NewRenderCommand(rootOpts *RootOptions) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "render <plan-file>",
		Short: "Render the MPM network diagram",
		Long: `Render the task network as an image. The output format follows the
output file extension: .svg for the fixed-grid diagram, .dot for a
graphviz export. Without -o, SVG is written to stdout.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(rootOpts, args[0], output, cmd)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (.svg or .dot)")

	return cmd
}

func runRender(opts *RootOptions, path, output string, cmd *cobra.Command) error {
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

	var data []byte
	switch strings.ToLower(filepath.Ext(output)) {
	case "", ".svg":
		data = render.SVG(res)
	case ".dot":
		data = render.DOT(res)
	default:
		msg := fmt.Sprintf("unknown output extension %q (want .svg or .dot)", filepath.Ext(output))
		formatter.Error("E003", msg, "")
		return NewExitError(ExitCommandError, msg)
	}

	if output == "" {
		_, err := formatter.Writer.Write(data)
		return err
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		formatter.Error("E007", err.Error(), "")
		return WrapExitError(ExitCommandError, "writing diagram", err)
	}
	formatter.VerboseLog("Wrote %d bytes to %s", len(data), output)
	return nil
}
