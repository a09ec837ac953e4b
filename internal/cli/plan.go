package cli

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"text/tabwriter"

	"github.com/tchevalier/mpm/internal/project"
	"github.com/tchevalier/mpm/internal/schedule"
)

// loadPlan loads a plan file, reporting failures through the formatter.
// Load problems are command errors (exit 2): the plan never reached the
// engine.
func loadPlan(f *OutputFormatter, path string) (*project.Plan, error) {
	f.VerboseLog("Loading plan from %s", path)
	plan, err := project.Load(path)
	if err != nil {
		var le *project.LoadError
		if errors.As(err, &le) {
			f.Error(le.Code, le.Message, "")
			return nil, NewExitError(ExitCommandError, le.Message)
		}
		f.Error(project.ErrCodeGeneric, err.Error(), "")
		return nil, WrapExitError(ExitCommandError, "loading plan", err)
	}
	f.VerboseLog("Loaded %d task(s)", len(plan.Tasks))
	return plan, nil
}

// computePlan runs the engine, reporting scheduling errors through the
// formatter. Semantic plan problems are failures (exit 1).
func computePlan(f *OutputFormatter, plan *project.Plan) (*schedule.Result, error) {
	res, err := schedule.Compute(plan.Tasks)
	if err != nil {
		var se *schedule.ScheduleError
		if errors.As(err, &se) {
			f.Error(string(se.Code), se.Message, se.Task)
			return nil, NewExitError(ExitFailure, se.Error())
		}
		f.Error("INTERNAL", err.Error(), "")
		return nil, WrapExitError(ExitFailure, "computing schedule", err)
	}
	return res, nil
}

// printResultText renders the schedule as the human-readable summary.
func printResultText(f *OutputFormatter, res *schedule.Result) {
	fmt.Fprintf(f.Writer, "Project duration: %s\n", formatValue(res.ProjectDuration))
	fmt.Fprintf(f.Writer, "Critical path:    %s\n\n", joinPath(res.CriticalPath))

	tasks := append([]schedule.Task(nil), res.Tasks...)
	sort.Slice(tasks, func(i, j int) bool {
		a, b := tasks[i].Name, tasks[j].Name
		if res.DPT[a] != res.DPT[b] {
			return res.DPT[a] < res.DPT[b]
		}
		return a < b
	})

	tw := tabwriter.NewWriter(f.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TASK\tDURATION\tDPT\tDPL\tMARGIN\tCRITICAL")
	for _, t := range tasks {
		critical := "no"
		if res.IsCritical(t.Name) {
			critical = "yes"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			t.Name,
			formatValue(t.Duration),
			formatValue(res.DPT[t.Name]),
			formatValue(res.DPL[t.Name]),
			formatValue(res.Margins[t.Name]),
			critical,
		)
	}
	tw.Flush()
}

func joinPath(path []string) string {
	out := ""
	for i, name := range path {
		if i > 0 {
			out += " -> "
		}
		out += name
	}
	return out
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
