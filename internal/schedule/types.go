package schedule

// Task is a single activity in the project plan.
//
// Tasks are the engine's only input. Names are case-sensitive and compared
// by exact string equality when resolving predecessor references; any
// request-level cleanup (trimming, unicode normalization) is the caller's
// job before the task list reaches Compute.
type Task struct {
	Name         string   `json:"name" yaml:"name"`
	Duration     float64  `json:"duration" yaml:"duration"`
	Predecessors []string `json:"predecessors" yaml:"predecessors"`
}

// Result holds a complete schedule for a validated task list.
//
// Field names on the wire match the original MPM calculator output so that
// existing consumers (diagram, report, API clients) keep working: dpt is
// the earliest start per task, dpl the latest start, marges the total
// margin (dpl - dpt).
type Result struct {
	DPT             map[string]float64 `json:"dpt"`
	DPL             map[string]float64 `json:"dpl"`
	Margins         map[string]float64 `json:"marges"`
	CriticalPath    []string           `json:"critical_path"`
	ProjectDuration float64            `json:"project_duration"`
	Tasks           []Task             `json:"tasks"`
}

// Epsilon bounds all floating point comparisons in the engine. A margin
// within Epsilon of zero counts as critical; this keeps the critical path
// stable under rounding in duration arithmetic.
const Epsilon = 1e-9

// IsCritical reports whether the named task sits on the critical path.
func (r *Result) IsCritical(name string) bool {
	m, ok := r.Margins[name]
	if !ok {
		return false
	}
	return m < Epsilon && m > -Epsilon
}
