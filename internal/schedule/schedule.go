// Package schedule computes MPM/CPM schedules: earliest and latest start
// dates, margins, total project duration and the critical path of a task
// network with precedence constraints.
//
// The engine is a pure, stateless function of its input. Each Compute call
// builds its own graph, validates it, propagates dates and discards the
// graph; concurrent calls share nothing. Persistence and presentation are
// the caller's concern.
package schedule

// Compute runs the full scheduling pipeline on the submitted task list.
//
// The three phases execute strictly in sequence, each on the previous
// phase's completed output:
//
//  1. Builder — one node per task, synthetic start/end anchors, one edge
//     per declared predecessor. Fails on duplicate names or references to
//     absent tasks.
//  2. Validator — positive durations, acyclicity. Propagation behavior is
//     unspecified on a cyclic graph, so this must finish first.
//  3. Propagator — forward pass, backward pass, margins, critical path.
//
// Every error is reported before propagation begins; Compute never returns
// a partially filled Result.
func Compute(tasks []Task) (*Result, error) {
	if len(tasks) == 0 {
		return nil, newEmptyInputError()
	}
	if err := checkDurations(tasks); err != nil {
		return nil, err
	}

	g, err := buildGraph(tasks)
	if err != nil {
		return nil, err
	}
	if err := detectCycle(g); err != nil {
		return nil, err
	}

	order, err := topoOrder(g)
	if err != nil {
		return nil, err
	}
	propagate(g, order)

	return collect(g, tasks)
}
