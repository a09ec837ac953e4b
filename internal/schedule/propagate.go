package schedule

import "sort"

// topoOrder computes a topological order over the whole graph, anchors
// included, using Kahn's algorithm. Ready nodes are kept name-sorted so the
// order is identical for identical input regardless of map iteration.
//
// The order is computed once and reused by both passes (reversed for the
// backward pass). Validation has already rejected cycles; a short order
// here would mean the phases ran out of sequence, which is a defect.
func topoOrder(g *graph) ([]string, error) {
	inDegree := make(map[string]int, len(g.nodes))
	for name, n := range g.nodes {
		inDegree[name] = len(n.preds)
	}

	var queue []string
	for name, deg := range inDegree {
		if deg == 0 {
			queue = append(queue, name)
		}
	}
	sort.Strings(queue)

	order := make([]string, 0, len(g.nodes))
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		order = append(order, current)

		var ready []string
		for _, succ := range g.nodes[current].succs {
			inDegree[succ]--
			if inDegree[succ] == 0 {
				ready = append(ready, succ)
			}
		}
		sort.Strings(ready)
		queue = append(queue, ready...)
	}

	if len(order) != len(g.nodes) {
		return nil, newInternalError("topological sort visited %d of %d nodes on a validated graph", len(order), len(g.nodes))
	}
	return order, nil
}

// propagate runs the forward then the backward pass and fills in all four
// date fields on every node.
//
// Forward (ancestors first): earliest start is the max finish over all
// predecessors, the binding constraint. Backward (descendants first):
// latest finish is the min start over all successors, the tightest
// downstream constraint. The end anchor's earliest start doubles as the
// project duration and seeds the backward pass.
func propagate(g *graph, order []string) {
	for _, name := range order {
		n := g.nodes[name]
		es := 0.0
		for _, pred := range n.preds {
			if f := g.nodes[pred].earliestFinish; f > es {
				es = f
			}
		}
		n.earliestStart = es
		n.earliestFinish = es + n.duration
	}

	end := g.nodes[endKey]
	end.latestFinish = end.earliestStart
	end.latestStart = end.latestFinish

	for i := len(order) - 1; i >= 0; i-- {
		n := g.nodes[order[i]]
		if n.name == endKey {
			continue
		}
		lf := end.latestFinish
		for j, succ := range n.succs {
			s := g.nodes[succ].latestStart
			if j == 0 || s < lf {
				lf = s
			}
		}
		n.latestFinish = lf
		n.latestStart = lf - n.duration
	}
}

// collect derives margins and the critical path and assembles the Result.
//
// A negative margin on a validated DAG is impossible by construction, so
// anything below -Epsilon is reported as an internal defect rather than
// clamped.
func collect(g *graph, tasks []Task) (*Result, error) {
	res := &Result{
		DPT:             make(map[string]float64, len(g.taskNames)),
		DPL:             make(map[string]float64, len(g.taskNames)),
		Margins:         make(map[string]float64, len(g.taskNames)),
		ProjectDuration: g.nodes[endKey].earliestStart,
		Tasks:           tasks,
	}

	var critical []string
	for _, name := range g.taskNames {
		n := g.nodes[name]
		margin := n.latestStart - n.earliestStart
		if margin < -Epsilon {
			return nil, newInternalError("negative margin %v on task %q", margin, name)
		}
		res.DPT[name] = n.earliestStart
		res.DPL[name] = n.latestStart
		res.Margins[name] = margin
		if margin < Epsilon {
			critical = append(critical, name)
		}
	}

	// Path order: by earliest start, ties broken by name so the output is
	// reproducible when several zero-margin paths coexist.
	sort.Slice(critical, func(i, j int) bool {
		a, b := critical[i], critical[j]
		if res.DPT[a] != res.DPT[b] {
			return res.DPT[a] < res.DPT[b]
		}
		return a < b
	})
	res.CriticalPath = critical

	return res, nil
}
