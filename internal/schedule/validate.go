package schedule

import (
	"math"
	"sort"
)

// checkDurations rejects any task whose duration is not a positive finite
// number. Runs before graph construction; NaN and infinities cover the
// "non-numeric" cases that survive JSON decoding.
func checkDurations(tasks []Task) error {
	for _, t := range tasks {
		d := t.Duration
		if math.IsNaN(d) || math.IsInf(d, 0) || d <= 0 {
			return newInvalidDurationError(t.Name, d)
		}
	}
	return nil
}

// detectCycle runs a depth-first traversal over the completed graph,
// tracking nodes currently on the recursion stack ("visiting") separately
// from fully processed ones ("done"). Meeting a visiting node again is a
// back edge; the error reports that node.
//
// The sweep starts at the start anchor, then covers any remaining
// unvisited tasks in name order: a cycle such as A<->B leaves both nodes
// without a path from the anchor, so a start-only traversal would miss it.
func detectCycle(g *graph) error {
	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[string]int, len(g.nodes))

	var visit func(name string) error
	visit = func(name string) error {
		state[name] = visiting
		for _, succ := range g.nodes[name].succs {
			switch state[succ] {
			case visiting:
				return newCycleError(succ)
			case unvisited:
				if err := visit(succ); err != nil {
					return err
				}
			}
		}
		state[name] = done
		return nil
	}

	if err := visit(startKey); err != nil {
		return err
	}

	remaining := make([]string, 0, len(g.taskNames))
	for _, name := range g.taskNames {
		if state[name] == unvisited {
			remaining = append(remaining, name)
		}
	}
	sort.Strings(remaining)
	for _, name := range remaining {
		if state[name] != unvisited {
			continue
		}
		if err := visit(name); err != nil {
			return err
		}
	}
	return nil
}
