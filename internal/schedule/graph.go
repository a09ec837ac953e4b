package schedule

// Synthetic anchor keys. The NUL prefix keeps them out of the user task
// namespace, so a plan may legitimately contain a task called "START".
const (
	startKey = "\x00start"
	endKey   = "\x00end"
)

// node is the internal graph entity, one per task plus the two synthetic
// anchors. Anchors are ordinary zero-duration nodes: the propagation
// formulas never branch on node kind.
type node struct {
	name     string
	duration float64

	preds []string
	succs []string

	earliestStart  float64
	earliestFinish float64
	latestStart    float64
	latestFinish   float64
}

// graph is the directed task network built fresh for each Compute call.
type graph struct {
	nodes map[string]*node

	// taskNames holds the user task names in submission order. Iterating
	// over it instead of the nodes map keeps every derived sequence
	// deterministic.
	taskNames []string
}

func (g *graph) addEdge(from, to string) {
	g.nodes[from].succs = append(g.nodes[from].succs, to)
	g.nodes[to].preds = append(g.nodes[to].preds, from)
}

// buildGraph turns the task list into a directed graph with one synthetic
// start node and one synthetic end node.
//
// Name uniqueness is checked at entry (map-based lookup depends on it) and
// every predecessor reference is resolved during edge creation; an unknown
// reference fails the build before the graph completes. Cycle checking is
// the validator's job and needs the completed graph.
func buildGraph(tasks []Task) (*graph, error) {
	g := &graph{nodes: make(map[string]*node, len(tasks)+2)}

	for _, t := range tasks {
		if _, exists := g.nodes[t.Name]; exists {
			return nil, newDuplicateTaskError(t.Name)
		}
		g.nodes[t.Name] = &node{name: t.Name, duration: t.Duration}
		g.taskNames = append(g.taskNames, t.Name)
	}

	g.nodes[startKey] = &node{name: startKey}
	g.nodes[endKey] = &node{name: endKey}

	// referenced tracks tasks named as a predecessor by some other task;
	// everything else feeds the end anchor.
	referenced := make(map[string]bool, len(tasks))

	for _, t := range tasks {
		if len(t.Predecessors) == 0 {
			g.addEdge(startKey, t.Name)
			continue
		}
		for _, pred := range t.Predecessors {
			if _, ok := g.nodes[pred]; !ok {
				return nil, newUnknownPredecessorError(t.Name, pred)
			}
			g.addEdge(pred, t.Name)
			referenced[pred] = true
		}
	}

	for _, name := range g.taskNames {
		if !referenced[name] {
			g.addEdge(name, endKey)
		}
	}

	return g, nil
}
