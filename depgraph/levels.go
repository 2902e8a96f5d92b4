package depgraph

// Layering groups the nodes of a graph by dependency depth.
type Layering struct {
	// Levels holds nodes whose predecessors all sit in earlier levels.
	Levels [][]Key
	// Cyclic holds nodes that lie on, or downstream of, a cycle.
	Cyclic []Key
}

// Acyclic reports whether every node was placed in a level.
func (l Layering) Acyclic() bool { return len(l.Cyclic) == 0 }

// Levels uses Kahn's algorithm to layer g. Unlike a scheduler it does not
// fail on cycles: workflows may legitimately trigger each other, so the
// nodes that could not be layered are returned in Cyclic. Order within a
// level follows node creation order.
func Levels(g *Graph) Layering {
	inDegree := make(map[Key]int, len(g.nodes))
	dependents := make(map[Key][]Key) // from -> [to...]

	for _, n := range g.nodes {
		inDegree[n.Key] = 0
	}
	for _, e := range g.edges {
		if _, ok := inDegree[e.From]; !ok {
			continue
		}
		if _, ok := inDegree[e.To]; !ok {
			continue
		}
		inDegree[e.To]++
		dependents[e.From] = append(dependents[e.From], e.To)
	}

	var queue []Key
	for _, n := range g.nodes {
		if inDegree[n.Key] == 0 {
			queue = append(queue, n.Key)
		}
	}

	var out Layering
	placed := make(map[Key]bool, len(g.nodes))

	for len(queue) > 0 {
		out.Levels = append(out.Levels, queue)

		var next []Key
		for _, k := range queue {
			placed[k] = true
			for _, dep := range dependents[k] {
				inDegree[dep]--
				if inDegree[dep] == 0 {
					next = append(next, dep)
				}
			}
		}
		queue = next
	}

	for _, n := range g.nodes {
		if !placed[n.Key] {
			out.Cyclic = append(out.Cyclic, n.Key)
		}
	}
	return out
}
