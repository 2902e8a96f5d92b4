package depgraph

// Graph is the immutable result of one build. Nodes are unique by Key and
// kept in creation order; edges keep their insertion order and may repeat.
type Graph struct {
	nodes     []Node
	index     map[Key]int
	edges     []Edge
	anomalies []Anomaly
}

// Empty returns a graph without nodes or edges.
func Empty() *Graph {
	return &Graph{index: map[Key]int{}}
}

// Nodes returns the nodes in creation order.
func (g *Graph) Nodes() []Node {
	out := make([]Node, len(g.nodes))
	copy(out, g.nodes)
	return out
}

// Edges returns the edges in insertion order.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, len(g.edges))
	copy(out, g.edges)
	return out
}

// Node looks up a node by key.
func (g *Graph) Node(k Key) (Node, bool) {
	i, ok := g.index[k]
	if !ok {
		return Node{}, false
	}
	return g.nodes[i], true
}

// Has reports whether a node with key k exists.
func (g *Graph) Has(k Key) bool {
	_, ok := g.index[k]
	return ok
}

// NodeCount returns the number of distinct nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges, duplicates included.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Anomalies returns the malformed definitions skipped while building.
func (g *Graph) Anomalies() []Anomaly {
	out := make([]Anomaly, len(g.anomalies))
	copy(out, g.anomalies)
	return out
}

// addNode registers n unless a node with the same key exists. The first
// registration wins.
func (g *Graph) addNode(n Node) Key {
	if _, exists := g.index[n.Key]; exists {
		return n.Key
	}
	g.index[n.Key] = len(g.nodes)
	g.nodes = append(g.nodes, n)
	return n.Key
}

func (g *Graph) addEdge(from, to Key) {
	g.edges = append(g.edges, Edge{From: from, To: to})
}
