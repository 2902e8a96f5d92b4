package depview

import (
	"time"

	"github.com/kbukum/dagdeps/depgraph"
	"github.com/kbukum/dagdeps/graphcache"
)

// Corner radius of every rendered node.
const nodeRadius = 5

// fills maps node styles to their fill colour.
var fills = map[depgraph.Style]string{
	depgraph.StyleWorkflow: "fill: rgb(232, 247, 228);",
	depgraph.StyleTrigger:  "fill: rgb(255, 239, 235);",
	depgraph.StyleSensor:   "fill: rgb(230, 241, 242);",
	depgraph.StyleImplicit: "fill: rgb(240, 240, 240);",
}

// View is the rendered document.
type View struct {
	Title           string     `json:"title"`
	Nodes           []ViewNode `json:"nodes"`
	Edges           []ViewEdge `json:"edges"`
	Arrange         string     `json:"arrange"`
	Width           string     `json:"width"`
	Height          string     `json:"height"`
	LastRefreshedAt *time.Time `json:"last_refreshed_at"`
	Stale           bool       `json:"stale"`
	Warning         string     `json:"warning,omitempty"`
	Acyclic         bool       `json:"acyclic"`
	Cyclic          []string   `json:"cyclic,omitempty"`
}

// ViewNode is a node as the renderer expects it.
type ViewNode struct {
	ID    string    `json:"id"`
	Value NodeValue `json:"value"`
}

// NodeValue carries the display attributes of a node.
type NodeValue struct {
	Label string `json:"label"`
	Style string `json:"style"`
	RX    int    `json:"rx"`
	RY    int    `json:"ry"`
}

// ViewEdge is a directed edge between two node ids.
type ViewEdge struct {
	U string `json:"u"`
	V string `json:"v"`
}

// NodeID renders the stable display id of k.
func NodeID(k depgraph.Key) string {
	switch k.Category {
	case depgraph.CategoryWorkflow:
		return "[d]" + k.Workflow
	case depgraph.CategoryTask:
		return "[t]" + k.Workflow + "#" + k.Local
	default:
		return "[i]" + k.Workflow + "#" + k.Local
	}
}

// Render builds the view of snap. refreshErr is the error returned with
// snap by the cache, if any; it marks the view stale.
func Render(title string, snap *graphcache.Snapshot, p Params, refreshErr error) View {
	g := snap.Graph
	if g == nil {
		g = depgraph.Empty()
	}

	v := View{
		Title:   title,
		Nodes:   make([]ViewNode, 0, g.NodeCount()),
		Edges:   make([]ViewEdge, 0, g.EdgeCount()),
		Arrange: p.Orientation,
		Width:   p.Width,
		Height:  p.Height,
	}
	if snap.Built() {
		at := snap.RefreshedAt.UTC()
		v.LastRefreshedAt = &at
	}
	if refreshErr != nil {
		v.Stale = true
		v.Warning = "showing the last successfully built graph: " + refreshErr.Error()
	}

	for _, n := range g.Nodes() {
		v.Nodes = append(v.Nodes, ViewNode{
			ID: NodeID(n.Key),
			Value: NodeValue{
				Label: n.Label,
				Style: fills[n.Style],
				RX:    nodeRadius,
				RY:    nodeRadius,
			},
		})
	}
	for _, e := range g.Edges() {
		v.Edges = append(v.Edges, ViewEdge{U: NodeID(e.From), V: NodeID(e.To)})
	}

	layers := depgraph.Levels(g)
	v.Acyclic = layers.Acyclic()
	for _, k := range layers.Cyclic {
		v.Cyclic = append(v.Cyclic, NodeID(k))
	}
	return v
}

// LayerReport lists node ids per dependency level, for the command-line
// dump.
func LayerReport(g *depgraph.Graph) [][]string {
	layers := depgraph.Levels(g)
	out := make([][]string, 0, len(layers.Levels))
	for _, level := range layers.Levels {
		ids := make([]string, 0, len(level))
		for _, k := range level {
			ids = append(ids, NodeID(k))
		}
		out = append(out, ids)
	}
	return out
}
