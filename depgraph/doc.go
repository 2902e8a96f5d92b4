// Package depgraph builds the cross-workflow dependency graph.
//
// Nodes stand for workflows, dependency-carrying tasks and implicit
// dependencies. Edges point from the node that must complete (or exist)
// towards the node that waits for it:
//
//	trigger task:  workflow(w) -> task -> workflow(target)
//	sensor task:   workflow(source) -> task -> workflow(w)
//	implicit dep:  workflow(dep) -> implicit -> workflow(w)
//
// A Graph is immutable once built and may be shared freely.
package depgraph
