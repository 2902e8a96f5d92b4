package depgraph

import (
	"fmt"

	"github.com/kbukum/dagdeps/errors"
	"github.com/kbukum/dagdeps/workflow"
)

// Options tunes graph construction.
type Options struct {
	// IncludeDanglingReferences creates a placeholder workflow node when a
	// task or implicit dependency references a workflow absent from the
	// snapshot. When false the referencing edge is omitted instead.
	IncludeDanglingReferences bool
}

// DefaultOptions returns the options used when none are given.
func DefaultOptions() Options {
	return Options{IncludeDanglingReferences: true}
}

// Anomaly records a malformed definition that was skipped during a build.
// Task is empty when the whole workflow was skipped.
type Anomaly struct {
	Workflow string
	Task     string
	Reason   string
}

// AsError converts the anomaly into a MALFORMED_DEFINITION error.
func (a Anomaly) AsError() *errors.AppError {
	return errors.MalformedDefinition(a.Workflow, a.Task, a.Reason)
}

// Builder turns a snapshot of workflow definitions into a Graph. It has no
// state beyond its options and is safe for concurrent use.
type Builder struct {
	opts Options
}

// NewBuilder creates a Builder.
func NewBuilder(opts Options) *Builder {
	return &Builder{opts: opts}
}

// Build builds a graph with DefaultOptions.
func Build(defs []workflow.Definition) *Graph {
	return NewBuilder(DefaultOptions()).Build(defs)
}

// Build computes the dependency graph of defs. Nodes are created in
// workflow-then-task order; when a key is requested again the first node's
// label and style are kept. Workflows and tasks without an id, and tasks
// without a kind, are skipped and reported through Graph.Anomalies. Referenced
// workflow ids are not checked: an empty target still yields its nodes.
func (b *Builder) Build(defs []workflow.Definition) *Graph {
	g := Empty()

	var known map[string]struct{}
	if !b.opts.IncludeDanglingReferences {
		known = make(map[string]struct{}, len(defs))
		for _, def := range defs {
			if def.ID != "" {
				known[def.ID] = struct{}{}
			}
		}
	}

	reference := func(id string) (Key, bool) {
		if known != nil {
			if _, ok := known[id]; !ok {
				return Key{}, false
			}
		}
		return g.addNode(workflowNode(id)), true
	}

	for i, def := range defs {
		if def.ID == "" {
			g.anomalies = append(g.anomalies, Anomaly{
				Reason: fmt.Sprintf("workflow at position %d has no id", i),
			})
			continue
		}
		own := g.addNode(workflowNode(def.ID))

		for j, task := range def.Tasks {
			if task.ID == "" {
				g.anomalies = append(g.anomalies, Anomaly{
					Workflow: def.ID,
					Reason:   fmt.Sprintf("task at position %d has no id", j),
				})
				continue
			}

			switch kind := task.Kind.(type) {
			case workflow.Plain:
			case workflow.TriggersWorkflow:
				t := g.addNode(Node{Key: TaskKey(def.ID, task.ID), Label: task.ID, Style: StyleTrigger})
				g.addEdge(own, t)
				if target, ok := reference(kind.Target); ok {
					g.addEdge(t, target)
				}
			case workflow.WaitsForExternalWorkflow:
				t := g.addNode(Node{Key: TaskKey(def.ID, task.ID), Label: task.ID, Style: StyleSensor})
				g.addEdge(t, own)
				if source, ok := reference(kind.Source); ok {
					g.addEdge(source, t)
				}
			case nil:
				g.anomalies = append(g.anomalies, Anomaly{
					Workflow: def.ID,
					Task:     task.ID,
					Reason:   "task kind is not set",
				})
			default:
				g.anomalies = append(g.anomalies, Anomaly{
					Workflow: def.ID,
					Task:     task.ID,
					Reason:   fmt.Sprintf("unsupported task kind %T", kind),
				})
			}
		}

		for _, dep := range def.ImplicitDependencies {
			imp := g.addNode(Node{Key: ImplicitKey(def.ID, dep), Label: ImplicitLabel, Style: StyleImplicit})
			g.addEdge(imp, own)
			if source, ok := reference(dep); ok {
				g.addEdge(source, imp)
			}
		}
	}

	return g
}

func workflowNode(id string) Node {
	return Node{Key: WorkflowKey(id), Label: id, Style: StyleWorkflow}
}
