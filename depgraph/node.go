package depgraph

// Category tags the kind of entity a node stands for.
type Category string

const (
	CategoryWorkflow Category = "workflow"
	CategoryTask     Category = "task"
	CategoryImplicit Category = "implicit"
)

// Style is the presentation category of a node. It carries no meaning for
// the graph itself.
type Style string

const (
	StyleWorkflow Style = "workflow"
	StyleTrigger  Style = "trigger"
	StyleSensor   Style = "sensor"
	StyleImplicit Style = "implicit"
)

// ImplicitLabel is the label every implicit dependency node carries.
const ImplicitLabel = "implicit"

// Key is the composite identity of a node and the graph's dedup key.
// Local is empty for workflow nodes.
type Key struct {
	Category Category
	Workflow string
	Local    string
}

// WorkflowKey returns the key of the node standing for workflow id.
func WorkflowKey(id string) Key {
	return Key{Category: CategoryWorkflow, Workflow: id}
}

// TaskKey returns the key of a dependency-carrying task.
func TaskKey(workflowID, taskID string) Key {
	return Key{Category: CategoryTask, Workflow: workflowID, Local: taskID}
}

// ImplicitKey returns the key of the implicit dependency of workflowID on dep.
func ImplicitKey(workflowID, dep string) Key {
	return Key{Category: CategoryImplicit, Workflow: workflowID, Local: dep}
}

// String renders the key as "workflow:A", "task:A#t1" or "implicit:C#D".
func (k Key) String() string {
	if k.Category == CategoryWorkflow {
		return string(k.Category) + ":" + k.Workflow
	}
	return string(k.Category) + ":" + k.Workflow + "#" + k.Local
}

// Node is a vertex of the dependency graph.
type Node struct {
	Key   Key
	Label string
	Style Style
}

// Edge reads "From must complete (or exist) before To proceeds".
type Edge struct {
	From Key
	To   Key
}
