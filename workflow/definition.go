package workflow

// Definition is a read-only view of one workflow as supplied by a Source.
type Definition struct {
	// ID uniquely identifies the workflow.
	ID string
	// Tasks in declaration order.
	Tasks []Task
	// ImplicitDependencies names other workflows this one depends on without
	// a task backing the relationship.
	ImplicitDependencies []string
}

// Task is a unit of work inside a workflow.
type Task struct {
	// ID is unique within the owning workflow only.
	ID string
	// Kind describes how the task relates to other workflows. A nil Kind is
	// treated as malformed by the graph builder.
	Kind Kind
}

// Kind is the closed set of task relationship kinds: Plain,
// TriggersWorkflow and WaitsForExternalWorkflow.
type Kind interface {
	isKind()
}

// Plain is a task with no cross-workflow relationship.
type Plain struct{}

// TriggersWorkflow starts Target when the task runs.
type TriggersWorkflow struct {
	Target string
}

// WaitsForExternalWorkflow blocks until a task in Source has completed.
type WaitsForExternalWorkflow struct {
	Source string
}

func (Plain) isKind()                    {}
func (TriggersWorkflow) isKind()         {}
func (WaitsForExternalWorkflow) isKind() {}

// NewPlainTask is shorthand for a task without relationships.
func NewPlainTask(id string) Task {
	return Task{ID: id, Kind: Plain{}}
}

// NewTriggerTask returns a task that triggers target.
func NewTriggerTask(id, target string) Task {
	return Task{ID: id, Kind: TriggersWorkflow{Target: target}}
}

// NewSensorTask returns a task that waits for source.
func NewSensorTask(id, source string) Task {
	return Task{ID: id, Kind: WaitsForExternalWorkflow{Source: source}}
}
