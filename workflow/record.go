package workflow

import (
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"go.yaml.in/yaml/v3"

	"github.com/kbukum/dagdeps/validation"
)

// fileRecord is the on-disk shape of a definition file. A file may hold any
// number of workflows.
//
// YAML:
//
//	workflows:
//	  - workflow_id: A
//	    implicit_dependencies: [D]
//	    tasks:
//	      - task_id: t1
//	        triggers: B
//
// HCL:
//
//	workflow "A" {
//	  implicit_dependencies = ["D"]
//	  task "t1" { triggers = "B" }
//	}
type fileRecord struct {
	Workflows []workflowRecord `yaml:"workflows" hcl:"workflow,block"`
}

type workflowRecord struct {
	ID                   string       `yaml:"workflow_id" hcl:"id,label" json:"workflow_id" validate:"required"`
	ImplicitDependencies []string     `yaml:"implicit_dependencies,omitempty" hcl:"implicit_dependencies,optional" json:"implicit_dependencies"`
	Tasks                []taskRecord `yaml:"tasks,omitempty" hcl:"task,block" json:"tasks"`
}

type taskRecord struct {
	ID       string `yaml:"task_id" hcl:"id,label" json:"task_id" validate:"required"`
	Triggers string `yaml:"triggers,omitempty" hcl:"triggers,optional" json:"triggers" validate:"excluded_with=WaitsFor"`
	WaitsFor string `yaml:"waits_for,omitempty" hcl:"waits_for,optional" json:"waits_for"`
}

// recordIssue describes a record dropped during conversion.
type recordIssue struct {
	Workflow string
	Task     string
	Reason   string
}

func parseYAML(data []byte) (*fileRecord, error) {
	var rec fileRecord
	if err := yaml.Unmarshal(data, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func parseHCL(path string, data []byte) (*fileRecord, error) {
	parser := hclparse.NewParser()
	f, diags := parser.ParseHCL(data, path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("parsing hcl: %w", diags)
	}

	var rec fileRecord
	diags = gohcl.DecodeBody(f.Body, nil, &rec)
	if diags.HasErrors() {
		return nil, fmt.Errorf("decoding hcl: %w", diags)
	}
	return &rec, nil
}

// definitions converts the records into Definitions. Records that fail
// validation are dropped individually: a bad task or an empty implicit
// dependency drops only that entry, a workflow without an id drops the whole
// workflow.
func (f *fileRecord) definitions() ([]Definition, []recordIssue) {
	var (
		defs   []Definition
		issues []recordIssue
	)
	for _, wr := range f.Workflows {
		if err := validation.Validate(wr); err != nil {
			issues = append(issues, recordIssue{Workflow: wr.ID, Reason: err.Error()})
			continue
		}

		def := Definition{
			ID:    wr.ID,
			Tasks: make([]Task, 0, len(wr.Tasks)),
		}
		for i, dep := range wr.ImplicitDependencies {
			if dep == "" {
				issues = append(issues, recordIssue{
					Workflow: wr.ID,
					Reason:   fmt.Sprintf("implicit dependency at position %d is empty", i),
				})
				continue
			}
			def.ImplicitDependencies = append(def.ImplicitDependencies, dep)
		}
		for _, tr := range wr.Tasks {
			if err := validation.Validate(tr); err != nil {
				issues = append(issues, recordIssue{Workflow: wr.ID, Task: tr.ID, Reason: err.Error()})
				continue
			}
			def.Tasks = append(def.Tasks, tr.task())
		}
		defs = append(defs, def)
	}
	return defs, issues
}

func (t taskRecord) task() Task {
	switch {
	case t.Triggers != "":
		return NewTriggerTask(t.ID, t.Triggers)
	case t.WaitsFor != "":
		return NewSensorTask(t.ID, t.WaitsFor)
	default:
		return NewPlainTask(t.ID)
	}
}
