// Package workflow defines the read-only workflow model consumed by the
// dependency graph builder and the sources that supply it.
//
// A Definition owns an ordered list of Tasks. Each Task carries a Kind from
// the closed set Plain, TriggersWorkflow and WaitsForExternalWorkflow.
//
// Sources:
//   - MemorySource: definitions held in memory
//   - DirSource: YAML and HCL definition files scanned from disk
//
// WithLogging, WithTracing and WithMetrics decorate any Source. DirComponent
// registers a DirSource with the application lifecycle.
package workflow
