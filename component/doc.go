// Package component defines lifecycle-managed pieces of the service.
//
// A Component is started in registration order, stopped in reverse order,
// and reports its health to the HTTP health endpoints. Components that
// implement Describable appear in the startup summary.
package component
