// Package resilience retries transient failures with exponential backoff
// and jitter.
//
//	defs, err := resilience.Retry(ctx, cfg, func() ([]workflow.Definition, error) {
//	    return src.ListWorkflows(ctx)
//	})
package resilience
