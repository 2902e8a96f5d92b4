// Package graphcache caches the workflow dependency graph and rebuilds it
// lazily on read once it exceeds the configured refresh interval.
//
// # Usage
//
//	cache := graphcache.New(source, 5*time.Minute)
//	snap, err := cache.Get(ctx)
//	if err != nil && !snap.Built() {
//	    // no graph to show yet
//	}
package graphcache
