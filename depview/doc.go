// Package depview renders a cached dependency graph into the node/edge
// document consumed by the browser-side graph renderer.
//
// Node ids keep the "[d]workflow", "[t]workflow#task" and
// "[i]workflow#dependency" form so links and bookmarks stay stable across
// refreshes.
package depview
