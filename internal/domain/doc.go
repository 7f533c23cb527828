// Package domain defines the core business types for the pipeline monitor.
//
// Types in this package are pure value objects with no behavior beyond
// simple pure functions, no database dependencies, and no HTTP concerns.
// They are the shared language between ingestion, rules, analytics, and
// the API layer.
//
// Rules for this package:
//   - No imports from other internal/ packages
//   - No http.Request, no context.Context in struct fields
//   - JSON tags are allowed (they're metadata, not behavior)
//   - Constants and enums belong here
package domain
