// Package actions exposes the high-level prompt-templated operations
// (explain, refactor, infer_schema, ...) built on the provider runtime.
// Every action run produces a normalized Result; provider failures are
// folded into it rather than surfaced as Go errors.
package actions
