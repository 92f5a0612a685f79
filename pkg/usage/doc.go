// Package usage persists per-call token accounting to SQLite and prunes
// old records on a cron schedule. The provider manager records one row per
// completed call; the CLI reads summaries back for reporting.
package usage
