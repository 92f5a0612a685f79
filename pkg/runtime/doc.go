// Package runtime owns the configured provider set. The factory maps
// provider ids onto vendor-family adapters; the manager dispatches every
// call through capability gating and the outbound privacy guard, records
// metrics and usage, and supports atomic reconfiguration.
package runtime
