// Package ollama implements the provider adapter for a local Ollama
// daemon: unauthenticated REST with newline-delimited JSON streaming
// (one complete object per line, done:true terminator). It is the one
// local provider; the privacy guard never blocks calls to it.
package ollama
