// Scribe is a multi-provider AI client runtime for document and code
// assistance.
//
// It exposes one uniform completion/chat/streaming surface over OpenAI,
// Groq, Mistral, Anthropic, Google Gemini, and local Ollama daemons, with:
//   - Secret scanning and redaction before content leaves the machine
//   - Capability-gated dispatch and provider auto-selection
//   - Prompt-templated actions (explain, refactor, infer_schema, ...)
//   - Local SQLite usage accounting
//
// Usage:
//
//	# List configured providers
//	scribe providers list
//
//	# Validate a provider's credentials
//	scribe providers validate anthropic
//
//	# Run a completion
//	scribe complete --prompt "Write a haiku about Go"
//
//	# Run an action over a file
//	scribe action explain --file main.go
//
//	# Summarize local usage
//	scribe usage summary --since 168h
package main

func main() {
	Execute()
}
