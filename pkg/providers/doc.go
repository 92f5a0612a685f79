// Package providers defines the provider abstraction for the Scribe AI
// runtime: the Provider interface, the provider-agnostic value types
// (models, messages, results, call parameters), the shared HTTP layer, and
// the error taxonomy every adapter classifies into.
//
// Concrete adapters live in subpackages, one per vendor family:
//
//   - openaicompat: OpenAI-compatible REST + SSE (OpenAI, Groq, Mistral)
//   - anthropic: Anthropic-style messages API with typed SSE events
//   - gemini: Google-style generateContent / streamGenerateContent
//   - ollama: local daemon with newline-delimited JSON streaming
//
// All four expose identical request/response and streaming semantics; the
// wire formats are private implementation details of each subpackage.
package providers
