// Package gemini implements the provider adapter for the Google
// generateContent API family. Streaming uses the separate
// streamGenerateContent verb with alt=sse; the decoder also accepts the
// bare JSON-array shape the endpoint emits to non-SSE clients. The
// assistant role is renamed to "model" on the wire, and reasoning
// ("thinking") model variants never receive a systemInstruction field.
package gemini
