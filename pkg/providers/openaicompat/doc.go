// Package openaicompat implements the provider adapter for the
// OpenAI-compatible vendor family: OpenAI, Groq, and Mistral. All three
// speak the same chat-completions REST protocol with bearer-token auth and
// SSE streaming (`data: {json}` events terminated by `data: [DONE]`), so a
// single adapter serves them with per-vendor descriptors.
package openaicompat
