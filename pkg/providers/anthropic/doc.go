// Package anthropic implements the provider adapter for the Anthropic
// messages API: x-api-key auth with a pinned anthropic-version header,
// system instructions in the dedicated request field, and typed SSE events
// (content_block_delta, message_delta, message_stop) for streaming.
package anthropic
