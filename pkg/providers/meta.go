package providers

import "github.com/google/uuid"

// Metadata keys set on every Result.
const (
	MetaProvider     = "provider"
	MetaModel        = "model"
	MetaRequestID    = "request_id"
	MetaFinishReason = "finish_reason"
	MetaStreamed     = "streamed"
)

// NewResultMetadata builds the base metadata map for a call result. Every
// call gets a fresh request id so results can be correlated with logs and
// usage records.
func NewResultMetadata(provider, model string, streamed bool) map[string]string {
	md := map[string]string{
		MetaProvider:  provider,
		MetaModel:     model,
		MetaRequestID: uuid.NewString(),
	}
	if streamed {
		md[MetaStreamed] = "true"
	}
	return md
}
