package providers

// ConfidenceFromFinishReason derives an advisory confidence score from a
// normalized finish reason. A natural stop reads as high confidence, a
// length truncation as partial, a safety filter as low. The score is
// metadata only and never drives control flow.
func ConfidenceFromFinishReason(reason string) float64 {
	switch reason {
	case FinishStop:
		return 0.9
	case FinishLength:
		return 0.6
	case FinishContentFilter:
		return 0.3
	case "":
		return 0.5
	default:
		return 0.5
	}
}
