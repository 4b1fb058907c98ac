package domain

// Confidence ranks how sure a detector is about a match.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Rank orders confidences: high > medium > low > unknown.
func (c Confidence) Rank() int {
	switch c {
	case ConfidenceHigh:
		return 3
	case ConfidenceMedium:
		return 2
	case ConfidenceLow:
		return 1
	default:
		return 0
	}
}

// SuggestedTool is a tool recommendation derived from pasted content.
type SuggestedTool struct {
	Path        string     `json:"path"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Reason      string     `json:"reason"`
	Confidence  Confidence `json:"confidence"`
}
