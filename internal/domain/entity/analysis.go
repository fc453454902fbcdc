package entity

import "encoding/json"

// AnalysisEntry holds one run's AI recommendation. The analysis collaborator
// sometimes returns structured JSON and sometimes free text, so exactly one of
// Structured or Recommendation is set. Raw keeps the unparsed response for
// auditing either way.
type AnalysisEntry struct {
	Structured     map[string]interface{} `json:"structured,omitempty"`
	Recommendation string                 `json:"recommendation,omitempty"`
	Raw            string                 `json:"raw_response,omitempty"`
}

// NewStructuredAnalysis wraps a parsed JSON response.
func NewStructuredAnalysis(fields map[string]interface{}, raw string) *AnalysisEntry {
	return &AnalysisEntry{Structured: fields, Raw: raw}
}

// NewTextAnalysis wraps a free-text response.
func NewTextAnalysis(text string) *AnalysisEntry {
	return &AnalysisEntry{Recommendation: text, Raw: text}
}

// Summary returns the human-readable recommendation regardless of which shape
// the collaborator produced.
func (a *AnalysisEntry) Summary() string {
	if a == nil {
		return ""
	}
	if a.Recommendation != "" {
		return a.Recommendation
	}
	if len(a.Structured) > 0 {
		if rec, ok := a.Structured["recommendation"].(string); ok && rec != "" {
			return rec
		}
		if data, err := json.MarshalIndent(a.Structured, "", "  "); err == nil {
			return string(data)
		}
	}
	return a.Raw
}

// IsStructured reports whether the entry carries parsed fields.
func (a *AnalysisEntry) IsStructured() bool {
	return a != nil && len(a.Structured) > 0
}
