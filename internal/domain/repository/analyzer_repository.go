package repository

import (
	"context"

	"farewatch/internal/domain/entity"
)

// Analyzer defines the interface for the natural-language analysis
// collaborator. Transport and timeout failures surface as errors; a
// successful empty response is a valid (empty) entry.
type Analyzer interface {
	Analyze(ctx context.Context, prompt string) (*entity.AnalysisEntry, error)
}
