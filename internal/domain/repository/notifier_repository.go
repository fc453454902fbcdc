package repository

import (
	"context"

	"farewatch/internal/domain/entity"
)

// Notifier defines the interface for best-effort delivery of a run's result
// to a human. Failure is reported but must never become fatal to the caller.
type Notifier interface {
	SendAnalysis(ctx context.Context, criteria entity.SearchCriteria, offers []entity.Offer, analysis *entity.AnalysisEntry) error
}
