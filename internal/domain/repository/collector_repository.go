package repository

import (
	"context"

	"farewatch/internal/domain/entity"
)

// Collector defines the interface for one flight-data source. An empty result
// is not an error; errors signal transport or timeout failure only, and the
// orchestrator isolates them per source.
type Collector interface {
	// Name identifies the source in logs and offer records.
	Name() string

	// Search collects current offers matching the criteria.
	Search(ctx context.Context, criteria entity.SearchCriteria) ([]entity.Offer, error)
}
