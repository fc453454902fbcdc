package repository

import (
	"farewatch/internal/domain/entity"
)

// HistoryRepository defines the interface for the append-only run history and
// its derived price series. Implementations own all persisted collections;
// callers never mutate returned data in place.
type HistoryRepository interface {
	// RecordOffers appends a run's offers keyed by its timestamp and folds
	// any priced offers into the price series. Returns ErrDuplicateRun if
	// the timestamp was already recorded.
	RecordOffers(timestamp string, offers []entity.Offer) error

	// RecordAnalysis appends a run's analysis keyed by the same timestamp
	// used for its offers.
	RecordAnalysis(timestamp string, analysis *entity.AnalysisEntry) error

	// LatestOffers returns the offers of the most recent run, or
	// ErrNotFound when nothing has been recorded.
	LatestOffers() ([]entity.Offer, error)

	// LatestAnalysis returns the most recent analysis entry, or
	// ErrNotFound when nothing has been recorded.
	LatestAnalysis() (*entity.AnalysisEntry, error)

	// PriceHistory returns the accumulated price series. Never fails; an
	// empty store yields the zero series.
	PriceHistory() entity.PriceSeries
}
