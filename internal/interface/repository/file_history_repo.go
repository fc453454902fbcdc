package repository

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"farewatch/internal/domain/entity"
	"farewatch/internal/domain/repository"
	"farewatch/pkg/logger"
)

const (
	flightsFile  = "flights_history.json"
	analysisFile = "analysis_history.json"
	pricesFile   = "price_tracking.json"
)

// FileHistoryRepository implements HistoryRepository on top of three JSON
// documents in a data directory. Every mutation rewrites the whole backing
// file through a temp-file rename, so a crash mid-write can at worst lose the
// update in flight, never produce a logically inconsistent merge.
type FileHistoryRepository struct {
	dataDir string
	logger  logger.Logger
}

// NewFileHistoryRepository creates the data directory if needed and returns a
// store rooted there.
func NewFileHistoryRepository(dataDir string, log logger.Logger) (*FileHistoryRepository, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	return &FileHistoryRepository{dataDir: dataDir, logger: log}, nil
}

// RecordOffers appends a run's offers and updates the price series when the
// run carried at least one priced offer.
func (r *FileHistoryRepository) RecordOffers(timestamp string, offers []entity.Offer) error {
	history := map[string][]entity.Offer{}
	r.loadJSON(flightsFile, &history)

	if _, exists := history[timestamp]; exists {
		return fmt.Errorf("offers for %s: %w", timestamp, repository.ErrDuplicateRun)
	}
	if offers == nil {
		offers = []entity.Offer{}
	}
	history[timestamp] = offers

	if err := r.saveJSON(flightsFile, history); err != nil {
		return fmt.Errorf("saving flight history: %w", err)
	}
	r.logger.Info("Saved flight offers", "timestamp", timestamp, "count", len(offers))

	if summary, ok := entity.SummarizeOffers(timestamp, offers); ok {
		if err := r.accumulateSeries(summary); err != nil {
			return fmt.Errorf("updating price tracking: %w", err)
		}
	}
	return nil
}

// RecordAnalysis appends a run's analysis entry.
func (r *FileHistoryRepository) RecordAnalysis(timestamp string, analysis *entity.AnalysisEntry) error {
	history := map[string]*entity.AnalysisEntry{}
	r.loadJSON(analysisFile, &history)

	history[timestamp] = analysis
	if err := r.saveJSON(analysisFile, history); err != nil {
		return fmt.Errorf("saving analysis history: %w", err)
	}
	r.logger.Info("Saved analysis", "timestamp", timestamp)
	return nil
}

// LatestOffers returns the offers from the most recent run.
func (r *FileHistoryRepository) LatestOffers() ([]entity.Offer, error) {
	history := map[string][]entity.Offer{}
	r.loadJSON(flightsFile, &history)

	latest := latestKey(historyKeys(history))
	if latest == "" {
		return nil, repository.ErrNotFound
	}
	return history[latest], nil
}

// LatestAnalysis returns the most recent analysis entry.
func (r *FileHistoryRepository) LatestAnalysis() (*entity.AnalysisEntry, error) {
	history := map[string]*entity.AnalysisEntry{}
	r.loadJSON(analysisFile, &history)

	latest := latestKey(analysisKeys(history))
	if latest == "" {
		return nil, repository.ErrNotFound
	}
	return history[latest], nil
}

// PriceHistory returns the accumulated price series, empty when nothing has
// been recorded yet.
func (r *FileHistoryRepository) PriceHistory() entity.PriceSeries {
	var series entity.PriceSeries
	r.loadJSON(pricesFile, &series)
	return series
}

func (r *FileHistoryRepository) accumulateSeries(summary entity.RunSummary) error {
	var series entity.PriceSeries
	r.loadJSON(pricesFile, &series)

	series.Accumulate(summary)
	if err := r.saveJSON(pricesFile, &series); err != nil {
		return err
	}
	r.logger.Info("Updated price tracking",
		"timestamp", summary.Timestamp,
		"min", summary.MinPrice,
		"max", summary.MaxPrice,
		"avg", summary.AvgPrice)
	return nil
}

// loadJSON reads one backing document into out. A missing or corrupt file is
// recoverable: out is left at its zero value and corruption is logged.
func (r *FileHistoryRepository) loadJSON(name string, out interface{}) {
	path := filepath.Join(r.dataDir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			r.logger.Warn("Failed to read store file, treating as empty", "file", name, "error", err)
		}
		return
	}
	if err := json.Unmarshal(data, out); err != nil {
		r.logger.Warn("Invalid JSON in store file, treating as empty", "file", name, "error", err)
	}
}

// saveJSON rewrites one backing document atomically.
func (r *FileHistoryRepository) saveJSON(name string, in interface{}) error {
	path := filepath.Join(r.dataDir, name)
	data, err := json.MarshalIndent(in, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", name, err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replacing %s: %w", name, err)
	}
	return nil
}

func historyKeys(m map[string][]entity.Offer) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}

func analysisKeys(m map[string]*entity.AnalysisEntry) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}

// latestKey picks the greatest key; RFC3339 timestamps sort chronologically
// as strings.
func latestKey(keys []string) string {
	var latest string
	for _, k := range keys {
		if k > latest {
			latest = k
		}
	}
	return latest
}
