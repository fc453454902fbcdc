package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"farewatch/internal/domain/entity"
	"farewatch/internal/domain/repository"
	"farewatch/pkg/logger"
	"farewatch/pkg/metrics"
)

// fakeCollector returns canned offers or a canned error.
type fakeCollector struct {
	name   string
	offers []entity.Offer
	err    error
}

func (c *fakeCollector) Name() string { return c.name }

func (c *fakeCollector) Search(ctx context.Context, criteria entity.SearchCriteria) ([]entity.Offer, error) {
	return c.offers, c.err
}

// memHistory records everything in memory and mirrors the store semantics the
// pipeline relies on.
type memHistory struct {
	offers   map[string][]entity.Offer
	analyses map[string]*entity.AnalysisEntry
	series   entity.PriceSeries
}

func newMemHistory() *memHistory {
	return &memHistory{
		offers:   map[string][]entity.Offer{},
		analyses: map[string]*entity.AnalysisEntry{},
	}
}

func (h *memHistory) RecordOffers(timestamp string, offers []entity.Offer) error {
	if _, ok := h.offers[timestamp]; ok {
		return repository.ErrDuplicateRun
	}
	h.offers[timestamp] = offers
	if sum, ok := entity.SummarizeOffers(timestamp, offers); ok {
		h.series.Accumulate(sum)
	}
	return nil
}

func (h *memHistory) RecordAnalysis(timestamp string, analysis *entity.AnalysisEntry) error {
	h.analyses[timestamp] = analysis
	return nil
}

func (h *memHistory) LatestOffers() ([]entity.Offer, error) {
	if len(h.offers) == 0 {
		return nil, repository.ErrNotFound
	}
	var latest string
	for k := range h.offers {
		if k > latest {
			latest = k
		}
	}
	return h.offers[latest], nil
}

func (h *memHistory) LatestAnalysis() (*entity.AnalysisEntry, error) {
	if len(h.analyses) == 0 {
		return nil, repository.ErrNotFound
	}
	var latest string
	for k := range h.analyses {
		if k > latest {
			latest = k
		}
	}
	return h.analyses[latest], nil
}

func (h *memHistory) PriceHistory() entity.PriceSeries { return h.series }

type fakeAnalyzer struct {
	entry   *entity.AnalysisEntry
	err     error
	prompts []string
}

func (a *fakeAnalyzer) Analyze(ctx context.Context, prompt string) (*entity.AnalysisEntry, error) {
	a.prompts = append(a.prompts, prompt)
	if a.err != nil {
		return nil, a.err
	}
	return a.entry, nil
}

type fakeNotifier struct {
	sent []*entity.AnalysisEntry
	err  error
}

func (n *fakeNotifier) SendAnalysis(ctx context.Context, criteria entity.SearchCriteria, offers []entity.Offer, analysis *entity.AnalysisEntry) error {
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, analysis)
	return nil
}

func somePrice(v float64) *float64 { return &v }

func testPipeline(t *testing.T, collectors []repository.Collector, history repository.HistoryRepository, analyzer repository.Analyzer, notifier repository.Notifier, opts ...PipelineOption) *Pipeline {
	t.Helper()
	m := metrics.NewMetricsWith(prometheus.NewRegistry(), "test")
	criteria := entity.SearchCriteria{DepartureAirport: "IAD", DestinationAirport: "IDR", Passengers: 1}
	return NewPipeline(criteria, collectors, history, analyzer, notifier, m, logger.NewLogger("error"), opts...)
}

func TestRunOnceHappyPath(t *testing.T) {
	history := newMemHistory()
	analyzer := &fakeAnalyzer{entry: entity.NewTextAnalysis("book now")}
	notifier := &fakeNotifier{}
	collectors := []repository.Collector{
		&fakeCollector{name: "google_flights", offers: []entity.Offer{
			{Source: "google_flights", Price: somePrice(500)},
		}},
		&fakeCollector{name: "expedia", offers: []entity.Offer{
			{Source: "expedia", Price: somePrice(650)},
		}},
	}

	p := testPipeline(t, collectors, history, analyzer, notifier)
	if err := p.RunOnce(context.Background()); err != nil {
		t.Fatalf("RunOnce: %v", err)
	}

	offers, err := history.LatestOffers()
	if err != nil || len(offers) != 2 {
		t.Fatalf("expected 2 persisted offers, got %d (%v)", len(offers), err)
	}
	if len(analyzer.prompts) != 1 {
		t.Fatalf("analyzer called %d times, want 1", len(analyzer.prompts))
	}
	analysis, err := history.LatestAnalysis()
	if err != nil || analysis.Summary() != "book now" {
		t.Errorf("analysis not persisted: %v", err)
	}
	if len(notifier.sent) != 1 {
		t.Errorf("notifier called %d times, want 1", len(notifier.sent))
	}
}

func TestRunOnceSourceFailureIsolated(t *testing.T) {
	history := newMemHistory()
	analyzer := &fakeAnalyzer{entry: entity.NewTextAnalysis("ok")}
	collectors := []repository.Collector{
		&fakeCollector{name: "google_flights", err: errors.New("timeout waiting for results")},
		&fakeCollector{name: "expedia", offers: []entity.Offer{
			{Source: "expedia", Price: somePrice(400)},
			{Source: "expedia", Price: somePrice(450)},
		}},
	}

	p := testPipeline(t, collectors, history, analyzer, &fakeNotifier{})
	if err := p.RunOnce(context.Background()); err != nil {
		t.Fatalf("one failed source must not abort the run: %v", err)
	}

	offers, err := history.LatestOffers()
	if err != nil {
		t.Fatalf("offers not persisted: %v", err)
	}
	if len(offers) != 2 {
		t.Errorf("expected exactly the surviving source's 2 offers, got %d", len(offers))
	}
}

func TestRunOnceAllSourcesFail(t *testing.T) {
	history := newMemHistory()
	analyzer := &fakeAnalyzer{entry: entity.NewTextAnalysis("ok")}
	notifier := &fakeNotifier{}
	collectors := []repository.Collector{
		&fakeCollector{name: "google_flights", err: errors.New("timeout")},
		&fakeCollector{name: "expedia", err: errors.New("timeout")},
	}

	p := testPipeline(t, collectors, history, analyzer, notifier)
	if err := p.RunOnce(context.Background()); err != nil {
		t.Fatalf("RunOnce: %v", err)
	}

	// The empty run is still recorded for audit.
	offers, err := history.LatestOffers()
	if err != nil {
		t.Fatalf("empty run not persisted: %v", err)
	}
	if len(offers) != 0 {
		t.Errorf("expected empty offer list, got %d", len(offers))
	}
	// And nothing downstream fires.
	if len(analyzer.prompts) != 0 {
		t.Error("analysis must be skipped for an empty run")
	}
	if len(notifier.sent) != 0 {
		t.Error("notification must be skipped for an empty run")
	}
}

func TestRunOnceAnalysisFailure(t *testing.T) {
	history := newMemHistory()
	analyzer := &fakeAnalyzer{err: errors.New("api returned status 503")}
	notifier := &fakeNotifier{}
	collectors := []repository.Collector{
		&fakeCollector{name: "expedia", offers: []entity.Offer{{Source: "expedia", Price: somePrice(500)}}},
	}

	p := testPipeline(t, collectors, history, analyzer, notifier)
	if err := p.RunOnce(context.Background()); err != nil {
		t.Fatalf("analysis failure must not abort: %v", err)
	}

	if _, err := history.LatestOffers(); err != nil {
		t.Error("offers must stay persisted when analysis fails")
	}
	if _, err := history.LatestAnalysis(); !errors.Is(err, repository.ErrNotFound) {
		t.Error("no analysis entry may be recorded for a failed analysis")
	}
	if len(notifier.sent) != 0 {
		t.Error("without notify-on-failure the run ends after the analysis failure")
	}
}

func TestRunOnceAnalysisFailureNotifiesWhenConfigured(t *testing.T) {
	history := newMemHistory()
	analyzer := &fakeAnalyzer{err: errors.New("boom")}
	notifier := &fakeNotifier{}
	collectors := []repository.Collector{
		&fakeCollector{name: "expedia", offers: []entity.Offer{{Source: "expedia", Price: somePrice(500)}}},
	}

	p := testPipeline(t, collectors, history, analyzer, notifier, WithNotifyOnFailure())
	if err := p.RunOnce(context.Background()); err != nil {
		t.Fatalf("RunOnce: %v", err)
	}

	if len(notifier.sent) != 1 {
		t.Fatalf("notifier called %d times, want 1", len(notifier.sent))
	}
	if notifier.sent[0] != nil {
		t.Error("failure notification should carry no analysis")
	}
}

func TestRunOnceNotificationFailureNonFatal(t *testing.T) {
	history := newMemHistory()
	analyzer := &fakeAnalyzer{entry: entity.NewTextAnalysis("ok")}
	notifier := &fakeNotifier{err: errors.New("smtp: connection refused")}
	collectors := []repository.Collector{
		&fakeCollector{name: "expedia", offers: []entity.Offer{{Source: "expedia", Price: somePrice(500)}}},
	}

	p := testPipeline(t, collectors, history, analyzer, notifier)
	if err := p.RunOnce(context.Background()); err != nil {
		t.Fatalf("notification failure must not abort: %v", err)
	}

	// Persisted state is untouched by the delivery failure.
	if _, err := history.LatestOffers(); err != nil {
		t.Error("offers rolled back on notification failure")
	}
	if _, err := history.LatestAnalysis(); err != nil {
		t.Error("analysis rolled back on notification failure")
	}
}

func TestRunOnceWithoutNotifier(t *testing.T) {
	history := newMemHistory()
	analyzer := &fakeAnalyzer{entry: entity.NewTextAnalysis("ok")}
	collectors := []repository.Collector{
		&fakeCollector{name: "expedia", offers: []entity.Offer{{Source: "expedia", Price: somePrice(500)}}},
	}

	p := testPipeline(t, collectors, history, analyzer, nil)
	if err := p.RunOnce(context.Background()); err != nil {
		t.Fatalf("missing notifier must not abort: %v", err)
	}
}
