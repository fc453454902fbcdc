package usecase

import (
	"context"
	"fmt"
	"time"

	"farewatch/internal/domain/entity"
	"farewatch/internal/domain/repository"
	"farewatch/pkg/logger"
	"farewatch/pkg/metrics"
)

// Pipeline drives one scheduled run through its states: collect offers from
// every source, persist them, build and send the analysis request, persist
// the analysis, and hand the result to the notifier. Failures are contained
// at the state where they occur; committed persistence is never rolled back.
type Pipeline struct {
	criteria        entity.SearchCriteria
	collectors      []repository.Collector
	history         repository.HistoryRepository
	analyzer        repository.Analyzer
	notifier        repository.Notifier
	archive         repository.OfferArchive
	metrics         *metrics.Metrics
	logger          logger.Logger
	collectTimeout  time.Duration
	notifyOnFailure bool
}

// PipelineOption customizes optional pipeline behavior.
type PipelineOption func(*Pipeline)

// WithOfferArchive mirrors every persisted run into the relational archive.
func WithOfferArchive(archive repository.OfferArchive) PipelineOption {
	return func(p *Pipeline) { p.archive = archive }
}

// WithNotifyOnFailure sends a notification even when the analysis call fails,
// so the recipient still learns the run happened.
func WithNotifyOnFailure() PipelineOption {
	return func(p *Pipeline) { p.notifyOnFailure = true }
}

// WithCollectTimeout bounds each source's collection call.
func WithCollectTimeout(d time.Duration) PipelineOption {
	return func(p *Pipeline) { p.collectTimeout = d }
}

// NewPipeline creates a pipeline over the given collaborators.
func NewPipeline(
	criteria entity.SearchCriteria,
	collectors []repository.Collector,
	history repository.HistoryRepository,
	analyzer repository.Analyzer,
	notifier repository.Notifier,
	m *metrics.Metrics,
	log logger.Logger,
	opts ...PipelineOption,
) *Pipeline {
	p := &Pipeline{
		criteria:       criteria,
		collectors:     collectors,
		history:        history,
		analyzer:       analyzer,
		notifier:       notifier,
		metrics:        m,
		logger:         log,
		collectTimeout: 90 * time.Second,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// RunOnce executes a single run. The returned error is non-nil only when the
// run aborted before its offers could be persisted; every later failure is
// logged and contained.
func (p *Pipeline) RunOnce(ctx context.Context) error {
	start := time.Now()
	timestamp := start.Format(time.RFC3339)

	p.logger.Info("Starting search run",
		"timestamp", timestamp,
		"route", p.criteria.DepartureAirport+"-"+p.criteria.DestinationAirport)
	p.metrics.RunsStarted.Inc()
	defer func() {
		p.metrics.RunDuration.Observe(time.Since(start).Seconds())
	}()

	offers := p.collect(ctx)

	if err := p.persist(ctx, timestamp, offers); err != nil {
		p.metrics.Errors.WithLabelValues("persist").Inc()
		return err
	}

	if len(offers) == 0 {
		p.logger.Warn("No offers collected, skipping analysis", "timestamp", timestamp)
		return nil
	}

	analysis := p.analyze(ctx, timestamp, offers)
	if analysis == nil && !p.notifyOnFailure {
		return nil
	}

	p.notify(ctx, offers, analysis)
	p.logger.Info("Search run completed", "timestamp", timestamp, "offers", len(offers))
	return nil
}

// collect queries every configured source. A failing source is logged and
// skipped; offers from the remaining sources are kept.
func (p *Pipeline) collect(ctx context.Context) []entity.Offer {
	var offers []entity.Offer
	for _, c := range p.collectors {
		srcCtx, cancel := context.WithTimeout(ctx, p.collectTimeout)
		found, err := c.Search(srcCtx, p.criteria)
		cancel()
		if err != nil {
			p.logger.Error("Collection source failed", "source", c.Name(), "error", err)
			p.metrics.Errors.WithLabelValues("collect").Inc()
			continue
		}
		p.logger.Info("Collection source done", "source", c.Name(), "offers", len(found))
		offers = append(offers, found...)
	}
	p.metrics.OffersCollected.Add(float64(len(offers)))
	return offers
}

func (p *Pipeline) persist(ctx context.Context, timestamp string, offers []entity.Offer) error {
	if err := p.history.RecordOffers(timestamp, offers); err != nil {
		return fmt.Errorf("persisting offers for %s: %w", timestamp, err)
	}
	if p.archive != nil {
		if err := p.archive.ArchiveRun(ctx, timestamp, offers); err != nil {
			p.logger.Error("Offer archive write failed", "timestamp", timestamp, "error", err)
			p.metrics.Errors.WithLabelValues("archive").Inc()
		}
	}
	return nil
}

// analyze builds the prompt, calls the analysis collaborator and persists the
// result. Returns nil when the call failed; the run's offers stay committed
// and no analysis entry is written for the timestamp.
func (p *Pipeline) analyze(ctx context.Context, timestamp string, offers []entity.Offer) *entity.AnalysisEntry {
	prompt := BuildAnalysisPrompt(p.criteria, offers, p.history.PriceHistory())

	analysis, err := p.analyzer.Analyze(ctx, prompt)
	if err != nil {
		p.logger.Error("Analysis failed", "timestamp", timestamp, "error", err)
		p.metrics.Errors.WithLabelValues("analyze").Inc()
		return nil
	}

	if err := p.history.RecordAnalysis(timestamp, analysis); err != nil {
		p.logger.Error("Failed to persist analysis", "timestamp", timestamp, "error", err)
		p.metrics.Errors.WithLabelValues("persist").Inc()
	}
	return analysis
}

func (p *Pipeline) notify(ctx context.Context, offers []entity.Offer, analysis *entity.AnalysisEntry) {
	if p.notifier == nil {
		return
	}
	if err := p.notifier.SendAnalysis(ctx, p.criteria, offers, analysis); err != nil {
		p.logger.Error("Notification failed", "error", err)
		p.metrics.Errors.WithLabelValues("notify").Inc()
		return
	}
	p.metrics.NotificationsSent.Inc()
}
