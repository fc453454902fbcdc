package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"farewatch/internal/domain/repository"
	"farewatch/internal/infrastructure/config"
	"farewatch/internal/infrastructure/oauth"
	"farewatch/internal/interface/collector"
	"farewatch/internal/interface/llm"
	"farewatch/internal/interface/mailer"
	fileRepo "farewatch/internal/interface/repository"
	"farewatch/internal/usecase"
	"farewatch/pkg/logger"
	"farewatch/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	// Create logger
	log := logger.NewLogger(os.Getenv("LOG_LEVEL"))
	defer log.Sync()
	log.Info("Starting Farewatch Agent")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config", "error", err)
	}
	log.Info("Search criteria loaded",
		"route", cfg.Search.DepartureAirport+"-"+cfg.Search.DestinationAirport,
		"departure", cfg.Search.DepartureDateStart+".."+cfg.Search.DepartureDateEnd,
		"return", cfg.Search.ReturnDateStart+".."+cfg.Search.ReturnDateEnd,
		"passengers", cfg.Search.Passengers,
		"class", cfg.Search.TravelClass)

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up the history store
	history, err := fileRepo.NewFileHistoryRepository(cfg.DataDir, log)
	if err != nil {
		log.Fatal("Failed to open history store", "error", err)
	}

	// Set up metrics
	m := metrics.NewMetrics("farewatch")

	// Set up collection sources
	collectors := []repository.Collector{
		collector.NewGoogleFlights(log),
		collector.NewExpedia(log),
	}

	// Set up the analysis client
	analyzer := llm.NewGrokClient(cfg.GrokAPIKey, cfg.GrokAPIBase, cfg.GrokModel,
		cfg.GrokTemp, cfg.GrokTimeout, log)

	// Set up the notifier
	notifier := buildNotifier(ctx, cfg, log)

	// Assemble the pipeline
	opts := []usecase.PipelineOption{
		usecase.WithCollectTimeout(cfg.CollectTimeout),
	}
	if cfg.NotifyOnFailure {
		opts = append(opts, usecase.WithNotifyOnFailure())
	}
	if cfg.PostgresDSN != "" {
		gormDB, err := gorm.Open(postgres.Open(cfg.PostgresDSN), &gorm.Config{})
		if err != nil {
			log.Fatal("Failed to connect to PostgreSQL", "error", err)
		}
		archive, err := fileRepo.NewGormOfferArchive(gormDB)
		if err != nil {
			log.Fatal("Failed to prepare offer archive", "error", err)
		}
		opts = append(opts, usecase.WithOfferArchive(archive))
		log.Info("Offer archive enabled")
	}

	pipeline := usecase.NewPipeline(cfg.Search, collectors, history, analyzer, notifier, m, log, opts...)
	scheduler := usecase.NewScheduler(pipeline, cfg.RunTime, log)

	// Start the scheduler loop in a goroutine
	go scheduler.Start(ctx)

	// Set up HTTP server for metrics
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Healthy"))
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      mux,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	// Start HTTP server in a goroutine
	go func() {
		log.Info("Starting HTTP server", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", "error", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	log.Info("Received signal", "signal", sig)

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", "error", err)
	}

	cancel() // Stop the scheduler loop

	log.Info("Farewatch Agent stopped")
}

// buildNotifier picks the configured transport. An unconfigured notifier is
// not fatal: runs still collect and persist, they just stay silent.
func buildNotifier(ctx context.Context, cfg *config.Config, log logger.Logger) repository.Notifier {
	switch cfg.Notifier {
	case "gmail":
		if !cfg.GmailConfigured() {
			log.Warn("Gmail notifier selected but not configured, notifications disabled")
			return nil
		}
		gmailOAuth := oauth.NewGmailOAuth(cfg.GmailClientID, cfg.GmailClientSecret, cfg.GmailRefreshToken, log)
		notifier, err := mailer.NewGmailNotifier(ctx, gmailOAuth.GetTokenSource(ctx), cfg.EmailTo, log)
		if err != nil {
			log.Warn("Failed to create Gmail notifier, notifications disabled", "error", err)
			return nil
		}
		return notifier
	default:
		if !cfg.SMTPConfigured() {
			log.Warn("SMTP settings incomplete, notifications disabled")
			return nil
		}
		return mailer.NewSMTPNotifier(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.EmailTo, log)
	}
}
