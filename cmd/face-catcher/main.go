// cmd/face-catcher/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/murapadev/face-catcher/internal/adapters/output"
	"github.com/murapadev/face-catcher/internal/analyzers/deepface"
	"github.com/murapadev/face-catcher/internal/core/domain"
	"github.com/murapadev/face-catcher/internal/core/usecases"
	"github.com/murapadev/face-catcher/internal/platform/config"
	"github.com/murapadev/face-catcher/internal/platform/logx"
	"github.com/murapadev/face-catcher/internal/platform/resilience"
	"github.com/murapadev/face-catcher/internal/platform/ui"
	"github.com/murapadev/face-catcher/internal/sources/tpdne"
)

// confirmThreshold: lotes por encima de este tamaño piden confirmación.
const confirmThreshold = 1000

var (
	// Rellenables con -ldflags en build
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	// 1. Load centralized config
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: configuration load failed: %v\n", err)
		os.Exit(2)
	}

	if cfg.Core.PrintVersion {
		config.PrintVersion(version, commit, date)
		os.Exit(0)
	}

	if cfg.Core.Count <= 0 {
		fmt.Fprintln(os.Stderr, "Error: image count must be positive")
		fmt.Fprintln(os.Stderr, "Usage: face-catcher -n <count>")
		fmt.Fprintln(os.Stderr, "Try: face-catcher -h for help")
		os.Exit(2)
	}

	// 2. Shared logger
	logger := buildLogger(cfg)

	logger.Info("face-catcher starting",
		"version", version,
		"count", cfg.Core.Count,
		"workers", cfg.Core.Workers,
		"output_dir", cfg.Output.Dir,
	)

	// 3. Context and signals for clean shutdown
	ctx, cancel := rootContextWithSignals()
	defer cancel()

	// 4. Large batch confirmation
	if cfg.Core.Count > confirmThreshold && !cfg.Core.Yes && !cfg.Core.Quiet {
		question := fmt.Sprintf("Download %d images? This may take a while", cfg.Core.Count)
		if !ui.Confirm(question) {
			logger.Info("run aborted by user")
			os.Exit(0)
		}
	}

	// 5. Build collaborators
	source, err := tpdne.New(cfg.SourceConfig(), logger)
	if err != nil {
		logger.Err(err, "phase", "source-build")
		os.Exit(2)
	}
	defer closeQuietly(logger, "source", source.Close)

	analyzer, err := deepface.New(cfg.AnalyzerConfig(), logger)
	if err != nil {
		logger.Err(err, "phase", "analyzer-build")
		os.Exit(2)
	}
	defer closeQuietly(logger, "analyzer", analyzer.Close)

	bucketSet, err := cfg.BucketSet()
	if err != nil {
		logger.Err(err, "phase", "bucket-config")
		os.Exit(2)
	}

	var breaker *resilience.CircuitBreaker
	if cfg.Resilience.CircuitBreakerEnabled {
		breaker = resilience.NewCircuitBreaker(
			cfg.Resilience.CircuitBreakerThreshold,
			cfg.CircuitBreakerTimeout(),
			cfg.Resilience.CircuitBreakerHalfOpenMax,
		)
		logger.Debug("circuit breaker enabled",
			"threshold", cfg.Resilience.CircuitBreakerThreshold,
			"timeout", cfg.CircuitBreakerTimeout().String(),
		)
	}

	classifier := usecases.NewClassifier(cfg.Output.Dir, bucketSet, logger)
	fetcher := usecases.NewFetcher(source, breaker, usecases.FetchConfig{
		RawDir:      classifier.RawDir(),
		Attempts:    cfg.Source.RetryAttempts,
		BackoffBase: cfg.BackoffBase(),
		Workers:     cfg.Core.Workers,
	}, logger)
	exporter := output.NewJSONExporter()

	presenter := buildPresenter(cfg)
	defer presenter.Close()

	orch := usecases.NewOrchestrator(fetcher, analyzer, classifier, exporter, presenter, logger, usecases.Options{
		Count:          cfg.Core.Count,
		AnalyzeWorkers: cfg.Core.Workers,
		OutputDir:      cfg.Output.Dir,
		Pretty:         cfg.Output.Pretty,
		Provenance: domain.Provenance{
			Endpoint:        cfg.Source.Endpoint,
			DetectorBackend: analyzer.DetectorBackend(),
			Workers:         cfg.Core.Workers,
			RetryAttempts:   cfg.Source.RetryAttempts,
			AgeBuckets:      bucketSet,
		},
	})

	presenter.Start(ui.RunInfo{
		Count:          cfg.Core.Count,
		Workers:        cfg.Core.Workers,
		Endpoint:       cfg.Source.Endpoint,
		Detector:       analyzer.DetectorBackend(),
		OutputDir:      cfg.Output.Dir,
		TimeoutSeconds: cfg.Source.TimeoutS,
		ProxyURL:       cfg.Source.ProxyURL,
	})

	// 6. Execute run
	start := time.Now()
	report, runErr := orch.Run(ctx)
	elapsed := time.Since(start)

	// 7. Summary and exit code. Un run cancelado o con el informe sin
	// persistir es fallo; fallos por-imagen no lo son.
	if report != nil {
		logger.Info("face-catcher finished",
			"elapsed_ms", elapsed.Milliseconds(),
			"requested", report.Stats.Requested,
			"fetched", report.Stats.Fetched,
			"classified", report.Stats.Classified,
		)
	}

	if runErr != nil {
		logger.Err(runErr, "phase", "run", "elapsed_ms", elapsed.Milliseconds())
		os.Exit(1)
	}
}

// buildLogger configura el logger según los flags de verbosidad.
func buildLogger(cfg config.Config) logx.Logger {
	switch {
	case cfg.Core.Verbose:
		return logx.NewWithLevel(logx.LevelDebug)
	case cfg.Core.Quiet:
		return logx.NewWithLevel(logx.LevelWarn)
	default:
		return logx.New()
	}
}

// buildPresenter selecciona la salida de progreso: silenciosa en quiet,
// logs estructurados si FACE_CATCHER_LOG_FORMAT lo pide, pterm por defecto.
func buildPresenter(cfg config.Config) ui.Presenter {
	if cfg.Core.Quiet {
		return ui.NewNoopPresenter()
	}
	switch os.Getenv("FACE_CATCHER_LOG_FORMAT") {
	case "text":
		return ui.NewRawPresenter(ui.LogFormatText)
	case "json":
		return ui.NewRawPresenter(ui.LogFormatJSON)
	default:
		return ui.NewPTermPresenter()
	}
}

func closeQuietly(logger logx.Logger, name string, close func() error) {
	if err := close(); err != nil {
		logger.Warn("failed to close "+name, "error", err.Error())
	}
}

// rootContextWithSignals creates a root context canceled on SIGINT/SIGTERM.
// Returns a cancel function that cleans up the signal handler.
func rootContextWithSignals() (context.Context, context.CancelFunc) {
	base, baseCancel := context.WithCancel(context.Background())

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case <-ch:
			baseCancel()
		case <-base.Done():
		}
	}()

	cleanupCancel := func() {
		signal.Stop(ch)
		baseCancel()
	}

	return base, cleanupCancel
}
