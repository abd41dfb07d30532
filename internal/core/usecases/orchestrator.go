// internal/core/usecases/orchestrator.go
package usecases

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/murapadev/face-catcher/internal/core/domain"
	"github.com/murapadev/face-catcher/internal/core/ports"
	"github.com/murapadev/face-catcher/internal/platform/logx"
	"github.com/murapadev/face-catcher/internal/platform/ui"
)

// Options configura un run del pipeline.
type Options struct {
	// Count número de imágenes del batch
	Count int

	// AnalyzeWorkers concurrencia de la fase de análisis+clasificación
	AnalyzeWorkers int

	// OutputDir raíz del árbol de salida
	OutputDir string

	// Pretty formatea los informes JSON para lectura humana
	Pretty bool

	// Provenance eco de configuración que acompaña al informe
	Provenance domain.Provenance
}

// Orchestrator coordina las fases del pipeline: descarga en streaming,
// análisis y clasificación concurrentes por artefacto, y agregación con
// informe final. El informe se emite siempre, también en runs cancelados
// o parcialmente fallidos.
type Orchestrator struct {
	fetcher    *Fetcher
	analyzer   ports.FaceAnalyzer
	classifier *Classifier
	exporter   ports.Exporter
	presenter  ui.Presenter
	logger     logx.Logger
	opts       Options
}

// NewOrchestrator crea el orquestador con sus colaboradores.
func NewOrchestrator(
	fetcher *Fetcher,
	analyzer ports.FaceAnalyzer,
	classifier *Classifier,
	exporter ports.Exporter,
	presenter ui.Presenter,
	logger logx.Logger,
	opts Options,
) *Orchestrator {
	if opts.AnalyzeWorkers < 1 {
		opts.AnalyzeWorkers = 1
	}

	return &Orchestrator{
		fetcher:    fetcher,
		analyzer:   analyzer,
		classifier: classifier,
		exporter:   exporter,
		presenter:  presenter,
		logger:     logger.With("component", "orchestrator"),
		opts:       opts,
	}
}

// Run ejecuta el pipeline completo y retorna el informe del run.
// El error es no-nil si el run fue cancelado o el informe no pudo
// persistirse; un run con fallos por-imagen no es un error del run.
func (o *Orchestrator) Run(ctx context.Context) (*domain.RunReport, error) {
	start := time.Now()

	if err := o.classifier.EnsureDirs(); err != nil {
		return nil, err
	}

	aggregator := NewAggregator(o.opts.Count)

	phaseStart := time.Now()
	o.presenter.StartPhase(ui.PhaseInfo{
		Name:  "Processing faces",
		Total: o.opts.Count,
	})

	outcomes, err := o.fetcher.FetchBatch(ctx, o.opts.Count)
	if err != nil {
		return nil, err
	}

	var mu sync.Mutex
	records := make([]domain.ArtifactRecord, 0, o.opts.Count)

	// Grupo sin contexto: una imagen fallida nunca cancela a las demás.
	var g errgroup.Group
	g.SetLimit(o.opts.AnalyzeWorkers)

	for outcome := range outcomes {
		if !outcome.Success {
			aggregator.RecordFailedFetch()
			o.logger.Warn("fetch failed",
				"file", outcome.Filename,
				"reason", outcome.Reason.String(),
			)
			o.presenter.Advance(1)
			continue
		}

		aggregator.RecordFetched()

		oc := outcome
		g.Go(func() error {
			record, ok := o.process(ctx, oc, aggregator)
			if ok {
				mu.Lock()
				records = append(records, record)
				mu.Unlock()
			}
			o.presenter.Advance(1)
			return nil
		})
	}

	// Join: tras Wait no quedan escritores sobre el agregador
	g.Wait()
	o.presenter.FinishPhase(time.Since(phaseStart))

	stats := aggregator.Snapshot()
	if err := stats.CheckInvariants(); err != nil {
		o.logger.Err(err, "stage", "invariant-check")
	}

	sort.Slice(records, func(i, j int) bool { return records[i].Index < records[j].Index })

	report := &domain.RunReport{
		GeneratedAt: time.Now().UTC(),
		Duration:    time.Since(start),
		DurationMS:  time.Since(start).Milliseconds(),
		Stats:       stats,
		Records:     records,
		Provenance:  o.opts.Provenance,
	}

	// El informe se persiste siempre, también en runs cancelados
	exportErr := o.exporter.Export(report, ports.ExportOptions{
		OutputDir: o.opts.OutputDir,
		Pretty:    o.opts.Pretty,
	})
	if exportErr != nil {
		o.logger.Err(exportErr, "stage", "export")
	}

	o.presenter.Finish(ui.RunStats{
		Duration:              report.Duration,
		Requested:             stats.Requested,
		Fetched:               stats.Fetched,
		Analyzed:              stats.Analyzed,
		Classified:            stats.Classified,
		FailedFetch:           stats.FailedFetch,
		FailedAnalysis:        stats.FailedAnalysis,
		FailedClassification:  stats.FailedClassification,
		AgeDistribution:       stats.AgeDistribution,
		EthnicityDistribution: stats.EthnicityDistribution,
		OutputDir:             o.opts.OutputDir,
	})

	if ctx.Err() != nil {
		return report, fmt.Errorf("%w: %v", domain.ErrRunCanceled, ctx.Err())
	}

	return report, exportErr
}

// process analiza y clasifica un artefacto descargado. Retorna el registro
// por-artefacto y si debe incorporarse al informe (solo análisis con al
// menos una detección).
func (o *Orchestrator) process(ctx context.Context, outcome domain.FetchOutcome, aggregator *Aggregator) (domain.ArtifactRecord, bool) {
	payloads, err := o.analyzer.Analyze(ctx, outcome.Path)
	if err != nil || len(payloads) == 0 {
		aggregator.RecordFailedAnalysis()
		if err != nil {
			o.logger.Warn("analysis failed",
				"file", outcome.Filename,
				"error", err.Error(),
			)
		}
		return domain.ArtifactRecord{}, false
	}

	// Determinista: siempre la primera detección
	payload := payloads[0]
	payload.Normalize()
	aggregator.RecordAnalyzed()

	record := domain.ArtifactRecord{
		Index:     outcome.Index,
		Filename:  outcome.Filename,
		Analysis:  payload,
		Timestamp: time.Now().UTC(),
	}

	assignment, err := o.classifier.Classify(outcome, payload)
	if err != nil {
		aggregator.RecordFailedClassification()
		o.logger.Warn("classification failed",
			"file", outcome.Filename,
			"error", err.Error(),
		)
		return record, true
	}

	aggregator.RecordClassified(assignment)
	record.AgeBucket = assignment.AgeBucket
	record.EthnicityBucket = assignment.EthnicityBucket
	record.Classified = true

	return record, true
}
