// internal/core/usecases/fetcher.go
package usecases

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/murapadev/face-catcher/internal/core/domain"
	"github.com/murapadev/face-catcher/internal/core/ports"
	"github.com/murapadev/face-catcher/internal/platform/logx"
	"github.com/murapadev/face-catcher/internal/platform/resilience"
	"github.com/murapadev/face-catcher/internal/platform/workerpool"
)

// FetchConfig configura la fase de descarga.
type FetchConfig struct {
	// RawDir directorio donde persistir las imágenes descargadas
	RawDir string

	// Attempts intentos por índice (mínimo 1)
	Attempts int

	// BackoffBase base del backoff exponencial entre intentos
	BackoffBase time.Duration

	// Workers descargas concurrentes
	Workers int
}

// Fetcher descarga lotes de imágenes con concurrencia acotada.
// Garantiza exactamente un FetchOutcome por índice solicitado, también
// bajo cancelación: los índices cuyo resultado no llegó del pool se
// sintetizan como fallos de red.
type Fetcher struct {
	source  ports.ImageSource
	breaker *resilience.CircuitBreaker
	config  FetchConfig
	logger  logx.Logger
}

// NewFetcher crea un fetcher. El breaker es opcional (nil lo desactiva).
func NewFetcher(source ports.ImageSource, breaker *resilience.CircuitBreaker, cfg FetchConfig, logger logx.Logger) *Fetcher {
	if cfg.Attempts < 1 {
		cfg.Attempts = 1
	}
	if cfg.BackoffBase <= 0 {
		cfg.BackoffBase = time.Second
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}

	return &Fetcher{
		source:  source,
		breaker: breaker,
		config:  cfg,
		logger:  logger.With("component", "fetcher"),
	}
}

// FetchBatch descarga count imágenes y retorna un stream con exactamente
// count resultados, uno por índice [1..count], en orden de finalización.
// El canal se cierra tras el último resultado.
func (f *Fetcher) FetchBatch(ctx context.Context, count int) (<-chan domain.FetchOutcome, error) {
	if err := os.MkdirAll(f.config.RawDir, 0o755); err != nil {
		return nil, fmt.Errorf("cannot create raw dir %s: %w", f.config.RawDir, err)
	}

	out := make(chan domain.FetchOutcome, count)
	if count == 0 {
		close(out)
		return out, nil
	}

	tasks := make([]workerpool.Task, 0, count)
	for i := 1; i <= count; i++ {
		tasks = append(tasks, &fetchTask{
			req:         domain.NewFetchRequest(i),
			source:      f.source,
			breaker:     f.breaker,
			logger:      f.logger,
			rawDir:      f.config.RawDir,
			attempts:    f.config.Attempts,
			backoffBase: f.config.BackoffBase,
		})
	}

	pool := workerpool.NewWorkerPool(workerpool.WorkerPoolConfig{
		Workers: f.config.Workers,
		Logger:  f.logger,
	})
	pool.Start(ctx)

	results := pool.Submit(tasks)

	go func() {
		defer close(out)
		defer pool.Stop()

		seen := make(map[int]bool, count)
		for result := range results {
			task, ok := result.Task.(*fetchTask)
			if !ok {
				continue
			}
			seen[task.req.Index] = true
			out <- task.outcome
		}

		// Cancelación: el pool cerró el stream sin emitir todo. Cada
		// índice sin resultado se sintetiza como fallo de red.
		if len(seen) < count {
			err := ctx.Err()
			if err == nil {
				err = domain.ErrRunCanceled
			}
			for i := 1; i <= count; i++ {
				if seen[i] {
					continue
				}
				out <- domain.NewFetchFailure(domain.NewFetchRequest(i), domain.ReasonNetworkError, err)
			}
		}
	}()

	return out, nil
}
