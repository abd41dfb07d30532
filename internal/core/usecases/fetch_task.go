// internal/core/usecases/fetch_task.go
package usecases

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/murapadev/face-catcher/internal/core/domain"
	"github.com/murapadev/face-catcher/internal/core/ports"
	"github.com/murapadev/face-catcher/internal/platform/logx"
	"github.com/murapadev/face-catcher/internal/platform/resilience"
	"github.com/murapadev/face-catcher/internal/platform/validator"
)

// fetchTask descarga un índice del batch con su política de reintentos.
// Implementa workerpool.Task; el resultado terminal queda en outcome y
// Execute nunca retorna error: un índice fallido no es un fallo del pool.
type fetchTask struct {
	req     domain.FetchRequest
	source  ports.ImageSource
	breaker *resilience.CircuitBreaker
	logger  logx.Logger

	rawDir      string
	attempts    int
	backoffBase time.Duration

	outcome domain.FetchOutcome
}

// Name retorna el nombre de la tarea.
func (t *fetchTask) Name() string {
	return "fetch:" + t.req.Filename
}

// Execute corre la secuencia de intentos del índice.
func (t *fetchTask) Execute(ctx context.Context) error {
	t.outcome = t.run(ctx)
	return nil
}

// run ejecuta los intentos de descarga hasta éxito validado o agotamiento.
// Cada intento es completo: descarga, persistencia y validación de imagen.
// Un intento que falla la validación elimina el fichero y consume intento.
func (t *fetchTask) run(ctx context.Context) domain.FetchOutcome {
	dest := filepath.Join(t.rawDir, t.req.Filename)

	var lastErr error
	var lastReason domain.FailureReason

	for attempt := 0; attempt < t.attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return domain.NewFetchFailure(t.req, domain.ReasonNetworkError, err)
		}

		// Breaker abierto: fallo terminal sin consumir el endpoint
		if t.breaker != nil && !t.breaker.Allow() {
			return domain.NewFetchFailure(t.req, domain.ReasonNetworkError,
				fmt.Errorf("%s: %w", t.req.Filename, resilience.ErrCircuitOpen))
		}

		bytes, err := t.source.FetchImage(ctx, dest)
		if err == nil {
			if verr := validator.ValidateImage(dest); verr != nil {
				os.Remove(dest)
				t.recordFailure()
				lastErr = fmt.Errorf("%w: %v", domain.ErrValidationFailed, verr)
				lastReason = domain.ReasonInvalidArtifact
				t.logger.Warn("downloaded artifact failed validation",
					"file", t.req.Filename,
					"attempt", attempt+1,
				)
				continue
			}

			if t.breaker != nil {
				t.breaker.RecordSuccess()
			}
			return domain.NewFetchSuccess(t.req, bytes, dest)
		}

		t.recordFailure()

		if errors.Is(err, domain.ErrContentRejected) {
			// El servidor respondió; reintento inmediato sin backoff
			lastErr = err
			lastReason = domain.ReasonBadContentType
			continue
		}

		lastErr = err
		lastReason = domain.ReasonNetworkError
		t.logger.Warn("fetch attempt failed",
			"file", t.req.Filename,
			"attempt", attempt+1,
			"error", err.Error(),
		)

		if attempt < t.attempts-1 {
			if err := t.backoff(ctx, attempt); err != nil {
				return domain.NewFetchFailure(t.req, domain.ReasonNetworkError, err)
			}
		}
	}

	// Agotado: el motivo es el del último intento fallido
	switch lastReason {
	case domain.ReasonBadContentType, domain.ReasonInvalidArtifact:
		return domain.NewFetchFailure(t.req, lastReason, lastErr)
	default:
		return domain.NewFetchFailure(t.req, domain.ReasonExhaustedRetries,
			fmt.Errorf("%w: %v", domain.ErrRetriesExhausted, lastErr))
	}
}

// backoff espera base*2^attempt o hasta cancelación.
func (t *fetchTask) backoff(ctx context.Context, attempt int) error {
	wait := t.backoffBase << attempt

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(wait):
		return nil
	}
}

func (t *fetchTask) recordFailure() {
	if t.breaker != nil {
		t.breaker.RecordFailure()
	}
}
