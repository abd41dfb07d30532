// internal/core/usecases/aggregator.go
package usecases

import (
	"sync"
	"sync/atomic"

	"github.com/murapadev/face-catcher/internal/core/domain"
)

// Aggregator acumula los contadores de un run de forma concurrente.
// Los contadores escalares son atómicos; las dos distribuciones comparten
// un mutex. Snapshot debe llamarse tras el join del pipeline, cuando ya
// no hay escritores activos.
type Aggregator struct {
	requested atomic.Int64

	fetched    atomic.Int64
	analyzed   atomic.Int64
	classified atomic.Int64

	failedFetch          atomic.Int64
	failedAnalysis       atomic.Int64
	failedClassification atomic.Int64

	mu            sync.Mutex
	ageDist       map[string]int
	ethnicityDist map[string]int
}

// NewAggregator crea un agregador para un run de count imágenes.
func NewAggregator(count int) *Aggregator {
	a := &Aggregator{
		ageDist:       make(map[string]int),
		ethnicityDist: make(map[string]int),
	}
	a.requested.Store(int64(count))
	return a
}

// RecordFetched registra una descarga validada.
func (a *Aggregator) RecordFetched() {
	a.fetched.Add(1)
}

// RecordFailedFetch registra un índice agotado sin artefacto válido.
func (a *Aggregator) RecordFailedFetch() {
	a.failedFetch.Add(1)
}

// RecordAnalyzed registra un análisis con al menos una detección.
func (a *Aggregator) RecordAnalyzed() {
	a.analyzed.Add(1)
}

// RecordFailedAnalysis registra un análisis fallido o sin detecciones.
func (a *Aggregator) RecordFailedAnalysis() {
	a.failedAnalysis.Add(1)
}

// RecordClassified registra una clasificación completa en ambas
// dimensiones. Los tres contadores se actualizan bajo el mismo lock para
// que ninguna foto intermedia viole la igualdad distribución == classified.
func (a *Aggregator) RecordClassified(assignment domain.BucketAssignment) {
	a.mu.Lock()
	a.ageDist[assignment.AgeBucket]++
	a.ethnicityDist[assignment.EthnicityBucket]++
	a.mu.Unlock()
	a.classified.Add(1)
}

// RecordFailedClassification registra un artefacto analizado que no pudo
// colocarse en ambas dimensiones.
func (a *Aggregator) RecordFailedClassification() {
	a.failedClassification.Add(1)
}

// Snapshot retorna la foto inmutable de los contadores. Las distribuciones
// se copian: el llamante puede retener el resultado sin carreras.
func (a *Aggregator) Snapshot() domain.RunStatistics {
	a.mu.Lock()
	ageDist := make(map[string]int, len(a.ageDist))
	for k, v := range a.ageDist {
		ageDist[k] = v
	}
	ethnicityDist := make(map[string]int, len(a.ethnicityDist))
	for k, v := range a.ethnicityDist {
		ethnicityDist[k] = v
	}
	a.mu.Unlock()

	return domain.RunStatistics{
		Requested:             int(a.requested.Load()),
		Fetched:               int(a.fetched.Load()),
		Analyzed:              int(a.analyzed.Load()),
		Classified:            int(a.classified.Load()),
		FailedFetch:           int(a.failedFetch.Load()),
		FailedAnalysis:        int(a.failedAnalysis.Load()),
		FailedClassification:  int(a.failedClassification.Load()),
		AgeDistribution:       ageDist,
		EthnicityDistribution: ethnicityDist,
	}
}
