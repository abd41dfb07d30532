// internal/platform/ui/presenter.go
package ui

import (
	"time"
)

// Presenter define la interfaz para presentar el progreso de la ejecución
// del pipeline de manera visual e interactiva.
type Presenter interface {
	// Start inicia la presentación con información del run
	Start(info RunInfo)

	// StartPhase notifica el inicio de una fase con total de items conocido
	StartPhase(phase PhaseInfo)

	// Advance avanza el progreso de la fase actual
	Advance(delta int)

	// FinishPhase notifica la finalización de la fase actual
	FinishPhase(duration time.Duration)

	// Info muestra un mensaje informativo
	Info(msg string)

	// Warning muestra una advertencia
	Warning(msg string)

	// Error muestra un error
	Error(msg string)

	// Finish finaliza la presentación con estadísticas finales
	Finish(stats RunStats)

	// Close limpia recursos del presenter
	Close() error
}

// RunInfo contiene información inicial del run
type RunInfo struct {
	Count          int
	Workers        int
	Endpoint       string
	Detector       string
	OutputDir      string
	TimeoutSeconds int
	ProxyURL       string
}

// PhaseInfo contiene información de una fase del pipeline
type PhaseInfo struct {
	Name  string
	Total int
}

// RunStats contiene estadísticas finales del run.
// Es un espejo de los contadores del pipeline para que el presenter no
// dependa de los tipos de dominio.
type RunStats struct {
	Duration             time.Duration
	Requested            int
	Fetched              int
	Analyzed             int
	Classified           int
	FailedFetch          int
	FailedAnalysis       int
	FailedClassification int

	AgeDistribution       map[string]int
	EthnicityDistribution map[string]int

	OutputDir string
}
