// internal/core/domain/stats.go
package domain

import (
	"fmt"
	"time"
)

// RunStatistics es la foto inmutable de los contadores de un run.
// La produce el Aggregator; fuera de él es solo datos.
type RunStatistics struct {
	Requested            int `json:"requested"`
	Fetched              int `json:"fetched"`
	Analyzed             int `json:"analyzed"`
	Classified           int `json:"classified"`
	FailedFetch          int `json:"failed_fetch"`
	FailedAnalysis       int `json:"failed_analysis"`
	FailedClassification int `json:"failed_classification"`

	// AgeDistribution conteo por nombre de bucket de edad
	AgeDistribution map[string]int `json:"age_distribution"`

	// EthnicityDistribution conteo por bucket de etnia
	EthnicityDistribution map[string]int `json:"ethnicity_distribution"`
}

// AgeTotal retorna la suma de la distribución por edad.
func (s RunStatistics) AgeTotal() int {
	total := 0
	for _, n := range s.AgeDistribution {
		total += n
	}
	return total
}

// EthnicityTotal retorna la suma de la distribución por etnia.
func (s RunStatistics) EthnicityTotal() int {
	total := 0
	for _, n := range s.EthnicityDistribution {
		total += n
	}
	return total
}

// CheckInvariants verifica los invariantes del modelo de datos:
// fetched <= requested, analyzed <= fetched, classified <= analyzed y
// ambas distribuciones suman exactamente classified.
func (s RunStatistics) CheckInvariants() error {
	if s.Fetched > s.Requested {
		return fmt.Errorf("fetched (%d) exceeds requested (%d)", s.Fetched, s.Requested)
	}
	if s.Analyzed > s.Fetched {
		return fmt.Errorf("analyzed (%d) exceeds fetched (%d)", s.Analyzed, s.Fetched)
	}
	if s.Classified > s.Analyzed {
		return fmt.Errorf("classified (%d) exceeds analyzed (%d)", s.Classified, s.Analyzed)
	}
	if got := s.AgeTotal(); got != s.Classified {
		return fmt.Errorf("age distribution total (%d) does not match classified (%d)", got, s.Classified)
	}
	if got := s.EthnicityTotal(); got != s.Classified {
		return fmt.Errorf("ethnicity distribution total (%d) does not match classified (%d)", got, s.Classified)
	}
	return nil
}

// Provenance es el eco de la configuración activa que acompaña al informe
// de estadísticas, para poder reproducir el run.
type Provenance struct {
	Endpoint        string    `json:"endpoint"`
	DetectorBackend string    `json:"detector_backend"`
	Workers         int       `json:"workers"`
	RetryAttempts   int       `json:"retry_attempts"`
	AgeBuckets      BucketSet `json:"age_buckets"`
}

// RunReport agrupa todo lo que un run deja tras de sí: estadísticas
// finales, registros por-artefacto y la configuración con la que corrió.
type RunReport struct {
	GeneratedAt time.Time        `json:"generated_at"`
	Duration    time.Duration    `json:"-"`
	DurationMS  int64            `json:"duration_ms"`
	Stats       RunStatistics    `json:"summary"`
	Records     []ArtifactRecord `json:"-"`
	Provenance  Provenance       `json:"configuration"`
}
