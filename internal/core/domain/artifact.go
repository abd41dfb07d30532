// internal/core/domain/artifact.go
package domain

import (
	"fmt"
	"time"
)

// FetchRequest representa la petición de descarga de una imagen concreta.
// Es inmutable: se crea una vez por índice y vive solo durante la secuencia
// de intentos de descarga de ese índice.
type FetchRequest struct {
	// Index ordinal dentro del batch [1..N]
	Index int

	// Filename nombre de archivo derivado del índice (face_000042.jpg)
	Filename string
}

// NewFetchRequest crea una petición de descarga para el índice dado.
func NewFetchRequest(index int) FetchRequest {
	return FetchRequest{
		Index:    index,
		Filename: fmt.Sprintf("face_%06d.jpg", index),
	}
}

// FailureReason clasifica el motivo de fallo de una descarga.
type FailureReason string

const (
	// ReasonNetworkError fallo de transporte (incluye cancelación del run)
	ReasonNetworkError FailureReason = "network_error"

	// ReasonBadContentType el servidor respondió con un Content-Type que no es imagen
	ReasonBadContentType FailureReason = "bad_content_type"

	// ReasonInvalidArtifact el cuerpo descargado no decodifica como imagen
	ReasonInvalidArtifact FailureReason = "invalid_artifact"

	// ReasonExhaustedRetries se agotaron los intentos sin éxito validado
	ReasonExhaustedRetries FailureReason = "exhausted_retries"
)

// IsValid verifica si el motivo de fallo es válido.
func (r FailureReason) IsValid() bool {
	switch r {
	case ReasonNetworkError, ReasonBadContentType, ReasonInvalidArtifact, ReasonExhaustedRetries:
		return true
	default:
		return false
	}
}

// String retorna la representación string del motivo.
func (r FailureReason) String() string {
	return string(r)
}

// FetchOutcome es el resultado terminal de la descarga de un índice.
// El Fetcher produce exactamente un FetchOutcome por índice solicitado.
type FetchOutcome struct {
	// Index índice del batch al que corresponde este resultado
	Index int

	// Filename nombre de archivo objetivo del índice
	Filename string

	// Success indica si la descarga terminó en un artefacto validado
	Success bool

	// Bytes tamaño del cuerpo persistido (0 en fallo)
	Bytes int64

	// Path ruta del artefacto validado (vacío en fallo)
	Path string

	// Reason motivo del fallo (vacío en éxito)
	Reason FailureReason

	// Err último error observado, con su cadena de sentinelas intacta
	Err error
}

// NewFetchSuccess crea un resultado exitoso para la petición dada.
func NewFetchSuccess(req FetchRequest, bytes int64, path string) FetchOutcome {
	return FetchOutcome{
		Index:    req.Index,
		Filename: req.Filename,
		Success:  true,
		Bytes:    bytes,
		Path:     path,
	}
}

// NewFetchFailure crea un resultado fallido para la petición dada.
func NewFetchFailure(req FetchRequest, reason FailureReason, err error) FetchOutcome {
	return FetchOutcome{
		Index:    req.Index,
		Filename: req.Filename,
		Success:  false,
		Reason:   reason,
		Err:      err,
	}
}

// ArtifactRecord es el registro detallado de un artefacto analizado,
// tal como se persiste en el informe por-artefacto.
type ArtifactRecord struct {
	Index           int              `json:"index"`
	Filename        string           `json:"filename"`
	Analysis        AttributePayload `json:"analysis"`
	AgeBucket       string           `json:"age_bucket,omitempty"`
	EthnicityBucket string           `json:"ethnicity_bucket,omitempty"`
	Classified      bool             `json:"classified"`
	Timestamp       time.Time        `json:"timestamp"`
}
