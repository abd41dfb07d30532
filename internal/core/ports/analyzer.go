// internal/core/ports/analyzer.go
package ports

import (
	"context"
	"time"

	"github.com/murapadev/face-catcher/internal/core/domain"
)

// FaceAnalyzer es el port del colaborador externo de análisis facial.
// El contrato está normalizado: Analyze siempre retorna una secuencia de
// cero o más detecciones; el pipeline toma la primera de forma
// determinista y trata secuencia vacía o error uniformemente como fallo
// de análisis. El colaborador es opaco: no se asume contrato de timeout
// más allá del que él mismo imponga.
type FaceAnalyzer interface {
	// Name retorna el nombre único del analizador (ej: "deepface")
	Name() string

	// Analyze analiza la imagen en imagePath y retorna las detecciones
	Analyze(ctx context.Context, imagePath string) ([]domain.AttributePayload, error)

	// Close libera recursos utilizados por el analizador
	Close() error
}

// Backends de detección facial reconocidos por el colaborador.
var validDetectorBackends = []string{
	"opencv", "ssd", "dlib", "mtcnn", "retinaface",
	"mediapipe", "yolov8", "yunet", "centerface",
}

// DefaultDetectorBackend es el backend usado cuando el configurado no es válido.
const DefaultDetectorBackend = "opencv"

// ValidDetectorBackends retorna la lista de backends reconocidos.
func ValidDetectorBackends() []string {
	out := make([]string, len(validDetectorBackends))
	copy(out, validDetectorBackends)
	return out
}

// IsValidDetectorBackend verifica si el backend es reconocido.
func IsValidDetectorBackend(name string) bool {
	for _, b := range validDetectorBackends {
		if name == b {
			return true
		}
	}
	return false
}

// AnalyzerConfig contiene la configuración del colaborador de análisis.
type AnalyzerConfig struct {
	// BaseURL URL base del servicio de análisis
	BaseURL string

	// DetectorBackend backend de detección, valor de paso (no se implementa aquí)
	DetectorBackend string

	// Timeout tiempo máximo por petición de análisis
	Timeout time.Duration

	// RateLimit límite de peticiones por segundo (0 = sin límite)
	RateLimit float64
}

// DefaultAnalyzerConfig retorna una configuración por defecto.
// El timeout es generoso: la primera petición puede cargar modelos en frío.
func DefaultAnalyzerConfig() AnalyzerConfig {
	return AnalyzerConfig{
		BaseURL:         "http://localhost:5005",
		DetectorBackend: DefaultDetectorBackend,
		Timeout:         120 * time.Second,
		RateLimit:       0,
	}
}
