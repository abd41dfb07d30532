// internal/testutil/mocks.go
package testutil

import (
	"context"
	"os"
	"sync/atomic"

	"github.com/murapadev/face-catcher/internal/core/domain"
)

// MockImageSource es un ImageSource de prueba que escribe bytes fijos en
// destPath. FetchFunc permite guionizar fallos por llamada.
type MockImageSource struct {
	// Payload bytes a escribir en cada fetch (por defecto nada: usar
	// NewMockImageSource para un JPEG válido)
	Payload []byte

	// FetchFunc si no es nil reemplaza el comportamiento por defecto.
	// Recibe el número de llamada (desde 1) y la ruta destino.
	FetchFunc func(call int, destPath string) (int64, error)

	calls atomic.Int32
}

// NewMockImageSource crea un source que siempre escribe payload válido.
func NewMockImageSource(payload []byte) *MockImageSource {
	return &MockImageSource{Payload: payload}
}

// Name retorna el nombre del mock.
func (m *MockImageSource) Name() string { return "mock-source" }

// FetchImage escribe el payload en destPath o delega en FetchFunc.
func (m *MockImageSource) FetchImage(ctx context.Context, destPath string) (int64, error) {
	call := int(m.calls.Add(1))

	if err := ctx.Err(); err != nil {
		return 0, err
	}

	if m.FetchFunc != nil {
		return m.FetchFunc(call, destPath)
	}

	if err := os.WriteFile(destPath, m.Payload, 0o644); err != nil {
		return 0, err
	}
	return int64(len(m.Payload)), nil
}

// Calls retorna el número de llamadas a FetchImage.
func (m *MockImageSource) Calls() int {
	return int(m.calls.Load())
}

// Close no hace nada.
func (m *MockImageSource) Close() error { return nil }

// MockAnalyzer es un FaceAnalyzer de prueba.
type MockAnalyzer struct {
	// Payloads detecciones a retornar cuando AnalyzeFunc es nil
	Payloads []domain.AttributePayload

	// Err error a retornar cuando AnalyzeFunc es nil
	Err error

	// AnalyzeFunc si no es nil reemplaza el comportamiento por defecto.
	AnalyzeFunc func(call int, imagePath string) ([]domain.AttributePayload, error)

	calls atomic.Int32
}

// NewMockAnalyzer crea un analyzer que siempre retorna las detecciones dadas.
func NewMockAnalyzer(payloads ...domain.AttributePayload) *MockAnalyzer {
	return &MockAnalyzer{Payloads: payloads}
}

// Name retorna el nombre del mock.
func (m *MockAnalyzer) Name() string { return "mock-analyzer" }

// Analyze retorna las detecciones guionizadas.
func (m *MockAnalyzer) Analyze(ctx context.Context, imagePath string) ([]domain.AttributePayload, error) {
	call := int(m.calls.Add(1))

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if m.AnalyzeFunc != nil {
		return m.AnalyzeFunc(call, imagePath)
	}
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Payloads, nil
}

// Calls retorna el número de llamadas a Analyze.
func (m *MockAnalyzer) Calls() int {
	return int(m.calls.Load())
}

// Close no hace nada.
func (m *MockAnalyzer) Close() error { return nil }

// SamplePayload retorna un payload de análisis plausible para tests.
func SamplePayload(age int, ethnicity string) domain.AttributePayload {
	return domain.AttributePayload{
		Age:               age,
		DominantEthnicity: ethnicity,
		DominantGender:    "Woman",
		DominantEmotion:   "neutral",
		EthnicityScores:   map[string]float64{ethnicity: 0.9},
		Region:            domain.FaceRegion{X: 10, Y: 10, W: 80, H: 80},
	}
}
