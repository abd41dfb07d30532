// internal/analyzers/deepface/parser.go
package deepface

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/murapadev/face-catcher/internal/core/domain"
)

// parseResponse decodifica la respuesta del servicio y la traduce al
// modelo de dominio. Cero detecciones es domain.ErrNoFaceDetected.
func parseResponse(body []byte) ([]domain.AttributePayload, error) {
	var resp analyzeResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: cannot decode response: %v", domain.ErrAnalysisFailed, err)
	}

	if len(resp.Results) == 0 {
		return nil, domain.ErrNoFaceDetected
	}

	payloads := make([]domain.AttributePayload, 0, len(resp.Results))
	for _, d := range resp.Results {
		payloads = append(payloads, toPayload(d))
	}

	return payloads, nil
}

// toPayload traduce una detección del wire al modelo de dominio:
// edad redondeada a años enteros, etnia canónica y scores en [0.0-1.0].
func toPayload(d detection) domain.AttributePayload {
	p := domain.AttributePayload{
		Age:               int(math.Round(d.Age)),
		DominantEthnicity: d.DominantRace,
		DominantGender:    d.DominantGender,
		DominantEmotion:   d.DominantEmotion,
		EthnicityScores:   normalizeScores(d.Race),
		GenderScores:      normalizeScores(d.Gender),
		EmotionScores:     normalizeScores(d.Emotion),
		Region: domain.FaceRegion{
			X: d.Region.X,
			Y: d.Region.Y,
			W: d.Region.W,
			H: d.Region.H,
		},
	}
	p.Normalize()
	return p
}

// normalizeScores convierte porcentajes [0-100] a fracciones [0.0-1.0].
func normalizeScores(scores map[string]float64) map[string]float64 {
	if len(scores) == 0 {
		return nil
	}
	out := make(map[string]float64, len(scores))
	for label, score := range scores {
		out[label] = score / 100.0
	}
	return out
}
