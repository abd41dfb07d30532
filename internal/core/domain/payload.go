// internal/core/domain/payload.go
package domain

import "strings"

// EthnicityUnknown es el bucket de etnia que siempre existe.
const EthnicityUnknown = "unknown"

// knownEthnicities es el vocabulario canónico de etnias en snake_case.
// Coincide con las categorías que emite el colaborador de análisis.
var knownEthnicities = []string{
	"asian",
	"black",
	"indian",
	"latino_hispanic",
	"middle_eastern",
	"white",
}

// KnownEthnicities retorna el vocabulario canónico (sin incluir unknown).
func KnownEthnicities() []string {
	out := make([]string, len(knownEthnicities))
	copy(out, knownEthnicities)
	return out
}

// NormalizeEthnicity normaliza una etiqueta de etnia a su forma canónica:
// minúsculas y espacios reemplazados por guiones bajos. Valores fuera del
// vocabulario conocido se normalizan a "unknown".
func NormalizeEthnicity(raw string) string {
	v := strings.ToLower(strings.TrimSpace(raw))
	v = strings.ReplaceAll(v, " ", "_")
	if v == "" {
		return EthnicityUnknown
	}
	for _, known := range knownEthnicities {
		if v == known {
			return v
		}
	}
	return EthnicityUnknown
}

// AttributePayload es el resultado estructurado del colaborador externo de
// análisis facial para una única detección.
type AttributePayload struct {
	// Age edad estimada en años (>= 0)
	Age int `json:"age"`

	// DominantEthnicity etnia dominante, vocabulario canónico o "unknown"
	DominantEthnicity string `json:"dominant_ethnicity"`

	// DominantGender género dominante
	DominantGender string `json:"dominant_gender"`

	// DominantEmotion emoción dominante
	DominantEmotion string `json:"dominant_emotion"`

	// EthnicityScores confianza por etiqueta de etnia [0.0-1.0]
	EthnicityScores map[string]float64 `json:"ethnicity_scores,omitempty"`

	// GenderScores confianza por etiqueta de género [0.0-1.0]
	GenderScores map[string]float64 `json:"gender_scores,omitempty"`

	// EmotionScores confianza por etiqueta de emoción [0.0-1.0]
	EmotionScores map[string]float64 `json:"emotion_scores,omitempty"`

	// Region caja de la cara detectada en la imagen
	Region FaceRegion `json:"face_region"`
}

// FaceRegion delimita la cara detectada dentro de la imagen.
type FaceRegion struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// Normalize normaliza el payload in-place: edad negativa a 0 y etnia al
// vocabulario canónico.
func (p *AttributePayload) Normalize() {
	if p.Age < 0 {
		p.Age = 0
	}
	p.DominantEthnicity = NormalizeEthnicity(p.DominantEthnicity)
}

// Validate verifica que el payload sea utilizable.
func (p AttributePayload) Validate() error {
	if p.Age < 0 {
		return ErrInvalidPayload
	}
	return nil
}
