// internal/analyzers/deepface/responses.go
package deepface

// analyzeRequest es el cuerpo del POST /analyze.
type analyzeRequest struct {
	Image            string   `json:"img_path"`
	Actions          []string `json:"actions"`
	DetectorBackend  string   `json:"detector_backend"`
	EnforceDetection bool     `json:"enforce_detection"`
}

// analyzeResponse es la respuesta del servicio: una detección por cara.
type analyzeResponse struct {
	Results []detection `json:"results"`
}

// detection es una cara detectada con sus atributos. Los scores vienen
// como porcentajes [0-100].
type detection struct {
	Age             float64            `json:"age"`
	DominantRace    string             `json:"dominant_race"`
	Race            map[string]float64 `json:"race"`
	DominantGender  string             `json:"dominant_gender"`
	Gender          map[string]float64 `json:"gender"`
	DominantEmotion string             `json:"dominant_emotion"`
	Emotion         map[string]float64 `json:"emotion"`
	Region          regionBox          `json:"region"`
}

// regionBox es la caja de la cara dentro de la imagen.
type regionBox struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}
