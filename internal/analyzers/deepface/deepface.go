// internal/analyzers/deepface/deepface.go
package deepface

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"

	"github.com/murapadev/face-catcher/internal/core/domain"
	"github.com/murapadev/face-catcher/internal/core/ports"
	"github.com/murapadev/face-catcher/internal/platform/httpclient"
	"github.com/murapadev/face-catcher/internal/platform/logx"
)

// analyzeActions son los atributos que se piden al servicio por imagen.
var analyzeActions = []string{"age", "race", "gender", "emotion"}

// Analyzer implementa el port FaceAnalyzer contra un servicio de análisis
// facial estilo DeepFace expuesto por HTTP.
type Analyzer struct {
	client *httpclient.Client
	config ports.AnalyzerConfig
	logger logx.Logger
}

// New crea un nuevo analizador. Un backend de detección no reconocido no
// es fatal: se degrada al backend por defecto con una advertencia.
func New(cfg ports.AnalyzerConfig, logger logx.Logger) (*Analyzer, error) {
	log := logger.With("analyzer", "deepface")

	if !ports.IsValidDetectorBackend(cfg.DetectorBackend) {
		log.Warn("unknown detector backend, falling back",
			"requested", cfg.DetectorBackend,
			"fallback", ports.DefaultDetectorBackend,
		)
		cfg.DetectorBackend = ports.DefaultDetectorBackend
	}

	httpConfig := httpclient.Config{
		Timeout:        cfg.Timeout,
		MaxRetries:     0, // un fallo de análisis es terminal para el artefacto
		RateLimit:      cfg.RateLimit,
		RateLimitBurst: 1,
	}

	client, err := httpclient.New(httpConfig, logger)
	if err != nil {
		return nil, err
	}

	return &Analyzer{
		client: client,
		config: cfg,
		logger: log,
	}, nil
}

// Name retorna el nombre del analizador.
func (a *Analyzer) Name() string {
	return "deepface"
}

// DetectorBackend retorna el backend de detección activo tras la
// validación del constructor.
func (a *Analyzer) DetectorBackend() string {
	return a.config.DetectorBackend
}

// Analyze envía la imagen al servicio y retorna las detecciones
// normalizadas. Cero caras detectadas produce domain.ErrNoFaceDetected.
func (a *Analyzer) Analyze(ctx context.Context, imagePath string) ([]domain.AttributePayload, error) {
	data, err := os.ReadFile(imagePath)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot read %s: %v", domain.ErrAnalysisFailed, imagePath, err)
	}

	reqBody := analyzeRequest{
		Image:            "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(data),
		Actions:          analyzeActions,
		DetectorBackend:  a.config.DetectorBackend,
		EnforceDetection: false,
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot encode request: %v", domain.ErrAnalysisFailed, err)
	}

	url := a.config.BaseURL + "/analyze"
	resp, err := a.client.PostJSON(ctx, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrAnalysisFailed, err)
	}

	if err := httpclient.CheckStatus(resp); err != nil {
		resp.Body.Close()
		return nil, fmt.Errorf("%w: %v", domain.ErrAnalysisFailed, err)
	}

	body, err := httpclient.ReadBody(resp)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrAnalysisFailed, err)
	}

	detections, err := parseResponse(body)
	if err != nil {
		return nil, err
	}

	a.logger.Debug("image analyzed",
		"path", imagePath,
		"detections", len(detections),
	)

	return detections, nil
}

// Close libera recursos del analizador.
func (a *Analyzer) Close() error {
	return nil
}
