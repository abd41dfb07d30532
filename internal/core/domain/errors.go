// internal/core/domain/errors.go
package domain

import "errors"

// Errores de dominio comunes.
var (
	// Fetch errors
	ErrContentRejected  = errors.New("response content type is not an image")
	ErrValidationFailed = errors.New("downloaded artifact is not a valid image")
	ErrRetriesExhausted = errors.New("fetch retries exhausted")

	// Analysis errors
	ErrAnalysisFailed = errors.New("face analysis failed")
	ErrNoFaceDetected = errors.New("no face detected in artifact")
	ErrInvalidPayload = errors.New("invalid attribute payload")

	// Classification errors
	ErrSourceMissing   = errors.New("source artifact not found")
	ErrPlacementFailed = errors.New("artifact placement failed")

	// Configuration errors
	ErrInvalidBuckets = errors.New("invalid age bucket configuration")
	ErrInvalidConfig  = errors.New("invalid configuration")

	// Run errors
	ErrRunCanceled = errors.New("run was canceled")
)
