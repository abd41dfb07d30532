// internal/platform/validator/validator.go
package validator

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"net/url"
	"os"
	"strings"
)

// Image validators

// IsImageContentType verifica si un Content-Type corresponde a una imagen.
// El chequeo es por contención: "image/jpeg; charset=binary" también pasa.
func IsImageContentType(contentType string) bool {
	return strings.Contains(strings.ToLower(contentType), "image")
}

// ValidateImage verifica que el fichero en path sea una imagen decodificable
// (JPEG, PNG o GIF) con dimensiones no nulas. Retorna error si el fichero
// no existe, está truncado o no es una imagen.
func ValidateImage(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("cannot open image %s: %w", path, err)
	}
	defer f.Close()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return fmt.Errorf("cannot decode image %s: %w", path, err)
	}

	if cfg.Width <= 0 || cfg.Height <= 0 {
		return fmt.Errorf("image %s has invalid dimensions %dx%d (%s)", path, cfg.Width, cfg.Height, format)
	}

	return nil
}

// URL validators

// IsURL verifica si un string es una URL válida.
func IsURL(urlStr string) bool {
	if len(urlStr) == 0 {
		return false
	}

	parsed, err := url.Parse(urlStr)
	if err != nil {
		return false
	}

	// Debe tener scheme y host
	return parsed.Scheme != "" && parsed.Host != ""
}

// Generic validators

// IsEmpty verifica si un string está vacío o solo contiene espacios.
func IsEmpty(s string) bool {
	return len(strings.TrimSpace(s)) == 0
}
