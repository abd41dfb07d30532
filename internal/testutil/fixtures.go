// internal/testutil/fixtures.go
package testutil

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

// Fixture helpers para tests que necesitan imágenes reales en disco.
// Las imágenes se codifican en el momento: sin binarios embebidos.

// testImage genera una imagen pequeña con contenido no uniforme.
func testImage() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 30), G: uint8(y * 30), B: 200, A: 255})
		}
	}
	return img
}

// EncodeJPEG retorna una imagen JPEG válida codificada en memoria.
func EncodeJPEG(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, testImage(), nil); err != nil {
		t.Fatalf("cannot encode JPEG fixture: %v", err)
	}
	return buf.Bytes()
}

// EncodePNG retorna una imagen PNG válida codificada en memoria.
func EncodePNG(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, testImage()); err != nil {
		t.Fatalf("cannot encode PNG fixture: %v", err)
	}
	return buf.Bytes()
}

// WriteTempJPEG escribe una imagen JPEG válida en dir y retorna su ruta.
func WriteTempJPEG(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, EncodeJPEG(t), 0o644); err != nil {
		t.Fatalf("cannot write JPEG fixture: %v", err)
	}
	return path
}
