// internal/platform/validator/validator_test.go
package validator

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/murapadev/face-catcher/internal/testutil"
)

func writeTestImage(t *testing.T, dir, name string, encode func(*bytes.Buffer, image.Image) error) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 32), G: uint8(y * 32), B: 128, A: 255})
		}
	}

	var buf bytes.Buffer
	if err := encode(&buf, img); err != nil {
		t.Fatalf("failed to encode test image: %v", err)
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("failed to write test image: %v", err)
	}
	return path
}

func TestIsImageContentType(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected bool
	}{
		{"jpeg", "image/jpeg", true},
		{"png", "image/png", true},
		{"with params", "image/jpeg; charset=binary", true},
		{"uppercase", "IMAGE/JPEG", true},
		{"html", "text/html", false},
		{"json", "application/json", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := IsImageContentType(tt.input)
			testutil.AssertEqual(t, result, tt.expected, "content type check")
		})
	}
}

func TestValidateImage(t *testing.T) {
	dir := t.TempDir()

	t.Run("accepts valid JPEG", func(t *testing.T) {
		path := writeTestImage(t, dir, "valid.jpg", func(buf *bytes.Buffer, img image.Image) error {
			return jpeg.Encode(buf, img, nil)
		})
		testutil.AssertNoError(t, ValidateImage(path), "valid JPEG should pass")
	})

	t.Run("accepts valid PNG", func(t *testing.T) {
		path := writeTestImage(t, dir, "valid.png", func(buf *bytes.Buffer, img image.Image) error {
			return png.Encode(buf, img)
		})
		testutil.AssertNoError(t, ValidateImage(path), "valid PNG should pass")
	})

	t.Run("rejects missing file", func(t *testing.T) {
		err := ValidateImage(filepath.Join(dir, "missing.jpg"))
		testutil.AssertError(t, err, "missing file should fail")
	})

	t.Run("rejects non-image content", func(t *testing.T) {
		path := filepath.Join(dir, "notimage.jpg")
		if err := os.WriteFile(path, []byte("<html>service unavailable</html>"), 0o644); err != nil {
			t.Fatal(err)
		}
		err := ValidateImage(path)
		testutil.AssertError(t, err, "HTML payload should fail")
	})

	t.Run("rejects truncated header", func(t *testing.T) {
		path := filepath.Join(dir, "truncated.jpg")
		if err := os.WriteFile(path, []byte{0xFF, 0xD8}, 0o644); err != nil {
			t.Fatal(err)
		}
		err := ValidateImage(path)
		testutil.AssertError(t, err, "truncated JPEG should fail")
	})

	t.Run("rejects empty file", func(t *testing.T) {
		path := filepath.Join(dir, "empty.jpg")
		if err := os.WriteFile(path, nil, 0o644); err != nil {
			t.Fatal(err)
		}
		err := ValidateImage(path)
		testutil.AssertError(t, err, "empty file should fail")
	})
}

func TestIsURL(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected bool
	}{
		{"valid https", "https://thispersondoesnotexist.com/", true},
		{"valid http with port", "http://localhost:5005", true},
		{"missing scheme", "localhost:5005/analyze", false},
		{"missing host", "https://", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := IsURL(tt.input)
			testutil.AssertEqual(t, result, tt.expected, "URL validation")
		})
	}
}

func TestIsEmpty(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected bool
	}{
		{"empty string", "", true},
		{"whitespace only", "   \t\n", true},
		{"non-empty", "opencv", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := IsEmpty(tt.input)
			testutil.AssertEqual(t, result, tt.expected, "empty check")
		})
	}
}
