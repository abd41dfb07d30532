// internal/sources/tpdne/tpdne_test.go
package tpdne

import (
	"bytes"
	"context"
	"image"
	"image/jpeg"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/murapadev/face-catcher/internal/core/domain"
	"github.com/murapadev/face-catcher/internal/core/ports"
	"github.com/murapadev/face-catcher/internal/platform/errors"
	"github.com/murapadev/face-catcher/internal/testutil"
)

func encodeJPEG(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatalf("failed to encode JPEG: %v", err)
	}
	return buf.Bytes()
}

func newClient(t *testing.T, endpoint string) *Client {
	t.Helper()
	cfg := ports.DefaultSourceConfig()
	cfg.Endpoint = endpoint
	cfg.Timeout = 5 * time.Second

	client, err := New(cfg, testutil.NewTestLogger())
	testutil.AssertNoError(t, err, "client creation should succeed")
	return client
}

func TestClient_Name(t *testing.T) {
	client := newClient(t, "https://thispersondoesnotexist.com/")
	testutil.AssertEqual(t, client.Name(), "tpdne", "source name")
}

func TestClient_FetchImage(t *testing.T) {
	t.Run("writes image to destination", func(t *testing.T) {
		payload := encodeJPEG(t)
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "image/jpeg")
			w.Write(payload)
		}))
		defer server.Close()

		client := newClient(t, server.URL)
		dest := filepath.Join(t.TempDir(), "face_000001.jpg")

		written, err := client.FetchImage(context.Background(), dest)
		testutil.AssertNoError(t, err, "fetch should succeed")
		testutil.AssertEqual(t, written, int64(len(payload)), "written bytes")

		data, err := os.ReadFile(dest)
		testutil.AssertNoError(t, err, "file should exist")
		testutil.AssertEqual(t, len(data), len(payload), "file content length")
	})

	t.Run("rejects non-image content type", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			w.Write([]byte("<html>rate limited</html>"))
		}))
		defer server.Close()

		client := newClient(t, server.URL)
		dest := filepath.Join(t.TempDir(), "face_000001.jpg")

		_, err := client.FetchImage(context.Background(), dest)
		testutil.AssertError(t, err, "fetch should fail")
		testutil.AssertTrue(t, errors.Is(err, domain.ErrContentRejected), "error should be ErrContentRejected")

		_, statErr := os.Stat(dest)
		testutil.AssertTrue(t, os.IsNotExist(statErr), "no file should be left behind")
	})

	t.Run("propagates transport failures", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer server.Close()

		client := newClient(t, server.URL)
		dest := filepath.Join(t.TempDir(), "face_000001.jpg")

		_, err := client.FetchImage(context.Background(), dest)
		testutil.AssertError(t, err, "fetch should fail on 503")
		testutil.AssertTrue(t, !errors.Is(err, domain.ErrContentRejected), "transport failure is not a content rejection")
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(time.Second)
		}))
		defer server.Close()

		client := newClient(t, server.URL)
		dest := filepath.Join(t.TempDir(), "face_000001.jpg")

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		_, err := client.FetchImage(ctx, dest)
		testutil.AssertError(t, err, "fetch should fail when context expires")
	})
}
