// internal/sources/tpdne/tpdne.go
package tpdne

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/murapadev/face-catcher/internal/core/domain"
	"github.com/murapadev/face-catcher/internal/core/ports"
	"github.com/murapadev/face-catcher/internal/platform/httpclient"
	"github.com/murapadev/face-catcher/internal/platform/logx"
	"github.com/murapadev/face-catcher/internal/platform/validator"
)

// Client implementa la fuente de imágenes thispersondoesnotexist.com.
// Cada GET al endpoint retorna una cara sintética distinta; el cliente
// no reintenta: la política de retry pertenece al pipeline.
type Client struct {
	client *httpclient.Client
	config ports.SourceConfig
	logger logx.Logger
}

// New crea una nueva instancia de la fuente.
func New(cfg ports.SourceConfig, logger logx.Logger) (*Client, error) {
	httpConfig := httpclient.Config{
		Timeout:        cfg.Timeout,
		MaxRetries:     0, // el retry por imagen lo gobierna el fetcher
		UserAgent:      cfg.UserAgent,
		ProxyURL:       cfg.ProxyURL,
		RateLimit:      cfg.RateLimit,
		RateLimitBurst: 1,
	}

	client, err := httpclient.New(httpConfig, logger)
	if err != nil {
		return nil, err
	}

	return &Client{
		client: client,
		config: cfg,
		logger: logger.With("source", "tpdne"),
	}, nil
}

// Name retorna el nombre de la fuente.
func (c *Client) Name() string {
	return "tpdne"
}

// FetchImage descarga una imagen del endpoint y la escribe en destPath.
// Un Content-Type que no sea imagen produce domain.ErrContentRejected y
// no deja fichero; un fallo de escritura elimina el fichero parcial.
func (c *Client) FetchImage(ctx context.Context, destPath string) (int64, error) {
	resp, err := c.client.Stream(ctx, c.config.Endpoint, nil)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	contentType := resp.Header.Get("Content-Type")
	if !validator.IsImageContentType(contentType) {
		c.logger.Warn("rejected non-image response", "content_type", contentType)
		return 0, fmt.Errorf("%w: got %q", domain.ErrContentRejected, contentType)
	}

	f, err := os.Create(destPath)
	if err != nil {
		return 0, fmt.Errorf("cannot create %s: %w", destPath, err)
	}

	written, err := io.Copy(f, resp.Body)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(destPath)
		return 0, fmt.Errorf("cannot write %s: %w", destPath, err)
	}

	c.logger.Debug("image fetched", "path", destPath, "bytes", written)
	return written, nil
}

// Close libera recursos de la fuente.
func (c *Client) Close() error {
	return nil
}
