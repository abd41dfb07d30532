// internal/core/ports/source.go
package ports

import (
	"context"
	"time"
)

// ImageSource es el port primario para el origen remoto de imágenes.
// Una implementación descarga exactamente una imagen por llamada y la
// persiste en destPath; la unicidad entre llamadas la aporta el servidor.
type ImageSource interface {
	// Name retorna el nombre único de la fuente (ej: "tpdne")
	Name() string

	// FetchImage descarga una imagen y la escribe en destPath.
	// Retorna los bytes escritos. Un Content-Type que no sea imagen
	// produce domain.ErrContentRejected; fallos de transporte retornan
	// el error subyacente. No implementa reintentos: la política de
	// retry pertenece al llamante.
	FetchImage(ctx context.Context, destPath string) (int64, error)

	// Close libera recursos utilizados por la fuente
	Close() error
}

// SourceConfig contiene la configuración del origen remoto.
type SourceConfig struct {
	// Endpoint URL fija del origen de imágenes
	Endpoint string

	// Timeout tiempo máximo por petición
	Timeout time.Duration

	// UserAgent cabecera User-Agent de las peticiones
	UserAgent string

	// ProxyURL proxy HTTP(S) o SOCKS5 opcional
	ProxyURL string

	// RateLimit límite de peticiones por segundo (0 = sin límite)
	RateLimit float64
}

// DefaultSourceConfig retorna una configuración por defecto.
func DefaultSourceConfig() SourceConfig {
	return SourceConfig{
		Endpoint:  "https://thispersondoesnotexist.com/",
		Timeout:   30 * time.Second,
		UserAgent: "Face-Catcher/1.0",
		RateLimit: 0,
	}
}
