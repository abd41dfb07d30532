// internal/core/ports/exporter.go
package ports

import (
	"github.com/murapadev/face-catcher/internal/core/domain"
)

// Exporter es el port para persistir los informes de un run.
type Exporter interface {
	// Name retorna el nombre del exporter (ej: "json")
	Name() string

	// Export persiste el informe completo del run
	Export(report *domain.RunReport, opts ExportOptions) error
}

// ExportOptions configura las opciones de exportación.
type ExportOptions struct {
	// OutputDir directorio raíz donde escribir los informes
	OutputDir string

	// Pretty indica si el output debe ser formateado para legibilidad humana
	Pretty bool
}

// DefaultExportOptions retorna opciones por defecto.
func DefaultExportOptions() ExportOptions {
	return ExportOptions{
		OutputDir: "classified_images",
		Pretty:    true,
	}
}
