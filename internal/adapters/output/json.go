// internal/adapters/output/json.go
package output

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/murapadev/face-catcher/internal/core/domain"
	"github.com/murapadev/face-catcher/internal/core/ports"
)

// Nombres de los informes dentro del directorio de salida.
const (
	ResultsFilename    = "analysis_results.json"
	StatisticsFilename = "statistics.json"
)

// JSONExporter persiste los informes de un run como ficheros JSON en el
// directorio de salida: analysis_results.json con los registros
// por-artefacto y statistics.json con el resumen agregado.
type JSONExporter struct{}

// NewJSONExporter crea el exporter JSON.
func NewJSONExporter() *JSONExporter {
	return &JSONExporter{}
}

// Name retorna el nombre del exporter.
func (e *JSONExporter) Name() string {
	return "json"
}

// resultsDocument es el esquema de analysis_results.json.
type resultsDocument struct {
	GeneratedAt string                  `json:"generated_at"`
	Results     []domain.ArtifactRecord `json:"results"`
}

// Export escribe ambos informes. El fichero de estadísticas se escribe
// aunque el run haya terminado sin ningún artefacto clasificado.
func (e *JSONExporter) Export(report *domain.RunReport, opts ports.ExportOptions) error {
	if opts.OutputDir == "" {
		opts.OutputDir = "."
	}

	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	records := report.Records
	if records == nil {
		records = []domain.ArtifactRecord{}
	}
	results := resultsDocument{
		GeneratedAt: report.GeneratedAt.Format("2006-01-02T15:04:05Z07:00"),
		Results:     records,
	}

	if err := e.writeFile(filepath.Join(opts.OutputDir, ResultsFilename), results, opts.Pretty); err != nil {
		return err
	}

	return e.writeFile(filepath.Join(opts.OutputDir, StatisticsFilename), report, opts.Pretty)
}

// writeFile codifica v como JSON en path.
func (e *JSONExporter) writeFile(path string, v any, pretty bool) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	if pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode %s: %w", filepath.Base(path), err)
	}

	return nil
}
