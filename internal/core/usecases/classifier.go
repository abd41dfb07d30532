// internal/core/usecases/classifier.go
package usecases

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/murapadev/face-catcher/internal/core/domain"
	"github.com/murapadev/face-catcher/internal/platform/logx"
)

// Subdirectorios del árbol de salida.
const (
	DirRawDownloads = "raw_downloads"
	DirByAge        = "by_age"
	DirByEthnicity  = "by_ethnicity"
	DirLogs         = "logs"
)

// Classifier coloca artefactos analizados en el árbol de salida por edad
// y por etnia. La colocación es copia (el original queda en raw_downloads),
// atómica e idempotente: repetir una clasificación produce el mismo árbol.
type Classifier struct {
	outputDir string
	set       domain.BucketSet
	logger    logx.Logger
}

// NewClassifier crea un clasificador sobre el directorio de salida dado.
// El BucketSet debe estar validado.
func NewClassifier(outputDir string, set domain.BucketSet, logger logx.Logger) *Classifier {
	return &Classifier{
		outputDir: outputDir,
		set:       set,
		logger:    logger.With("component", "classifier"),
	}
}

// RawDir retorna el directorio de imágenes descargadas.
func (c *Classifier) RawDir() string {
	return filepath.Join(c.outputDir, DirRawDownloads)
}

// EnsureDirs crea el árbol de salida completo por adelantado: raw_downloads,
// un directorio por bucket de edad, uno por etnia del vocabulario (más
// unknown) y logs. Los directorios vacíos al final del run son normales.
func (c *Classifier) EnsureDirs() error {
	dirs := []string{
		c.RawDir(),
		filepath.Join(c.outputDir, DirLogs),
	}

	for _, b := range c.set.Buckets {
		dirs = append(dirs, filepath.Join(c.outputDir, DirByAge, b.DirName()))
	}

	for _, eth := range domain.KnownEthnicities() {
		dirs = append(dirs, filepath.Join(c.outputDir, DirByEthnicity, eth))
	}
	dirs = append(dirs, filepath.Join(c.outputDir, DirByEthnicity, domain.EthnicityUnknown))

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("cannot create %s: %w", dir, err)
		}
	}

	return nil
}

// Classify copia el artefacto de outcome a sus dos destinos según el
// payload. La contabilidad es todo-o-nada: si cualquiera de las dos
// copias falla retorna error y el artefacto cuenta como no clasificado,
// aunque una de las copias haya quedado en disco.
func (c *Classifier) Classify(outcome domain.FetchOutcome, payload domain.AttributePayload) (domain.BucketAssignment, error) {
	assignment := domain.NewBucketAssignment(c.set, payload)

	if _, err := os.Stat(outcome.Path); err != nil {
		return assignment, fmt.Errorf("%w: %s: %v", domain.ErrSourceMissing, outcome.Path, err)
	}

	agePath := filepath.Join(c.outputDir, DirByAge, assignment.AgeDir,
		fmt.Sprintf("age_%02d_%s", payload.Age, outcome.Filename))
	ethPath := filepath.Join(c.outputDir, DirByEthnicity, assignment.EthnicityBucket,
		fmt.Sprintf("%s_%s", assignment.EthnicityBucket, outcome.Filename))

	if err := c.place(outcome.Path, agePath); err != nil {
		return assignment, fmt.Errorf("%w: age placement: %v", domain.ErrPlacementFailed, err)
	}
	if err := c.place(outcome.Path, ethPath); err != nil {
		return assignment, fmt.Errorf("%w: ethnicity placement: %v", domain.ErrPlacementFailed, err)
	}

	c.logger.Debug("artifact classified",
		"file", outcome.Filename,
		"age_bucket", assignment.AgeBucket,
		"ethnicity", assignment.EthnicityBucket,
	)

	return assignment, nil
}

// place copia src a dest de forma atómica: escribe en un temporal del
// mismo directorio y renombra. Un dest existente se sobreescribe, lo que
// hace la operación idempotente.
func (c *Classifier) place(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	tmp, err := os.CreateTemp(filepath.Dir(dest), ".placing-*")
	if err != nil {
		return err
	}

	_, err = io.Copy(tmp, in)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tmp.Name())
		return err
	}

	if err := os.Rename(tmp.Name(), dest); err != nil {
		os.Remove(tmp.Name())
		return err
	}

	return nil
}
