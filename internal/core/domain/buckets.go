// internal/core/domain/buckets.go
package domain

import (
	"fmt"
	"sort"
	"strings"
)

// AgeBucket define un rango de edades [Min,Max] con nombre propio.
// Max < 0 indica un rango abierto por arriba (se renderiza con "+").
type AgeBucket struct {
	Name string `json:"name" yaml:"name"`
	Min  int    `json:"min" yaml:"min"`
	Max  int    `json:"max" yaml:"max"`
}

// Unbounded indica si el rango es abierto por arriba.
func (b AgeBucket) Unbounded() bool {
	return b.Max < 0
}

// Contains verifica si la edad cae dentro del rango, extremos incluidos.
func (b AgeBucket) Contains(age int) bool {
	if age < b.Min {
		return false
	}
	return b.Unbounded() || age <= b.Max
}

// DirName retorna el nombre de directorio del bucket: "child_0-12" para
// rangos acotados, "senior_60+" para el rango abierto.
func (b AgeBucket) DirName() string {
	if b.Unbounded() {
		return fmt.Sprintf("%s_%d+", b.Name, b.Min)
	}
	return fmt.Sprintf("%s_%d-%d", b.Name, b.Min, b.Max)
}

// BucketSet es la configuración activa de buckets de edad: una lista
// ordenada de rangos disjuntos más el bucket por defecto para edades que
// no casan con ningún rango.
type BucketSet struct {
	Buckets  []AgeBucket `json:"buckets" yaml:"buckets"`
	Fallback string      `json:"fallback" yaml:"fallback"`
}

// DefaultBucketSet retorna la configuración de buckets por defecto.
func DefaultBucketSet() BucketSet {
	return BucketSet{
		Buckets: []AgeBucket{
			{Name: "child", Min: 0, Max: 12},
			{Name: "teen", Min: 13, Max: 19},
			{Name: "adult", Min: 20, Max: 59},
			{Name: "senior", Min: 60, Max: -1},
		},
		Fallback: "adult",
	}
}

// Validate verifica los invariantes de configuración: rangos no vacíos,
// nombres únicos, cobertura exhaustiva desde 0, sin solapes ni huecos, y
// rango superior abierto. Cualquier violación retorna ErrInvalidBuckets
// envuelto con el detalle: es un error de configuración, nunca por-item.
func (s BucketSet) Validate() error {
	if len(s.Buckets) == 0 {
		return fmt.Errorf("%w: no age buckets defined", ErrInvalidBuckets)
	}

	ordered := make([]AgeBucket, len(s.Buckets))
	copy(ordered, s.Buckets)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Min < ordered[j].Min })

	seen := make(map[string]bool, len(ordered))
	for _, b := range ordered {
		name := strings.TrimSpace(b.Name)
		if name == "" {
			return fmt.Errorf("%w: bucket with empty name", ErrInvalidBuckets)
		}
		if seen[name] {
			return fmt.Errorf("%w: duplicate bucket name %q", ErrInvalidBuckets, name)
		}
		seen[name] = true
		if !b.Unbounded() && b.Max < b.Min {
			return fmt.Errorf("%w: bucket %q has max %d below min %d", ErrInvalidBuckets, name, b.Max, b.Min)
		}
	}

	if ordered[0].Min != 0 {
		return fmt.Errorf("%w: coverage must start at age 0, got %d", ErrInvalidBuckets, ordered[0].Min)
	}

	for i := 1; i < len(ordered); i++ {
		prev, cur := ordered[i-1], ordered[i]
		if prev.Unbounded() {
			return fmt.Errorf("%w: bucket %q overlaps open-ended bucket %q", ErrInvalidBuckets, cur.Name, prev.Name)
		}
		switch {
		case cur.Min <= prev.Max:
			return fmt.Errorf("%w: buckets %q and %q overlap", ErrInvalidBuckets, prev.Name, cur.Name)
		case cur.Min != prev.Max+1:
			return fmt.Errorf("%w: gap between buckets %q and %q", ErrInvalidBuckets, prev.Name, cur.Name)
		}
	}

	if !ordered[len(ordered)-1].Unbounded() {
		return fmt.Errorf("%w: top bucket %q must be open-ended", ErrInvalidBuckets, ordered[len(ordered)-1].Name)
	}

	if !seen[s.Fallback] {
		return fmt.Errorf("%w: fallback bucket %q not defined", ErrInvalidBuckets, s.Fallback)
	}

	return nil
}

// Resolve retorna el primer bucket cuyo rango contiene la edad. Si ninguno
// casa (solo posible con edades negativas en un set válido) retorna el
// bucket por defecto.
func (s BucketSet) Resolve(age int) AgeBucket {
	for _, b := range s.Buckets {
		if b.Contains(age) {
			return b
		}
	}
	return s.fallbackBucket()
}

func (s BucketSet) fallbackBucket() AgeBucket {
	for _, b := range s.Buckets {
		if b.Name == s.Fallback {
			return b
		}
	}
	// Set validado: no debería ocurrir. Último bucket como red de seguridad.
	return s.Buckets[len(s.Buckets)-1]
}

// Rename reasigna los nombres de los buckets preservando los rangos.
// Se usa para la opción --age-groups del CLI, que renombra los cuatro
// grupos por defecto sin tocar sus rangos.
func (s BucketSet) Rename(names []string) (BucketSet, error) {
	if len(names) != len(s.Buckets) {
		return s, fmt.Errorf("%w: expected %d bucket names, got %d", ErrInvalidBuckets, len(s.Buckets), len(names))
	}
	out := BucketSet{Buckets: make([]AgeBucket, len(s.Buckets))}
	fallbackIdx := -1
	for i, b := range s.Buckets {
		name := strings.TrimSpace(names[i])
		if name == "" {
			return s, fmt.Errorf("%w: empty bucket name at position %d", ErrInvalidBuckets, i)
		}
		out.Buckets[i] = AgeBucket{Name: name, Min: b.Min, Max: b.Max}
		if b.Name == s.Fallback {
			fallbackIdx = i
		}
	}
	if fallbackIdx < 0 {
		fallbackIdx = len(out.Buckets) - 1
	}
	out.Fallback = out.Buckets[fallbackIdx].Name
	return out, out.Validate()
}

// BucketAssignment es el par de buckets resuelto para un artefacto.
type BucketAssignment struct {
	// AgeBucket nombre del bucket de edad (clave en age_distribution)
	AgeBucket string

	// AgeDir nombre de directorio del bucket de edad (child_0-12)
	AgeDir string

	// EthnicityBucket bucket de etnia canónico (clave y directorio)
	EthnicityBucket string
}

// NewBucketAssignment resuelve la asignación de buckets para un payload
// con la configuración dada. La resolución es determinista.
func NewBucketAssignment(set BucketSet, payload AttributePayload) BucketAssignment {
	age := set.Resolve(payload.Age)
	return BucketAssignment{
		AgeBucket:       age.Name,
		AgeDir:          age.DirName(),
		EthnicityBucket: NormalizeEthnicity(payload.DominantEthnicity),
	}
}
