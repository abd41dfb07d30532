// internal/platform/ui/raw_presenter.go
package ui

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"time"
)

// LogFormat define el formato de salida para el modo raw
type LogFormat string

const (
	LogFormatText LogFormat = "text" // Formato logfmt (default)
	LogFormatJSON LogFormat = "json" // Formato JSON estructurado
)

// RawPresenter implementa el Presenter para modo raw (logs sin formato
// visual). Útil para pipes, CI y terminales sin TTY.
type RawPresenter struct {
	format    LogFormat
	mu        sync.Mutex
	startTime time.Time

	phaseName  string
	phaseTotal int
	phaseDone  int
}

// NewRawPresenter crea un nuevo RawPresenter
func NewRawPresenter(format LogFormat) *RawPresenter {
	return &RawPresenter{
		format:    format,
		startTime: time.Now(),
	}
}

// Start registra la configuración inicial del run
func (r *RawPresenter) Start(info RunInfo) {
	r.log("INFO", "run started", map[string]interface{}{
		"count":    info.Count,
		"workers":  info.Workers,
		"endpoint": info.Endpoint,
		"detector": info.Detector,
		"output":   info.OutputDir,
	})
}

// StartPhase registra el inicio de una fase
func (r *RawPresenter) StartPhase(phase PhaseInfo) {
	r.mu.Lock()
	r.phaseName = phase.Name
	r.phaseTotal = phase.Total
	r.phaseDone = 0
	r.mu.Unlock()

	r.log("INFO", "phase started", map[string]interface{}{
		"phase": phase.Name,
		"total": phase.Total,
	})
}

// Advance registra el avance de la fase actual
func (r *RawPresenter) Advance(delta int) {
	r.mu.Lock()
	r.phaseDone += delta
	done, total, name := r.phaseDone, r.phaseTotal, r.phaseName
	r.mu.Unlock()

	r.log("INFO", "progress", map[string]interface{}{
		"phase": name,
		"done":  done,
		"total": total,
	})
}

// FinishPhase registra la finalización de la fase actual
func (r *RawPresenter) FinishPhase(duration time.Duration) {
	r.mu.Lock()
	name := r.phaseName
	r.mu.Unlock()

	r.log("INFO", "phase finished", map[string]interface{}{
		"phase":       name,
		"duration_ms": duration.Milliseconds(),
	})
}

// Info registra un mensaje informativo
func (r *RawPresenter) Info(msg string) {
	r.log("INFO", msg, nil)
}

// Warning registra una advertencia
func (r *RawPresenter) Warning(msg string) {
	r.log("WARN", msg, nil)
}

// Error registra un error
func (r *RawPresenter) Error(msg string) {
	r.log("ERROR", msg, nil)
}

// Finish registra las estadísticas finales del run
func (r *RawPresenter) Finish(stats RunStats) {
	fields := map[string]interface{}{
		"duration_ms":           stats.Duration.Milliseconds(),
		"requested":             stats.Requested,
		"fetched":               stats.Fetched,
		"analyzed":              stats.Analyzed,
		"classified":            stats.Classified,
		"failed_fetch":          stats.FailedFetch,
		"failed_analysis":       stats.FailedAnalysis,
		"failed_classification": stats.FailedClassification,
		"output":                stats.OutputDir,
	}
	r.log("INFO", "run finished", fields)

	r.logDistribution("age_distribution", stats.AgeDistribution)
	r.logDistribution("ethnicity_distribution", stats.EthnicityDistribution)
}

// Close no necesita limpiar recursos en modo raw
func (r *RawPresenter) Close() error {
	return nil
}

// logDistribution registra una distribución como campos ordenados.
func (r *RawPresenter) logDistribution(name string, dist map[string]int) {
	if len(dist) == 0 {
		return
	}

	keys := make([]string, 0, len(dist))
	for k := range dist {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fields := make(map[string]interface{}, len(dist))
	for _, k := range keys {
		fields[k] = dist[k]
	}
	r.log("INFO", name, fields)
}

// log escribe un log en el formato configurado
func (r *RawPresenter) log(level, message string, fields map[string]interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()

	timestamp := time.Now().UTC().Format(time.RFC3339)

	if r.format == LogFormatJSON {
		r.logJSON(timestamp, level, message, fields)
	} else {
		r.logText(timestamp, level, message, fields)
	}
}

// logText escribe en formato logfmt: timestamp LEVEL message key=value key2=value2
func (r *RawPresenter) logText(timestamp, level, message string, fields map[string]interface{}) {
	var parts []string
	parts = append(parts, timestamp)
	parts = append(parts, fmt.Sprintf("%-5s", level))
	parts = append(parts, message)

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, r.formatValue(fields[k])))
	}

	fmt.Fprintln(os.Stderr, strings.Join(parts, " "))
}

// logJSON escribe en formato JSON estructurado
func (r *RawPresenter) logJSON(timestamp, level, message string, fields map[string]interface{}) {
	entry := map[string]interface{}{
		"ts":    timestamp,
		"level": level,
		"msg":   message,
	}
	for k, v := range fields {
		entry[k] = v
	}

	data, err := json.Marshal(entry)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s %s %s (marshal error: %v)\n", timestamp, level, message, err)
		return
	}
	fmt.Fprintln(os.Stderr, string(data))
}

// formatValue cita valores con espacios para mantener logfmt parseable.
func (r *RawPresenter) formatValue(v interface{}) string {
	s := fmt.Sprintf("%v", v)
	if strings.ContainsAny(s, " \t") {
		return fmt.Sprintf("%q", s)
	}
	return s
}
