// internal/platform/ui/pterm_presenter.go
package ui

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/pterm/pterm"
)

// PTermPresenter implementa Presenter usando la biblioteca pterm
// para renderizar barras de progreso, colores y paneles en la terminal.
type PTermPresenter struct {
	mu sync.Mutex

	runInfo      RunInfo
	runStartTime time.Time

	// Barra de progreso de la fase activa
	progressBar *pterm.ProgressbarPrinter
	phaseName   string
}

// NewPTermPresenter crea una nueva instancia del presenter con pterm
func NewPTermPresenter() *PTermPresenter {
	return &PTermPresenter{}
}

// Start inicia la presentación mostrando el header del run
func (p *PTermPresenter) Start(info RunInfo) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.runInfo = info
	p.runStartTime = time.Now()

	// Header principal
	pterm.DefaultHeader.
		WithBackgroundStyle(pterm.NewStyle(pterm.BgCyan)).
		WithTextStyle(pterm.NewStyle(pterm.FgBlack)).
		Println("Face Catcher - AI Face Pipeline")

	pterm.Println()

	// Información del run
	infoPanel := pterm.DefaultBox.
		WithTitle("Run Configuration").
		WithTitleTopCenter().
		WithRightPadding(4).
		WithLeftPadding(4).
		WithBoxStyle(pterm.NewStyle(pterm.FgCyan))

	runInfo := fmt.Sprintf("Images:   %s\n", pterm.Cyan(fmt.Sprintf("%d", info.Count)))
	runInfo += fmt.Sprintf("Workers:  %d\n", info.Workers)
	runInfo += fmt.Sprintf("Source:   %s\n", pterm.Yellow(info.Endpoint))
	runInfo += fmt.Sprintf("Detector: %s\n", info.Detector)
	runInfo += fmt.Sprintf("Timeout:  %ds\n", info.TimeoutSeconds)
	if info.ProxyURL != "" {
		runInfo += fmt.Sprintf("Proxy:    %s\n", info.ProxyURL)
	}
	runInfo += fmt.Sprintf("Output:   %s", pterm.Cyan(info.OutputDir))

	infoPanel.Println(runInfo)
	pterm.Println()
}

// StartPhase notifica el inicio de una fase con barra de progreso
func (p *PTermPresenter) StartPhase(phase PhaseInfo) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stopBarLocked()
	p.phaseName = phase.Name

	bar, err := pterm.DefaultProgressbar.
		WithTotal(phase.Total).
		WithTitle(phase.Name).
		WithShowElapsedTime(true).
		Start()
	if err != nil {
		return
	}
	p.progressBar = bar
}

// Advance avanza la barra de progreso de la fase actual
func (p *PTermPresenter) Advance(delta int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.progressBar != nil {
		p.progressBar.Add(delta)
	}
}

// FinishPhase finaliza la fase actual
func (p *PTermPresenter) FinishPhase(duration time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stopBarLocked()
	pterm.Info.Printf("%s completed in %s\n", p.phaseName, p.formatDuration(duration))
}

// Info muestra un mensaje informativo
func (p *PTermPresenter) Info(msg string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	pterm.Info.Println(msg)
}

// Warning muestra una advertencia
func (p *PTermPresenter) Warning(msg string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	pterm.Warning.Println(msg)
}

// Error muestra un error
func (p *PTermPresenter) Error(msg string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	pterm.Error.Println(msg)
}

// Finish finaliza la presentación con estadísticas finales
func (p *PTermPresenter) Finish(stats RunStats) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stopBarLocked()

	pterm.Println()

	// Header de resultados
	header := pterm.DefaultHeader.
		WithBackgroundStyle(pterm.NewStyle(pterm.BgGreen)).
		WithTextStyle(pterm.NewStyle(pterm.FgBlack))
	if stats.Classified < stats.Requested {
		header = header.WithBackgroundStyle(pterm.NewStyle(pterm.BgYellow))
	}
	header.Println("Run Completed")

	pterm.Println()

	// Panel de estadísticas
	statsPanel := pterm.DefaultBox.
		WithTitle("Run Statistics").
		WithTitleTopCenter().
		WithRightPadding(4).
		WithLeftPadding(4).
		WithBoxStyle(pterm.NewStyle(pterm.FgGreen))

	content := fmt.Sprintf("Duration:   %s\n", pterm.Green(p.formatDuration(stats.Duration)))
	content += fmt.Sprintf("Requested:  %d\n", stats.Requested)
	content += fmt.Sprintf("Fetched:    %s\n", pterm.Cyan(fmt.Sprintf("%d", stats.Fetched)))
	content += fmt.Sprintf("Analyzed:   %s\n", pterm.Cyan(fmt.Sprintf("%d", stats.Analyzed)))
	content += fmt.Sprintf("Classified: %s\n", pterm.Green(fmt.Sprintf("%d", stats.Classified)))

	if stats.FailedFetch > 0 {
		content += fmt.Sprintf("Failed fetch:          %s\n", pterm.Red(fmt.Sprintf("%d", stats.FailedFetch)))
	}
	if stats.FailedAnalysis > 0 {
		content += fmt.Sprintf("Failed analysis:       %s\n", pterm.Red(fmt.Sprintf("%d", stats.FailedAnalysis)))
	}
	if stats.FailedClassification > 0 {
		content += fmt.Sprintf("Failed classification: %s\n", pterm.Red(fmt.Sprintf("%d", stats.FailedClassification)))
	}

	content += fmt.Sprintf("Output:     %s", pterm.Cyan(stats.OutputDir))

	statsPanel.Println(content)

	p.renderDistribution("Age Distribution", stats.AgeDistribution)
	p.renderDistribution("Ethnicity Distribution", stats.EthnicityDistribution)

	pterm.Println()
}

// Close limpia recursos del presenter
func (p *PTermPresenter) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stopBarLocked()
	return nil
}

// Confirm pregunta al usuario de forma interactiva. Retorna la respuesta
// (false también cuando la terminal no permite interacción).
func Confirm(question string) bool {
	result, err := pterm.DefaultInteractiveConfirm.
		WithDefaultValue(false).
		Show(question)
	if err != nil {
		return false
	}
	return result
}

// renderDistribution renderiza una tabla de conteos por bucket.
func (p *PTermPresenter) renderDistribution(title string, dist map[string]int) {
	if len(dist) == 0 {
		return
	}

	pterm.Println()
	pterm.DefaultSection.WithLevel(2).Println(title)

	names := make([]string, 0, len(dist))
	for name := range dist {
		names = append(names, name)
	}
	sort.Strings(names)

	tableData := pterm.TableData{
		{"Bucket", "Count"},
	}
	for _, name := range names {
		tableData = append(tableData, []string{name, fmt.Sprintf("%d", dist[name])})
	}

	pterm.DefaultTable.
		WithHasHeader().
		WithBoxed().
		WithData(tableData).
		Render()
}

// stopBarLocked detiene la barra activa. Debe llamarse con p.mu tomado.
func (p *PTermPresenter) stopBarLocked() {
	if p.progressBar != nil {
		p.progressBar.Stop()
		p.progressBar = nil
	}
}

// formatDuration formatea una duración de manera legible
func (p *PTermPresenter) formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}
