// internal/platform/config/config.go
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/murapadev/face-catcher/internal/core/domain"
	"github.com/murapadev/face-catcher/internal/core/ports"
	"github.com/murapadev/face-catcher/internal/platform/validator"
)

type Config struct {
	// App
	Core Core `yaml:"core" json:"core"`

	// IO
	Output Output `yaml:"output" json:"output"`

	// Source: origen remoto de imágenes
	Source Source `yaml:"source" json:"source"`

	// Analyzer: servicio de análisis facial
	Analyzer Analyzer `yaml:"analyzer" json:"analyzer"`

	// Buckets: definición de rangos de edad (vacío = defaults)
	Buckets []BucketDef `yaml:"buckets" json:"buckets"`

	// FallbackBucket: bucket de edad usado cuando ningún rango aplica
	FallbackBucket string `yaml:"fallback_bucket" json:"fallback_bucket"`

	// AgeGroups: renombra los buckets por defecto (flag --age-groups)
	AgeGroups []string `yaml:"-" json:"-"`

	// Resilience
	Resilience Resilience `yaml:"resilience" json:"resilience"`

	// ConfigFile: ruta del fichero YAML cargado (si hubo)
	ConfigFile string `yaml:"-" json:"-"`
}

type Core struct {
	Count        int  `yaml:"count" json:"count"`
	Workers      int  `yaml:"workers" json:"workers"`
	Verbose      bool `yaml:"verbose" json:"verbose"`
	Quiet        bool `yaml:"quiet" json:"quiet"`
	Yes          bool `yaml:"-" json:"-"`
	PrintVersion bool `yaml:"-" json:"-"`
}

type Output struct {
	Dir    string `yaml:"dir" json:"dir"`
	Pretty bool   `yaml:"pretty" json:"pretty"`
}

type Source struct {
	Endpoint      string `yaml:"endpoint" json:"endpoint"`
	UserAgent     string `yaml:"user_agent" json:"user_agent"`
	TimeoutS      int    `yaml:"timeout" json:"timeout"`
	RetryAttempts int    `yaml:"retries" json:"retries"`
	BackoffBaseMS int    `yaml:"backoff_base_ms" json:"backoff_base_ms"`
	ProxyURL      string `yaml:"proxy" json:"proxy"`
	RateLimit     float64 `yaml:"rate_limit" json:"rate_limit"`
}

type Analyzer struct {
	BaseURL         string  `yaml:"base_url" json:"base_url"`
	DetectorBackend string  `yaml:"detector_backend" json:"detector_backend"`
	TimeoutS        int     `yaml:"timeout" json:"timeout"`
	RateLimit       float64 `yaml:"rate_limit" json:"rate_limit"`
}

// BucketDef es la forma serializable de un rango de edad.
// Max negativo significa rango abierto por arriba.
type BucketDef struct {
	Name string `yaml:"name" json:"name"`
	Min  int    `yaml:"min" json:"min"`
	Max  int    `yaml:"max" json:"max"`
}

type Resilience struct {
	// Circuit Breaker configuration
	CircuitBreakerEnabled     bool `yaml:"circuit_breaker" json:"circuit_breaker"`
	CircuitBreakerThreshold   int  `yaml:"cb_threshold" json:"cb_threshold"`
	CircuitBreakerTimeoutS    int  `yaml:"cb_timeout" json:"cb_timeout"`
	CircuitBreakerHalfOpenMax int  `yaml:"cb_half_open_max" json:"cb_half_open_max"`
}

// DefaultConfig retorna una configuración por defecto.
func DefaultConfig() Config {
	return Config{
		Core: Core{
			Count:   10,
			Workers: 3,
		},
		Output: Output{
			Dir:    "classified_images",
			Pretty: true,
		},
		Source: Source{
			Endpoint:      "https://thispersondoesnotexist.com/",
			UserAgent:     "Face-Catcher/1.0",
			TimeoutS:      30,
			RetryAttempts: 3,
			BackoffBaseMS: 1000,
			RateLimit:     0,
		},
		Analyzer: Analyzer{
			BaseURL:         "http://localhost:5005",
			DetectorBackend: ports.DefaultDetectorBackend,
			TimeoutS:        120,
			RateLimit:       0,
		},
		FallbackBucket: "",
		Resilience: Resilience{
			CircuitBreakerEnabled:     true,
			CircuitBreakerThreshold:   5,
			CircuitBreakerTimeoutS:    60,
			CircuitBreakerHalfOpenMax: 3,
		},
	}
}

// Load inicializa la configuración en capas: defaults -> fichero YAML
// (si hay) -> ENV -> flags (los flags tienen prioridad).
func Load(args []string) (Config, error) {
	cfg := DefaultConfig()

	fs, vals := newFlagSet()
	if err := fs.Parse(args); err != nil {
		return cfg, fmt.Errorf("%w: %v", domain.ErrInvalidConfig, err)
	}

	// Fichero de configuración: flag o ENV
	configFile := vals.configFile
	if configFile == "" {
		configFile = getenv("FACE_CATCHER_CONFIG", "")
	}
	if configFile != "" {
		if err := loadFromFile(&cfg, configFile); err != nil {
			return cfg, err
		}
		cfg.ConfigFile = configFile
	}

	loadFromEnv(&cfg)
	applyFlags(&cfg, fs, vals)
	normalize(&cfg)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

type flagValues struct {
	configFile string
	count      int
	workers    int
	outputDir  string
	detector   string
	ageGroups  string
	endpoint   string
	analyzer   string
	proxy      string
	retries    int
	timeout    int
	verbose    bool
	quiet      bool
	yes        bool
	version    bool
	noCB       bool
}

// newFlagSet construye el FlagSet del CLI. Se usa un FlagSet propio en
// lugar del global para que Load sea testeable con args arbitrarios.
func newFlagSet() (*pflag.FlagSet, *flagValues) {
	vals := &flagValues{}

	fs := pflag.NewFlagSet("face-catcher", pflag.ContinueOnError)
	fs.SortFlags = false
	fs.Usage = func() { fmt.Fprint(os.Stderr, helpText) }

	fs.IntVarP(&vals.count, "count", "n", 10, "Número de imágenes a descargar")
	fs.StringVarP(&vals.outputDir, "out", "o", "classified_images", "Directorio de salida")
	fs.StringVarP(&vals.detector, "detector", "d", ports.DefaultDetectorBackend, "Backend de detección facial")
	fs.IntVarP(&vals.workers, "workers", "c", 3, "Número de workers concurrentes")
	fs.StringVar(&vals.ageGroups, "age-groups", "", "Nombres de los cuatro grupos de edad (separados por comas)")
	fs.StringVar(&vals.endpoint, "endpoint", "", "URL del origen de imágenes")
	fs.StringVar(&vals.analyzer, "analyzer", "", "URL base del servicio de análisis")
	fs.StringVar(&vals.proxy, "proxy", "", "Proxy HTTP(S) o SOCKS5 para peticiones salientes")
	fs.IntVar(&vals.retries, "retries", 3, "Reintentos por imagen")
	fs.IntVar(&vals.timeout, "timeout", 30, "Timeout por descarga en segundos")
	fs.StringVar(&vals.configFile, "config", "", "Fichero de configuración YAML")
	fs.BoolVarP(&vals.verbose, "verbose", "v", false, "Logging detallado")
	fs.BoolVar(&vals.quiet, "quiet", false, "Suprimir salida de progreso")
	fs.BoolVarP(&vals.yes, "yes", "y", false, "No pedir confirmación para lotes grandes")
	fs.BoolVar(&vals.noCB, "no-circuit-breaker", false, "Desactivar circuit breaker")
	fs.BoolVar(&vals.version, "version", false, "Imprimir versión y salir")

	return fs, vals
}

// loadFromFile carga configuración desde un fichero YAML.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: cannot read config file %s: %v", domain.ErrInvalidConfig, path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("%w: cannot parse config file %s: %v", domain.ErrInvalidConfig, path, err)
	}

	return nil
}

// loadFromEnv carga configuración desde variables de entorno.
func loadFromEnv(cfg *Config) {
	if v := getenv("FACE_CATCHER_COUNT", ""); v != "" {
		cfg.Core.Count = parseInt(v, cfg.Core.Count)
	}
	if v := getenv("FACE_CATCHER_WORKERS", ""); v != "" {
		cfg.Core.Workers = parseInt(v, cfg.Core.Workers)
	}
	if v := getenv("FACE_CATCHER_OUTPUT_DIR", ""); v != "" {
		cfg.Output.Dir = v
	}
	if v := getenv("FACE_CATCHER_ENDPOINT", ""); v != "" {
		cfg.Source.Endpoint = v
	}
	if v := getenv("FACE_CATCHER_USER_AGENT", ""); v != "" {
		cfg.Source.UserAgent = v
	}
	if v := getenv("FACE_CATCHER_TIMEOUT", ""); v != "" {
		cfg.Source.TimeoutS = parseInt(v, cfg.Source.TimeoutS)
	}
	if v := getenv("FACE_CATCHER_RETRIES", ""); v != "" {
		cfg.Source.RetryAttempts = parseInt(v, cfg.Source.RetryAttempts)
	}
	if v := getenv("FACE_CATCHER_PROXY_URL", ""); v != "" {
		cfg.Source.ProxyURL = v
	}
	if v := getenv("FACE_CATCHER_ANALYZER_URL", ""); v != "" {
		cfg.Analyzer.BaseURL = v
	}
	if v := getenv("FACE_CATCHER_DETECTOR", ""); v != "" {
		cfg.Analyzer.DetectorBackend = v
	}
	if v := getenv("FACE_CATCHER_ANALYZER_TIMEOUT", ""); v != "" {
		cfg.Analyzer.TimeoutS = parseInt(v, cfg.Analyzer.TimeoutS)
	}
	if v := getenv("FACE_CATCHER_AGE_GROUPS", ""); v != "" {
		cfg.AgeGroups = splitList(v)
	}
	if v := getenv("FACE_CATCHER_QUIET", ""); v != "" {
		cfg.Core.Quiet = parseBool(v)
	}
	if v := getenv("FACE_CATCHER_CB_ENABLED", ""); v != "" {
		cfg.Resilience.CircuitBreakerEnabled = parseBool(v)
	}
	if v := getenv("FACE_CATCHER_CB_THRESHOLD", ""); v != "" {
		cfg.Resilience.CircuitBreakerThreshold = parseInt(v, cfg.Resilience.CircuitBreakerThreshold)
	}
}

// applyFlags aplica los flags explícitos del usuario sobre la configuración.
// Solo se aplican los flags presentes en la línea de comandos: un flag
// ausente nunca pisa lo que ENV o el fichero hayan establecido.
func applyFlags(cfg *Config, fs *pflag.FlagSet, vals *flagValues) {
	if fs.Changed("count") {
		cfg.Core.Count = vals.count
	}
	if fs.Changed("workers") {
		cfg.Core.Workers = vals.workers
	}
	if fs.Changed("out") {
		cfg.Output.Dir = vals.outputDir
	}
	if fs.Changed("detector") {
		cfg.Analyzer.DetectorBackend = vals.detector
	}
	if fs.Changed("age-groups") {
		cfg.AgeGroups = splitList(vals.ageGroups)
	}
	if fs.Changed("endpoint") {
		cfg.Source.Endpoint = vals.endpoint
	}
	if fs.Changed("analyzer") {
		cfg.Analyzer.BaseURL = vals.analyzer
	}
	if fs.Changed("proxy") {
		cfg.Source.ProxyURL = vals.proxy
	}
	if fs.Changed("retries") {
		cfg.Source.RetryAttempts = vals.retries
	}
	if fs.Changed("timeout") {
		cfg.Source.TimeoutS = vals.timeout
	}
	if fs.Changed("no-circuit-breaker") {
		cfg.Resilience.CircuitBreakerEnabled = !vals.noCB
	}

	cfg.Core.Verbose = vals.verbose
	if fs.Changed("quiet") {
		cfg.Core.Quiet = vals.quiet
	}
	cfg.Core.Yes = vals.yes
	cfg.Core.PrintVersion = vals.version
}

func normalize(c *Config) {
	c.Source.Endpoint = strings.TrimSpace(c.Source.Endpoint)
	c.Analyzer.BaseURL = strings.TrimRight(strings.TrimSpace(c.Analyzer.BaseURL), "/")

	if c.Core.Workers < 1 {
		c.Core.Workers = 1
	}
	if c.Source.TimeoutS < 0 {
		c.Source.TimeoutS = 0
	}
	if c.Source.RetryAttempts < 1 {
		c.Source.RetryAttempts = 1
	}
	if c.Source.BackoffBaseMS < 0 {
		c.Source.BackoffBaseMS = 1000
	}
	if c.Analyzer.TimeoutS < 1 {
		c.Analyzer.TimeoutS = 120
	}
	if c.Output.Dir == "" {
		c.Output.Dir = "classified_images"
	}
}

// Validate verifica que la configuración sea coherente.
// Los errores retornados envuelven domain.ErrInvalidConfig.
func (c Config) Validate() error {
	if c.Core.Count < 0 {
		return fmt.Errorf("%w: count must be non-negative, got %d", domain.ErrInvalidConfig, c.Core.Count)
	}
	if !validator.IsURL(c.Source.Endpoint) {
		return fmt.Errorf("%w: source endpoint %q is not a valid URL", domain.ErrInvalidConfig, c.Source.Endpoint)
	}
	if !validator.IsURL(c.Analyzer.BaseURL) {
		return fmt.Errorf("%w: analyzer base URL %q is not a valid URL", domain.ErrInvalidConfig, c.Analyzer.BaseURL)
	}
	if validator.IsEmpty(c.Source.UserAgent) {
		return fmt.Errorf("%w: user agent must not be empty", domain.ErrInvalidConfig)
	}
	if len(c.AgeGroups) > 0 && len(c.AgeGroups) != len(c.bucketSetRaw().Buckets) {
		return fmt.Errorf("%w: --age-groups needs %d names, got %d",
			domain.ErrInvalidConfig, len(c.bucketSetRaw().Buckets), len(c.AgeGroups))
	}

	if _, err := c.BucketSet(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidConfig, err)
	}

	return nil
}

// bucketSetRaw construye el BucketSet sin renombrar ni validar.
func (c Config) bucketSetRaw() domain.BucketSet {
	if len(c.Buckets) == 0 {
		set := domain.DefaultBucketSet()
		if c.FallbackBucket != "" {
			set.Fallback = c.FallbackBucket
		}
		return set
	}

	buckets := make([]domain.AgeBucket, 0, len(c.Buckets))
	for _, b := range c.Buckets {
		buckets = append(buckets, domain.AgeBucket{Name: b.Name, Min: b.Min, Max: b.Max})
	}

	fallback := c.FallbackBucket
	if fallback == "" {
		fallback = buckets[len(buckets)-1].Name
	}

	return domain.BucketSet{Buckets: buckets, Fallback: fallback}
}

// BucketSet construye y valida el conjunto de buckets de edad activo,
// aplicando el renombrado de --age-groups si procede.
func (c Config) BucketSet() (domain.BucketSet, error) {
	set := c.bucketSetRaw()

	if len(c.AgeGroups) > 0 {
		renamed, err := set.Rename(c.AgeGroups)
		if err != nil {
			return domain.BucketSet{}, err
		}
		set = renamed
	}

	if err := set.Validate(); err != nil {
		return domain.BucketSet{}, err
	}

	return set, nil
}

// SourceConfig construye la configuración del port ImageSource.
func (c Config) SourceConfig() ports.SourceConfig {
	return ports.SourceConfig{
		Endpoint:  c.Source.Endpoint,
		Timeout:   time.Duration(c.Source.TimeoutS) * time.Second,
		UserAgent: c.Source.UserAgent,
		ProxyURL:  c.Source.ProxyURL,
		RateLimit: c.Source.RateLimit,
	}
}

// AnalyzerConfig construye la configuración del port FaceAnalyzer.
func (c Config) AnalyzerConfig() ports.AnalyzerConfig {
	return ports.AnalyzerConfig{
		BaseURL:         c.Analyzer.BaseURL,
		DetectorBackend: c.Analyzer.DetectorBackend,
		Timeout:         time.Duration(c.Analyzer.TimeoutS) * time.Second,
		RateLimit:       c.Analyzer.RateLimit,
	}
}

// BackoffBase retorna la base del backoff exponencial entre reintentos.
func (c Config) BackoffBase() time.Duration {
	return time.Duration(c.Source.BackoffBaseMS) * time.Millisecond
}

// CircuitBreakerTimeout retorna el cooldown del circuit breaker.
func (c Config) CircuitBreakerTimeout() time.Duration {
	return time.Duration(c.Resilience.CircuitBreakerTimeoutS) * time.Second
}

// ToJSON serializa la configuración a JSON (útil para debugging).
func (c Config) ToJSON() (string, error) {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Timeout devuelve el timeout de descarga como time.Duration.
func (c Config) Timeout() time.Duration {
	if c.Source.TimeoutS <= 0 {
		return 0
	}
	return time.Duration(c.Source.TimeoutS) * time.Second
}

// Helpers

func getenv(k, def string) string {
	if v, ok := os.LookupEnv(k); ok {
		return v
	}
	return def
}

func parseBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "t", "true", "y", "yes", "on":
		return true
	default:
		return false
	}
}

func parseInt(v string, def int) int {
	i, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return def
	}
	return i
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
