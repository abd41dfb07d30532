// internal/platform/config/config_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/murapadev/face-catcher/internal/core/domain"
	"github.com/murapadev/face-catcher/internal/platform/errors"
	"github.com/murapadev/face-catcher/internal/testutil"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(nil)
	testutil.AssertNoError(t, err, "load with no args should succeed")

	testutil.AssertEqual(t, cfg.Core.Count, 10, "default count")
	testutil.AssertEqual(t, cfg.Core.Workers, 3, "default workers")
	testutil.AssertEqual(t, cfg.Output.Dir, "classified_images", "default output dir")
	testutil.AssertEqual(t, cfg.Source.Endpoint, "https://thispersondoesnotexist.com/", "default endpoint")
	testutil.AssertEqual(t, cfg.Source.RetryAttempts, 3, "default retries")
	testutil.AssertEqual(t, cfg.Source.TimeoutS, 30, "default timeout")
	testutil.AssertEqual(t, cfg.Analyzer.DetectorBackend, "opencv", "default detector")
	testutil.AssertEqual(t, cfg.Analyzer.BaseURL, "http://localhost:5005", "default analyzer URL")
	testutil.AssertTrue(t, cfg.Resilience.CircuitBreakerEnabled, "circuit breaker enabled by default")
}

func TestLoad_Flags(t *testing.T) {
	cfg, err := Load([]string{
		"-n", "50",
		"-c", "8",
		"-o", "faces_out",
		"-d", "retinaface",
		"--retries", "5",
		"--proxy", "socks5://localhost:1080",
		"--quiet",
		"-y",
	})
	testutil.AssertNoError(t, err, "load with flags should succeed")

	testutil.AssertEqual(t, cfg.Core.Count, 50, "count flag")
	testutil.AssertEqual(t, cfg.Core.Workers, 8, "workers flag")
	testutil.AssertEqual(t, cfg.Output.Dir, "faces_out", "out flag")
	testutil.AssertEqual(t, cfg.Analyzer.DetectorBackend, "retinaface", "detector flag")
	testutil.AssertEqual(t, cfg.Source.RetryAttempts, 5, "retries flag")
	testutil.AssertEqual(t, cfg.Source.ProxyURL, "socks5://localhost:1080", "proxy flag")
	testutil.AssertTrue(t, cfg.Core.Quiet, "quiet flag")
	testutil.AssertTrue(t, cfg.Core.Yes, "yes flag")
}

func TestLoad_EnvOverridesDefaults(t *testing.T) {
	t.Setenv("FACE_CATCHER_COUNT", "25")
	t.Setenv("FACE_CATCHER_DETECTOR", "mtcnn")

	cfg, err := Load(nil)
	testutil.AssertNoError(t, err, "load should succeed")

	testutil.AssertEqual(t, cfg.Core.Count, 25, "count from env")
	testutil.AssertEqual(t, cfg.Analyzer.DetectorBackend, "mtcnn", "detector from env")
}

func TestLoad_FlagsOverrideEnv(t *testing.T) {
	t.Setenv("FACE_CATCHER_COUNT", "25")

	cfg, err := Load([]string{"-n", "100"})
	testutil.AssertNoError(t, err, "load should succeed")

	testutil.AssertEqual(t, cfg.Core.Count, 100, "flag should beat env")
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "face-catcher.yaml")

	yamlContent := `
core:
  count: 40
  workers: 6
output:
  dir: yaml_out
source:
  retries: 7
analyzer:
  detector_backend: yunet
buckets:
  - {name: young, min: 0, max: 29}
  - {name: old, min: 30, max: -1}
fallback_bucket: old
`
	if err := os.WriteFile(path, []byte(yamlContent), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load([]string{"--config", path})
	testutil.AssertNoError(t, err, "load with config file should succeed")

	testutil.AssertEqual(t, cfg.Core.Count, 40, "count from file")
	testutil.AssertEqual(t, cfg.Core.Workers, 6, "workers from file")
	testutil.AssertEqual(t, cfg.Output.Dir, "yaml_out", "output dir from file")
	testutil.AssertEqual(t, cfg.Source.RetryAttempts, 7, "retries from file")
	testutil.AssertEqual(t, cfg.Analyzer.DetectorBackend, "yunet", "detector from file")

	set, err := cfg.BucketSet()
	testutil.AssertNoError(t, err, "bucket set from file should validate")
	testutil.AssertEqual(t, len(set.Buckets), 2, "bucket count from file")
	testutil.AssertEqual(t, set.Fallback, "old", "fallback from file")
}

func TestLoad_FlagsOverrideConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "face-catcher.yaml")
	if err := os.WriteFile(path, []byte("core:\n  count: 40\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load([]string{"--config", path, "-n", "5"})
	testutil.AssertNoError(t, err, "load should succeed")

	testutil.AssertEqual(t, cfg.Core.Count, 5, "flag should beat config file")
}

func TestLoad_MissingConfigFile(t *testing.T) {
	_, err := Load([]string{"--config", "/nonexistent/face-catcher.yaml"})
	testutil.AssertError(t, err, "missing config file should fail")
	testutil.AssertTrue(t, errors.Is(err, domain.ErrInvalidConfig), "error should wrap ErrInvalidConfig")
}

func TestLoad_InvalidBucketsInFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "face-catcher.yaml")

	// Gap between 12 and 20
	yamlContent := `
buckets:
  - {name: child, min: 0, max: 12}
  - {name: adult, min: 20, max: -1}
`
	if err := os.WriteFile(path, []byte(yamlContent), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := Load([]string{"--config", path})
	testutil.AssertError(t, err, "bucket gap should fail validation")
	testutil.AssertTrue(t, errors.Is(err, domain.ErrInvalidConfig), "error should wrap ErrInvalidConfig")
}

func TestLoad_AgeGroups(t *testing.T) {
	t.Run("renames default buckets", func(t *testing.T) {
		cfg, err := Load([]string{"--age-groups", "kid,young,grown,elder"})
		testutil.AssertNoError(t, err, "load should succeed")

		set, err := cfg.BucketSet()
		testutil.AssertNoError(t, err, "bucket set should validate")

		testutil.AssertEqual(t, set.Buckets[0].Name, "kid", "first bucket renamed")
		testutil.AssertEqual(t, set.Buckets[3].Name, "elder", "last bucket renamed")
		testutil.AssertEqual(t, set.Fallback, "grown", "fallback follows the rename")

		// Ranges are untouched
		testutil.AssertEqual(t, set.Buckets[0].Max, 12, "range preserved")
		testutil.AssertEqual(t, set.Buckets[3].Min, 60, "range preserved")
	})

	t.Run("rejects wrong arity", func(t *testing.T) {
		_, err := Load([]string{"--age-groups", "a,b"})
		testutil.AssertError(t, err, "two names for four buckets should fail")
		testutil.AssertTrue(t, errors.Is(err, domain.ErrInvalidConfig), "error should wrap ErrInvalidConfig")
	})
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "negative count", args: []string{"-n", "-5"}},
		{name: "bad endpoint", args: []string{"--endpoint", "not-a-url"}},
		{name: "empty analyzer URL", args: []string{"--analyzer", ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.args)
			testutil.AssertError(t, err, "invalid value should fail")
		})
	}
}

func TestLoad_NormalizesValues(t *testing.T) {
	cfg, err := Load([]string{"-c", "0", "--analyzer", "http://localhost:5005/"})
	testutil.AssertNoError(t, err, "load should succeed")

	testutil.AssertEqual(t, cfg.Core.Workers, 1, "workers should floor at 1")
	testutil.AssertEqual(t, cfg.Analyzer.BaseURL, "http://localhost:5005", "analyzer URL trailing slash stripped")
}

func TestConfig_SourceConfig(t *testing.T) {
	cfg, err := Load([]string{"--timeout", "60", "--proxy", "http://localhost:8080"})
	testutil.AssertNoError(t, err, "load should succeed")

	sc := cfg.SourceConfig()
	testutil.AssertEqual(t, sc.Endpoint, "https://thispersondoesnotexist.com/", "endpoint passthrough")
	testutil.AssertEqual(t, sc.Timeout.Seconds(), 60.0, "timeout conversion")
	testutil.AssertEqual(t, sc.ProxyURL, "http://localhost:8080", "proxy passthrough")
}

func TestConfig_ToJSON(t *testing.T) {
	cfg := DefaultConfig()
	out, err := cfg.ToJSON()
	testutil.AssertNoError(t, err, "serialization should succeed")
	testutil.AssertContains(t, out, "classified_images", "JSON should carry the output dir")
}
