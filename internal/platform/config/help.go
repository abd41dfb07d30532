// internal/platform/config/help.go
package config

import (
	"fmt"
	"os"
	"runtime"
)

const helpText = `
Face Catcher - AI Face Pipeline

USAGE:
  face-catcher [options]

IMPORTANT:
  Use double dash (--) for long flag names: --count, --workers, --detector
  Use single dash (-) for short flags: -n, -c, -d

  ❌ WRONG:  face-catcher -count 50
  ✓  RIGHT:  face-catcher --count 50
  ✓  RIGHT:  face-catcher -n 50

CORE OPTIONS:
  -n, --count int          Number of images to download (default: 10)
  -c, --workers int        Number of concurrent workers (default: 3)
  -o, --out string         Output directory (default: "classified_images")
  -d, --detector string    Face detection backend (default: "opencv")
                           One of: opencv, ssd, dlib, mtcnn, retinaface,
                           mediapipe, yolov8, yunet, centerface

CLASSIFICATION OPTIONS:
  --age-groups string      Rename the four default age groups, comma separated
                           (default: "child,teen,adult,senior")

SOURCE OPTIONS:
  --endpoint string        Image source URL (default: "https://thispersondoesnotexist.com/")
  --analyzer string        Analyzer service base URL (default: "http://localhost:5005")
  --retries int            Retry attempts per image (default: 3)
  --timeout int            Download timeout in seconds (default: 30)

RESILIENCE OPTIONS:
  --no-circuit-breaker     Disable the circuit breaker for the image source

NETWORK OPTIONS:
  --proxy string           HTTP(S) or SOCKS5 proxy URL for outbound requests

OUTPUT OPTIONS:
  --quiet                  Suppress progress output (logs still go to stderr)
  -v, --verbose            Verbose logging
  -y, --yes                Skip confirmation prompt for large batches

INFO:
  --config string          YAML configuration file
  --version                Print version information and exit
  -h, --help               Show this help message

EXAMPLES:
  Download and classify 50 faces:
    face-catcher -n 50

  Custom output directory and detector:
    face-catcher -n 20 -o faces_out -d retinaface

  Rename age groups:
    face-catcher -n 30 --age-groups kid,young,grown,elder

  Using a SOCKS5 proxy:
    face-catcher -n 10 --proxy socks5://localhost:1080

  Large batch without the confirmation prompt:
    face-catcher -n 5000 -y -c 8

ENVIRONMENT VARIABLES:
  Most flags can be set via environment variables with FACE_CATCHER_ prefix:

  FACE_CATCHER_COUNT=50             Number of images
  FACE_CATCHER_WORKERS=8            Number of workers
  FACE_CATCHER_OUTPUT_DIR=/path     Output directory
  FACE_CATCHER_ENDPOINT=http://...  Image source URL
  FACE_CATCHER_ANALYZER_URL=...     Analyzer service URL
  FACE_CATCHER_DETECTOR=opencv      Detection backend
  FACE_CATCHER_RETRIES=5            Retry attempts
  FACE_CATCHER_PROXY_URL=http://... Proxy URL
  FACE_CATCHER_CONFIG=/path.yaml    Configuration file
  FACE_CATCHER_LOG_LEVEL=debug      Log level (debug, info, warn, error)

  Note: CLI flags override environment variables, which override the
  configuration file.

OUTPUT:
  Face Catcher writes everything under the output directory:
  - raw_downloads/          Downloaded faces (face_000001.jpg, ...)
  - by_age/<group>/         Copies bucketed by age group
  - by_ethnicity/<eth>/     Copies bucketed by dominant ethnicity
  - logs/                   Run logs
  - analysis_results.json   Per-image analysis records
  - statistics.json         Run statistics and configuration echo
`

// PrintHelp prints the custom help message and exits.
func PrintHelp() {
	fmt.Fprint(os.Stdout, helpText)
	os.Exit(0)
}

// PrintVersion prints version information and exits.
func PrintVersion(version, commit, date string) {
	fmt.Printf("Face Catcher %s\n", version)
	fmt.Printf("  Commit:  %s\n", commit)
	fmt.Printf("  Built:   %s\n", date)
	fmt.Printf("  Go:      %s\n", getGoVersion())
	os.Exit(0)
}

func getGoVersion() string {
	return runtime.Version()
}
