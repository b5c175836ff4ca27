package loadgen

import (
	"fmt"
	"io"
	"os"

	"github.com/okian/mergington/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0600
)

// SetupLogging initialises the global logger on stdout, and additionally
// on logFile when it is set.
func SetupLogging(logFile, format string) (io.Closer, error) {
	var (
		w      io.Writer = os.Stdout
		closer io.Closer = io.NopCloser(nil)
	)
	if logFile != "" {
		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
		if err != nil {
			return nil, fmt.Errorf("failed to create log file: %w", err)
		}
		w = io.MultiWriter(os.Stdout, file)
		closer = file
	}

	if err := logger.InitWithFormat(w, format); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return closer, nil
}

// ShowHelp prints usage information for the load generator.
func ShowHelp() {
	os.Stdout.WriteString(`Mergington Load Generator
=========================

Signs up generated students and logs generated health records concurrently,
then checks that every acknowledged write is visible: roster growth, record
count, the id sequence and the stats summary.

Usage:
  go run ./cmd/loadgen [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:8000")
  -activity string
        Activity to sign up for (default: first activity by name)
  -signups int
        Number of signups to submit (default 1000)
  -records int
        Number of health records to submit (default 1000)
  -workers int
        Number of concurrent workers (default CPU cores * 2)
  -timeout duration
        HTTP request timeout (default 30s)
  -output string
        Write the generated payloads to this JSON file
  -log string
        Also write logs to this file
  -log-format string
        Log format: text, json or tint (default "tint")
  -verbose
        Log progress while submitting
  -help
        Show this help message

Examples:
  go run ./cmd/loadgen -signups 5000 -records 5000 -workers 32
  go run ./cmd/loadgen -activity "Chess Club" -output run.json
`)
}
