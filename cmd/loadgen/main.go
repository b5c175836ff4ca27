package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/okian/mergington/internal/loadgen"
	"github.com/okian/mergington/pkg/logger"
)

// Default configuration constants.
const (
	defaultSignups     = 1000
	defaultRecords     = 1000
	defaultWorkers     = 2 // multiplier for runtime.NumCPU()
	defaultTimeout     = 30 * time.Second
	defaultTestTimeout = 10 * time.Minute
)

func main() {
	var (
		baseURL   = flag.String("url", "http://localhost:8000", "Base URL of the service")
		activity  = flag.String("activity", "", "Activity to sign up for (default: first by name)")
		signups   = flag.Int("signups", defaultSignups, "Number of signups to submit")
		records   = flag.Int("records", defaultRecords, "Number of health records to submit")
		workers   = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		timeout   = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		output    = flag.String("output", "", "Write the generated payloads to this JSON file")
		logFile   = flag.String("log", "", "Also write logs to this file")
		logFormat = flag.String("log-format", logger.FormatTint, "Log format: text, json or tint")
		verbose   = flag.Bool("verbose", false, "Log progress while submitting")
		help      = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		loadgen.ShowHelp()
		return
	}

	closer, err := loadgen.SetupLogging(*logFile, *logFormat)
	if err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer closer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, defaultTestTimeout)
	defer cancel()

	if *verbose {
		_ = logger.SetLevelString("debug")
	}

	config := &loadgen.Config{
		BaseURL:    *baseURL,
		Activity:   *activity,
		Signups:    *signups,
		Records:    *records,
		Workers:    *workers,
		Timeout:    *timeout,
		OutputFile: *output,
		Verbose:    *verbose,
	}

	if _, err := loadgen.Run(ctx, config); err != nil {
		logger.Get().Error(ctx, "load run failed", logger.Error(err))
		closer.Close()
		cancel()
		stop()
		os.Exit(1)
	}
}
