package loadgen

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/okian/mergington/internal/domain/model"
	"github.com/okian/mergington/pkg/logger"
)

// Run executes a complete load run: generate, submit concurrently, then
// verify that every acknowledged write is visible.
func Run(ctx context.Context, config *Config) (*Stats, error) {
	if err := validateConfig(config); err != nil {
		return nil, err
	}

	stats := &Stats{
		RunID:     uuid.NewString()[:8],
		StartTime: time.Now(),
	}
	log := logger.Get()

	log.Info(ctx, "starting load run",
		logger.String("runId", stats.RunID),
		logger.String("baseURL", config.BaseURL),
		logger.Int("signups", config.Signups),
		logger.Int("records", config.Records),
		logger.Int("workers", config.Workers),
		logger.Duration("timeout", config.Timeout),
	)

	client := newHTTPClient(config.BaseURL, config.Timeout)

	// Step 1: Check service health
	if err := client.Ping(ctx); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrServiceUnavailable, err)
	}

	// Step 2: Snapshot the starting state
	before, err := client.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("initial snapshot failed: %w", err)
	}
	activity, err := pickActivity(config.Activity, before.Activities)
	if err != nil {
		return nil, err
	}

	// Step 3: Generate payloads
	payload := Payload{
		RunID:   stats.RunID,
		Signups: generateSignups(stats.RunID, activity, config.Signups),
		Records: generateRecords(time.Now(), config.Records),
	}
	stats.SignupsGenerated = len(payload.Signups)
	stats.RecordsGenerated = len(payload.Records)

	// Step 4: Submit signups and records at the same time
	var signupRes, recordRes submitResult
	done := make(chan struct{})
	go func() {
		defer close(done)
		signupRes = submitAll(ctx, config, "signup", payload.Signups, client.Signup)
	}()
	recordRes = submitAll(ctx, config, "health_record", payload.Records,
		func(ctx context.Context, in model.HealthRecordInput) error {
			_, err := client.AddHealthRecord(ctx, in)
			return err
		})
	<-done

	stats.SignupsSuccessful = int(signupRes.successful)
	stats.SignupsFailed = int(signupRes.failed)
	stats.RecordsSuccessful = int(recordRes.successful)
	stats.RecordsFailed = int(recordRes.failed)

	if err := ctx.Err(); err != nil {
		return stats, fmt.Errorf("load run interrupted: %w", err)
	}

	// Step 5: Snapshot again and verify
	after, err := client.Snapshot(ctx)
	if err != nil {
		return stats, fmt.Errorf("final snapshot failed: %w", err)
	}
	verifyErr := verify(before, after, activity, payload.Signups, stats)

	// Step 6: Save payloads to file
	if config.OutputFile != "" {
		if err := savePayload(ctx, config.OutputFile, payload); err != nil {
			log.Warn(ctx, "failed to save payload to file", logger.Error(err))
		}
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, stats)

	if verifyErr != nil {
		return stats, verifyErr
	}
	log.Info(ctx, "load run completed successfully")
	return stats, nil
}

func validateConfig(config *Config) error {
	switch {
	case config == nil:
		return fmt.Errorf("%w: nil config", ErrInvalidConfig)
	case config.BaseURL == "":
		return fmt.Errorf("%w: base url is required", ErrInvalidConfig)
	case config.Signups < 0 || config.Records < 0:
		return fmt.Errorf("%w: counts must not be negative", ErrInvalidConfig)
	case config.Workers <= 0:
		return fmt.Errorf("%w: workers must be positive", ErrInvalidConfig)
	case config.Timeout <= 0:
		return fmt.Errorf("%w: timeout must be positive", ErrInvalidConfig)
	}
	return nil
}

// pickActivity returns want if it exists, or the alphabetically first
// activity when want is empty.
func pickActivity(want string, activities map[string]model.Activity) (string, error) {
	if want != "" {
		if _, ok := activities[want]; !ok {
			return "", fmt.Errorf("%w: activity %q not offered", ErrInvalidConfig, want)
		}
		return want, nil
	}
	if len(activities) == 0 {
		return "", fmt.Errorf("%w: service offers no activities", ErrInvalidConfig)
	}
	names := make([]string, 0, len(activities))
	for name := range activities {
		names = append(names, name)
	}
	slices.Sort(names)
	return names[0], nil
}

// savePayload writes the generated payloads as indented JSON.
func savePayload(ctx context.Context, filename string, payload Payload) error {
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}
	if err := os.WriteFile(filename, data, outputFilePermission); err != nil {
		return fmt.Errorf("failed to write payload: %w", err)
	}

	logger.Get().Info(ctx, "payload saved to file", logger.String("filename", filename))
	return nil
}

// displayFinalStats logs the run statistics.
func displayFinalStats(ctx context.Context, stats *Stats) {
	var successRate, writesPerSecond float64

	submitted := stats.SignupsGenerated + stats.RecordsGenerated
	successful := stats.SignupsSuccessful + stats.RecordsSuccessful
	if submitted > 0 {
		successRate = float64(successful) / float64(submitted) * percentageMultiplier
	}
	if stats.Duration > 0 {
		writesPerSecond = float64(successful) / stats.Duration.Seconds()
	}

	logger.Get().Info(ctx, "final statistics",
		logger.String("runId", stats.RunID),
		logger.Int("signupsSuccessful", stats.SignupsSuccessful),
		logger.Int("signupsFailed", stats.SignupsFailed),
		logger.Int("recordsSuccessful", stats.RecordsSuccessful),
		logger.Int("recordsFailed", stats.RecordsFailed),
		logger.Duration("duration", stats.Duration),
		logger.Float64("successRate", successRate),
		logger.Float64("writesPerSecond", writesPerSecond),
	)
}
