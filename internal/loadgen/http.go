package loadgen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/mergington/internal/domain/model"
	"github.com/okian/mergington/pkg/logger"
)

// progressInterval controls how often verbose runs report progress.
const progressInterval = time.Second

// HTTPClient wraps http.Client with the service base URL.
type HTTPClient struct {
	client  *http.Client
	baseURL string
}

// newHTTPClient creates a new HTTP client with timeout.
func newHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}
}

// do sends a request and decodes a JSON response into out when the status
// matches want.
func (c *HTTPClient) do(ctx context.Context, method, path string, body any, want int, out any) error {
	var rd io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		rd = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != want {
		return fmt.Errorf("%w: %s %s: %d %s", ErrUnexpectedStatus, method, path, resp.StatusCode, bytes.TrimSpace(data))
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	return nil
}

// Ping checks the liveness endpoint.
func (c *HTTPClient) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/healthz", nil, http.StatusOK, nil)
}

// Activities fetches every activity.
func (c *HTTPClient) Activities(ctx context.Context) (map[string]model.Activity, error) {
	var out map[string]model.Activity
	err := c.do(ctx, http.MethodGet, "/activities", nil, http.StatusOK, &out)
	return out, err
}

// Signup submits one roster request.
func (c *HTTPClient) Signup(ctx context.Context, s Signup) error {
	path := "/activities/" + url.PathEscape(s.Activity) + "/signup?email=" + url.QueryEscape(s.Email)
	return c.do(ctx, http.MethodPost, path, nil, http.StatusOK, nil)
}

// HealthRecords fetches the health log.
func (c *HTTPClient) HealthRecords(ctx context.Context) ([]model.HealthRecord, error) {
	var out []model.HealthRecord
	err := c.do(ctx, http.MethodGet, "/health", nil, http.StatusOK, &out)
	return out, err
}

// AddHealthRecord submits one record.
func (c *HTTPClient) AddHealthRecord(ctx context.Context, in model.HealthRecordInput) (model.HealthRecord, error) {
	var out struct {
		Record model.HealthRecord `json:"record"`
	}
	err := c.do(ctx, http.MethodPost, "/health", in, http.StatusOK, &out)
	return out.Record, err
}

// HealthStats fetches the health log summary.
func (c *HTTPClient) HealthStats(ctx context.Context) (model.HealthStats, error) {
	var out model.HealthStats
	err := c.do(ctx, http.MethodGet, "/health/stats", nil, http.StatusOK, &out)
	return out, err
}

// Snapshot reads activities, records and stats in that order.
func (c *HTTPClient) Snapshot(ctx context.Context) (Snapshot, error) {
	var (
		s   Snapshot
		err error
	)
	if s.Activities, err = c.Activities(ctx); err != nil {
		return Snapshot{}, err
	}
	if s.Records, err = c.HealthRecords(ctx); err != nil {
		return Snapshot{}, err
	}
	if s.Stats, err = c.HealthStats(ctx); err != nil {
		return Snapshot{}, err
	}
	return s, nil
}

// submitResult counts the outcome of a batch.
type submitResult struct {
	successful int64
	failed     int64
}

// submitAll runs submit for every job on a pool of workers.
func submitAll[T any](ctx context.Context, config *Config, kind string, jobs []T, submit func(context.Context, T) error) submitResult {
	log := logger.Get()
	log.Info(ctx, "submitting", logger.String("kind", kind), logger.Int("count", len(jobs)), logger.Int("workers", config.Workers))

	var (
		successful atomic.Int64
		failed     atomic.Int64
	)

	done := make(chan struct{})
	if config.Verbose {
		go func() {
			ticker := time.NewTicker(progressInterval)
			defer ticker.Stop()
			for {
				select {
				case <-done:
					return
				case <-ticker.C:
					log.Info(ctx, "progress",
						logger.String("kind", kind),
						logger.Int("successful", int(successful.Load())),
						logger.Int("failed", int(failed.Load())),
						logger.Int("total", len(jobs)),
					)
				}
			}
		}()
	}

	jobChan := make(chan T, config.Workers*workerChannelMultiplier)
	var wg sync.WaitGroup
	for range config.Workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobChan {
				if err := submit(ctx, job); err != nil {
					failed.Add(1)
					log.Debug(ctx, "submit failed", logger.String("kind", kind), logger.Error(err))
					continue
				}
				successful.Add(1)
			}
		}()
	}

	go func() {
		defer close(jobChan)
		for _, job := range jobs {
			select {
			case <-ctx.Done():
				return
			case jobChan <- job:
			}
		}
	}()

	wg.Wait()
	close(done)

	res := submitResult{successful: successful.Load(), failed: failed.Load()}
	log.Info(ctx, "submission completed",
		logger.String("kind", kind),
		logger.Int("successful", int(res.successful)),
		logger.Int("failed", int(res.failed)),
	)
	return res
}
