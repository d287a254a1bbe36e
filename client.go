package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	retry "github.com/avast/retry-go"
)

// APIClient talks to the upstream REST service that owns study plans,
// rooms, staff, and the final schedule submission endpoint (spec.md
// §1, §9). It holds no scheduling state of its own.
type APIClient struct {
	baseURL    string
	httpClient *http.Client
	cfg        Config
	sink       ProgressSink
}

// NewAPIClient builds a client against baseURL using cfg's submission
// retry/timeout settings.
func NewAPIClient(baseURL string, cfg Config, sink ProgressSink) *APIClient {
	if sink == nil {
		sink = NewNoopSink()
	}
	return &APIClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: cfg.SubmissionTimeout},
		cfg:        cfg,
		sink:       sink,
	}
}

type studyPlanResponse struct {
	Plans []StudyPlan `json:"plans"`
}

// FetchStudyPlans retrieves the study plans for the given plan ids.
func (c *APIClient) FetchStudyPlans(ctx context.Context, planIDs []int) ([]StudyPlan, error) {
	var out studyPlanResponse
	if err := c.getJSON(ctx, "/api/study-plans", planIDs, &out); err != nil {
		return nil, err
	}
	return out.Plans, nil
}

type roomsResponse struct {
	Halls []*Hall `json:"halls"`
	Labs  []*Lab  `json:"labs"`
}

// FetchRooms retrieves the full hall and lab catalogue.
func (c *APIClient) FetchRooms(ctx context.Context) ([]*Hall, []*Lab, error) {
	var out roomsResponse
	if err := c.getJSON(ctx, "/api/rooms", nil, &out); err != nil {
		return nil, nil, err
	}
	return out.Halls, out.Labs, nil
}

func (c *APIClient) getJSON(ctx context.Context, path string, query interface{}, out interface{}) error {
	url := c.baseURL + path
	var body io.Reader
	if query != nil {
		buf, err := json.Marshal(query)
		if err != nil {
			return &InputError{Reason: fmt.Sprintf("encoding query for %s: %v", path, err)}
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, body)
	if err != nil {
		return fmt.Errorf("building request for %s: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("calling %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("%s returned status %d", path, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// SubmitSchedule posts the finished schedule to the upstream service,
// retrying transient failures via avast/retry-go (spec.md §1's
// "submission with retry"). Exhausting the retry budget yields a
// *SubmissionError wrapping the final cause.
func (c *APIClient) SubmitSchedule(ctx context.Context, payload SubmissionPayload) error {
	attempt := 0
	err := retry.Do(
		func() error {
			attempt++
			buf, err := json.Marshal(payload)
			if err != nil {
				return retry.Unrecoverable(fmt.Errorf("encoding submission payload: %w", err))
			}

			req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/schedules", bytes.NewReader(buf))
			if err != nil {
				return retry.Unrecoverable(fmt.Errorf("building submission request: %w", err))
			}
			req.Header.Set("Content-Type", "application/json")

			resp, err := c.httpClient.Do(req)
			if err != nil {
				c.sink.OnLog(LogWarn, "schedule submission attempt failed", map[string]interface{}{"attempt": attempt, "error": err.Error()})
				return err
			}
			defer resp.Body.Close()

			if resp.StatusCode >= 500 {
				c.sink.OnLog(LogWarn, "schedule submission attempt failed", map[string]interface{}{"attempt": attempt, "status": resp.StatusCode})
				return fmt.Errorf("upstream returned status %d", resp.StatusCode)
			}
			if resp.StatusCode >= 400 {
				body, _ := io.ReadAll(resp.Body)
				return retry.Unrecoverable(fmt.Errorf("upstream rejected submission (status %d): %s", resp.StatusCode, string(body)))
			}
			return nil
		},
		retry.Attempts(uint(c.cfg.SubmissionRetries)),
		retry.Context(ctx),
		retry.DelayType(retry.BackOffDelay),
		retry.Delay(500*time.Millisecond),
	)
	if err != nil {
		return &SubmissionError{Attempt: attempt, Cause: err}
	}
	return nil
}
