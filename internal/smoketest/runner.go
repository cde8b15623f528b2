// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package smoketest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultTimeout bounds each smoke-test request. The shell-script ancestor of
// this tool had no timeout at all, which let a hung call block the whole run
// indefinitely.
const DefaultTimeout = 60 * time.Second

// CheckStatus is the outcome of one smoke-test check.
type CheckStatus string

const (
	StatusPassed  CheckStatus = "passed"
	StatusFailed  CheckStatus = "failed"
	StatusWarned  CheckStatus = "warned"
	StatusSkipped CheckStatus = "skipped"
)

// Check is one fixed HTTP request against the deployed endpoint.
type Check struct {
	// Name identifies the check in output.
	Name string
	// Path is the endpoint-relative request path, without API version.
	Path string
	// Body is the JSON request payload.
	Body any
	// Marker is the substring whose presence in the raw response body counts
	// as success. This cannot distinguish a genuine success from an error
	// payload that happens to contain the marker; it is a deliberate
	// quick-test shortcut, not schema validation.
	Marker string
	// Required makes a failure fatal: later checks are skipped.
	Required bool
}

// CheckResult records the outcome of one check.
type CheckResult struct {
	Name   string
	Status CheckStatus
	Err    error
}

// Runner issues the smoke-test requests sequentially.
type Runner struct {
	endpoint   string
	key        string
	apiVersion string
	client     *http.Client
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithHTTPClient overrides the HTTP client, mainly for tests.
func WithHTTPClient(client *http.Client) RunnerOption {
	return func(r *Runner) {
		r.client = client
	}
}

func NewRunner(endpoint string, key string, apiVersion string, opts ...RunnerOption) *Runner {
	runner := &Runner{
		endpoint:   strings.TrimSuffix(endpoint, "/"),
		key:        key,
		apiVersion: apiVersion,
		client:     &http.Client{Timeout: DefaultTimeout},
	}

	for _, opt := range opts {
		opt(runner)
	}

	return runner
}

// ChecksFor returns the three fixed checks for a run: two chat completions
// and one embedding. The first chat check is required; the rest are
// best-effort. The embedding check is omitted when no embedding deployment
// exists.
func ChecksFor(chatDeployment string, embeddingDeployment string) []Check {
	checks := []Check{
		{
			Name:     "chat completion",
			Path:     fmt.Sprintf("/openai/deployments/%s/chat/completions", chatDeployment),
			Body:     chatBody("Say hello in one short sentence.", 50),
			Marker:   `"choices"`,
			Required: true,
		},
		{
			Name:   "chat completion (follow-up)",
			Path:   fmt.Sprintf("/openai/deployments/%s/chat/completions", chatDeployment),
			Body:   chatBody("What is 2+2? Answer with just the number.", 10),
			Marker: `"choices"`,
		},
	}

	if embeddingDeployment != "" {
		checks = append(checks, Check{
			Name: "embedding",
			Path: fmt.Sprintf("/openai/deployments/%s/embeddings", embeddingDeployment),
			Body: map[string]any{
				"input": "quick test",
			},
			Marker: `"data"`,
		})
	}

	return checks
}

func chatBody(message string, maxTokens int) map[string]any {
	return map[string]any{
		"messages": []map[string]string{
			{"role": "user", "content": message},
		},
		"max_tokens":  maxTokens,
		"temperature": 0,
	}
}

// Run executes the checks in order. A required-check failure is fatal: the
// remaining checks are reported as skipped and the error is returned. A
// best-effort failure is recorded as a warning and execution continues.
func (r *Runner) Run(ctx context.Context, checks []Check) ([]CheckResult, error) {
	results := make([]CheckResult, 0, len(checks))
	var fatal error

	for _, check := range checks {
		if fatal != nil {
			results = append(results, CheckResult{Name: check.Name, Status: StatusSkipped})
			continue
		}

		err := r.runCheck(ctx, check)
		result := CheckResult{Name: check.Name, Status: StatusPassed}

		if err != nil {
			result.Err = err
			if check.Required {
				result.Status = StatusFailed
				fatal = fmt.Errorf("%s: %w", check.Name, err)
			} else {
				result.Status = StatusWarned
			}
		}

		results = append(results, result)
	}

	return results, fatal
}

func (r *Runner) runCheck(ctx context.Context, check Check) error {
	payload, err := json.Marshal(check.Body)
	if err != nil {
		return fmt.Errorf("encoding request body: %w", err)
	}

	requestUrl := fmt.Sprintf("%s%s?api-version=%s", r.endpoint, check.Path, r.apiVersion)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, requestUrl, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", r.key)

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if !bytes.Contains(body, []byte(check.Marker)) {
		return fmt.Errorf("response missing %s marker (status %d): %s", check.Marker, resp.StatusCode, truncate(body, 200))
	}

	return nil
}

func truncate(body []byte, limit int) string {
	s := string(body)
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}
