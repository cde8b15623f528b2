// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package provision

import (
	"context"
	"fmt"
	"time"
)

// StepStatus is the outcome of a single pipeline step.
type StepStatus string

const (
	// StatusSucceeded means the step completed without error.
	StatusSucceeded StepStatus = "succeeded"
	// StatusFailed means a required step failed; the run aborts.
	StatusFailed StepStatus = "failed"
	// StatusWarned means a best-effort step failed; the run continues.
	StatusWarned StepStatus = "warned"
	// StatusSkipped means the step never ran because an earlier required
	// step failed.
	StatusSkipped StepStatus = "skipped"
)

// GetStatusSymbol returns a symbol representation for a step status.
func GetStatusSymbol(status StepStatus) string {
	switch status {
	case StatusSucceeded:
		return "✅"
	case StatusFailed:
		return "💥"
	case StatusWarned:
		return "⚠️"
	case StatusSkipped:
		return "⏭️"
	default:
		return "❓"
	}
}

// Step is one unit of the provisioning pipeline.
type Step struct {
	// Name identifies the step in output and results.
	Name string
	// Run performs the step's work.
	Run func(ctx context.Context) error
	// BestEffort marks the step as non-fatal: a failure records a warning
	// instead of aborting the run.
	BestEffort bool
	// Timeout bounds the step. Zero means no timeout.
	Timeout time.Duration
}

// StepResult records the outcome of one step.
type StepResult struct {
	Name     string
	Status   StepStatus
	Err      error
	Duration time.Duration
}

// Reporter receives progress callbacks while the pipeline runs. Implementations
// must not block; they drive spinner and console output.
type Reporter interface {
	StepStarted(name string)
	StepCompleted(result StepResult)
}

type nopReporter struct{}

func (nopReporter) StepStarted(string)       {}
func (nopReporter) StepCompleted(StepResult) {}

// Pipeline executes an ordered list of steps in strict sequence. A required
// step failure aborts the run and marks every remaining step as skipped; a
// best-effort failure records a warning and execution continues. There is no
// rollback: an aborted run leaves the resources created so far in place.
type Pipeline struct {
	steps    []Step
	reporter Reporter
}

func NewPipeline(steps []Step, reporter Reporter) *Pipeline {
	if reporter == nil {
		reporter = nopReporter{}
	}
	return &Pipeline{steps: steps, reporter: reporter}
}

// Run executes the pipeline. The returned results always have one entry per
// step, in order. The error is the first required-step failure, or nil.
func (p *Pipeline) Run(ctx context.Context) ([]StepResult, error) {
	results := make([]StepResult, 0, len(p.steps))
	var fatal error

	for _, step := range p.steps {
		if fatal != nil {
			result := StepResult{Name: step.Name, Status: StatusSkipped}
			p.reporter.StepCompleted(result)
			results = append(results, result)
			continue
		}

		p.reporter.StepStarted(step.Name)

		start := time.Now()
		err := p.runStep(ctx, step)
		result := StepResult{
			Name:     step.Name,
			Status:   StatusSucceeded,
			Duration: time.Since(start),
		}

		if err != nil {
			result.Err = err
			if step.BestEffort {
				result.Status = StatusWarned
			} else {
				result.Status = StatusFailed
				fatal = fmt.Errorf("%s: %w", step.Name, err)
			}
		}

		p.reporter.StepCompleted(result)
		results = append(results, result)
	}

	return results, fatal
}

func (p *Pipeline) runStep(ctx context.Context, step Step) error {
	if step.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, step.Timeout)
		defer cancel()
	}

	return step.Run(ctx)
}

// Warnings returns the results that recorded a best-effort failure.
func Warnings(results []StepResult) []StepResult {
	warned := []StepResult{}
	for _, r := range results {
		if r.Status == StatusWarned {
			warned = append(warned, r)
		}
	}
	return warned
}
