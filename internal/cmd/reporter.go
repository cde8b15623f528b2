// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package cmd

import (
	"fmt"
	"time"

	"azure.openai.quickstart/internal/provision"

	"github.com/fatih/color"
	"github.com/theckman/yacspin"
)

// spinnerReporter renders pipeline progress as a spinner per step.
type spinnerReporter struct {
	spinner *yacspin.Spinner
}

func newSpinnerReporter() *spinnerReporter {
	spinner, err := yacspin.New(yacspin.Config{
		Frequency:       100 * time.Millisecond,
		CharSet:         yacspin.CharSets[9],
		SuffixAutoColon: true,
		Colors:          []string{"fgYellow"},
		StopColors:      []string{"fgGreen"},
		StopFailColors:  []string{"fgRed"},
	})
	if err != nil {
		// The config above is static; creation only fails if it is invalid.
		panic(fmt.Sprintf("creating spinner: %v", err))
	}

	return &spinnerReporter{spinner: spinner}
}

func (r *spinnerReporter) StepStarted(name string) {
	r.spinner.Suffix(" " + name)
	_ = r.spinner.Start()
}

func (r *spinnerReporter) StepCompleted(result provision.StepResult) {
	symbol := provision.GetStatusSymbol(result.Status)

	switch result.Status {
	case provision.StatusSucceeded:
		r.spinner.StopCharacter(symbol)
		r.spinner.StopMessage(fmt.Sprintf("%s (%s)", result.Name, result.Duration.Round(time.Second)))
		_ = r.spinner.Stop()
	case provision.StatusWarned:
		r.spinner.StopFailCharacter(symbol)
		r.spinner.StopFailMessage(fmt.Sprintf("%s: %v (continuing)", result.Name, result.Err))
		_ = r.spinner.StopFail()
	case provision.StatusFailed:
		r.spinner.StopFailCharacter(symbol)
		r.spinner.StopFailMessage(fmt.Sprintf("%s: %v", result.Name, result.Err))
		_ = r.spinner.StopFail()
	case provision.StatusSkipped:
		// The spinner never started for skipped steps.
		color.HiBlack("%s %s (skipped)", symbol, result.Name)
	}
}
