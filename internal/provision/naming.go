// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package provision

import (
	"fmt"
	"time"
)

// Names are derived from a per-run timestamp so repeated runs on the same
// machine never collide on resource names.

// RunID returns the timestamp-derived identifier used to make resource
// names unique for a single run.
func RunID(t time.Time) string {
	return t.UTC().Format("20060102150405")
}

// ResourceGroupName returns the resource group name for a run.
func ResourceGroupName(runID string) string {
	return fmt.Sprintf("rg-aoai-quickstart-%s", runID)
}

// AccountName returns the cognitive services account name for a run. The
// name doubles as the account's custom subdomain, so it must be globally
// unique and lowercase alphanumeric with hyphens.
func AccountName(runID string) string {
	return fmt.Sprintf("aoai-qs-%s", runID)
}
