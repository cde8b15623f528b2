// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package provision

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNamesAreTimestampDerived(t *testing.T) {
	runID := RunID(time.Date(2025, 7, 24, 15, 4, 5, 0, time.UTC))

	assert.Equal(t, "20250724150405", runID)
	assert.Equal(t, "rg-aoai-quickstart-20250724150405", ResourceGroupName(runID))
	assert.Equal(t, "aoai-qs-20250724150405", AccountName(runID))
}

func TestConsecutiveRunsNeverCollide(t *testing.T) {
	first := RunID(time.Date(2025, 7, 24, 15, 4, 5, 0, time.UTC))
	second := RunID(time.Date(2025, 7, 24, 15, 4, 6, 0, time.UTC))

	assert.NotEqual(t, first, second)
	assert.NotEqual(t, ResourceGroupName(first), ResourceGroupName(second))
	assert.NotEqual(t, AccountName(first), AccountName(second))
}

func TestAccountNameIsValidSubdomain(t *testing.T) {
	// The account name doubles as the custom subdomain: lowercase
	// alphanumeric and hyphens, within the 2-64 character limit.
	name := AccountName(RunID(time.Now()))

	assert.Regexp(t, regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`), name)
	assert.LessOrEqual(t, len(name), 64)
}
