// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package cmd

import (
	"bytes"
	"context"
	"testing"

	"azure.openai.quickstart/internal/provision"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func executeCommand(t *testing.T, args ...string) error {
	t.Helper()

	root := NewRootCommand()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)
	return root.ExecuteContext(context.Background())
}

func TestUpRequiresSubscription(t *testing.T) {
	t.Setenv(envSubscriptionID, "")

	err := executeCommand(t, "up")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "subscription ID is required")
}

func TestUpRejectsBadConfigFile(t *testing.T) {
	t.Setenv(envSubscriptionID, "00000000-0000-0000-0000-000000000000")

	err := executeCommand(t, "up", "--config", "does-not-exist.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestDownRequiresResourceGroup(t *testing.T) {
	err := executeCommand(t, "down")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "resource-group")
}

func TestSmokeRequiresCredentials(t *testing.T) {
	t.Setenv("AZURE_OPENAI_ENDPOINT", "")
	t.Setenv("AZURE_OPENAI_KEY", "")

	err := executeCommand(t, "smoke")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no credentials found")
}

func TestServeRequiresCredentials(t *testing.T) {
	t.Setenv("AZURE_OPENAI_ENDPOINT", "")
	t.Setenv("AZURE_OPENAI_KEY", "")

	err := executeCommand(t, "serve")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no credentials found")
}

func TestUnknownCommand(t *testing.T) {
	err := executeCommand(t, "bogus")
	require.Error(t, err)
}

func TestLoadUpConfigAppliesLocationOverride(t *testing.T) {
	config, err := loadUpConfig(&upFlags{location: "swedencentral"})
	require.NoError(t, err)
	assert.Equal(t, "swedencentral", config.Location)
}

func TestDeploymentSucceeded(t *testing.T) {
	results := []provision.StepResult{
		{Name: "create chat model deployment", Status: provision.StatusSucceeded},
		{Name: "create embedding model deployment", Status: provision.StatusWarned},
	}

	assert.True(t, deploymentSucceeded(results, "create chat model deployment"))
	assert.False(t, deploymentSucceeded(results, "create embedding model deployment"))
	assert.False(t, deploymentSucceeded(results, "never ran"))
}
