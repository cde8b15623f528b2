// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package provision

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteEnvFile(t *testing.T) {
	for _, key := range []string{EnvEndpoint, EnvKey, EnvChatDeployment, EnvEmbeddingDeployment, EnvAPIVersion} {
		t.Setenv(key, "")
	}

	path := filepath.Join(t.TempDir(), EnvFileName)
	creds := Credentials{
		Endpoint: "https://aoai-qs-20250724150405.openai.azure.com/",
		Key:      "secret",
	}

	require.NoError(t, WriteEnvFile(path, creds, DefaultConfig()))

	// The artifact round-trips through godotenv.
	values, err := godotenv.Read(path)
	require.NoError(t, err)
	assert.Equal(t, creds.Endpoint, values[EnvEndpoint])
	assert.Equal(t, "secret", values[EnvKey])
	assert.Equal(t, "chat", values[EnvChatDeployment])
	assert.Equal(t, "embedding", values[EnvEmbeddingDeployment])
	assert.Equal(t, "2024-02-01", values[EnvAPIVersion])

	// Values are also exported so a launched test app inherits them.
	assert.Equal(t, creds.Endpoint, mustGetenv(t, EnvEndpoint))
	assert.Equal(t, "secret", mustGetenv(t, EnvKey))
}

func TestWriteEnvFileOmitsEmbeddingWhenUnconfigured(t *testing.T) {
	t.Setenv(EnvEmbeddingDeployment, "")

	cfg := DefaultConfig()
	cfg.Embedding = ModelConfig{}

	path := filepath.Join(t.TempDir(), EnvFileName)
	require.NoError(t, WriteEnvFile(path, Credentials{Endpoint: "https://e.openai.azure.com/", Key: "k"}, cfg))

	values, err := godotenv.Read(path)
	require.NoError(t, err)
	_, ok := values[EnvEmbeddingDeployment]
	assert.False(t, ok)
}

func TestLoadEnvFileMissingIsNotAnError(t *testing.T) {
	require.NoError(t, LoadEnvFile(filepath.Join(t.TempDir(), "absent.env")))
}

func mustGetenv(t *testing.T, key string) string {
	t.Helper()
	value, ok := os.LookupEnv(key)
	require.True(t, ok, "expected %s to be set", key)
	return value
}
