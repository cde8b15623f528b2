// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package provision

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// EnvFileName is the fixed name of the generated artifact, written to the
// working directory and overwritten on each run.
const EnvFileName = "aoai-quickstart.env"

const (
	EnvEndpoint            = "AZURE_OPENAI_ENDPOINT"
	EnvKey                 = "AZURE_OPENAI_KEY"
	EnvChatDeployment      = "AZURE_OPENAI_CHAT_DEPLOYMENT"
	EnvEmbeddingDeployment = "AZURE_OPENAI_EMBEDDING_DEPLOYMENT"
	EnvAPIVersion          = "AZURE_OPENAI_API_VERSION"
)

// WriteEnvFile writes the credentials artifact and exports the same values
// into the process environment so an optionally launched test application
// inherits them.
func WriteEnvFile(path string, creds Credentials, cfg *Config) error {
	values := map[string]string{
		EnvEndpoint:       creds.Endpoint,
		EnvKey:            creds.Key,
		EnvChatDeployment: cfg.Chat.DeploymentName,
		EnvAPIVersion:     cfg.APIVersion,
	}
	if cfg.Embedding.Name != "" {
		values[EnvEmbeddingDeployment] = cfg.Embedding.DeploymentName
	}

	if err := godotenv.Write(values, path); err != nil {
		return fmt.Errorf("writing env file %s: %w", path, err)
	}

	for key, value := range values {
		if err := os.Setenv(key, value); err != nil {
			return fmt.Errorf("exporting %s: %w", key, err)
		}
	}

	return nil
}

// LoadEnvFile loads a previously written artifact into the process
// environment. Missing files are not an error; existing environment values
// take precedence, matching godotenv semantics.
func LoadEnvFile(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}

	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading env file %s: %w", path, err)
	}

	return nil
}
