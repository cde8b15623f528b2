// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package provision

import (
	"fmt"
	"os"
	"time"

	"github.com/braydonk/yaml"
)

// ModelConfig describes one model deployment to create under the account.
type ModelConfig struct {
	// Name is the model name, e.g. "gpt-4o".
	Name string `yaml:"name"`
	// Version is the model version, e.g. "2024-08-06".
	Version string `yaml:"version"`
	// DeploymentName is the name of the deployment under the account.
	DeploymentName string `yaml:"deploymentName"`
	// SKU is the deployment SKU, normally "Standard".
	SKU string `yaml:"sku"`
	// Capacity is the throughput allocation in thousands of tokens per minute.
	Capacity int32 `yaml:"capacity"`
}

// Config holds the provisioning settings for a run.
type Config struct {
	// Location is the Azure region for all created resources.
	Location string `yaml:"location"`
	// SKUName is the cognitive services account SKU.
	SKUName string `yaml:"sku"`
	// APIVersion is the Azure OpenAI data-plane API version used by the
	// smoke tests and the test application.
	APIVersion string `yaml:"apiVersion"`
	// StepTimeout bounds each provisioning step, as a Go duration string.
	// Account and deployment creation can take minutes, so the default is
	// generous.
	StepTimeout string `yaml:"stepTimeout"`

	// Chat is the required chat model deployment.
	Chat ModelConfig `yaml:"chat"`
	// Embedding is the best-effort embedding model deployment.
	Embedding ModelConfig `yaml:"embedding"`

	stepTimeout time.Duration
}

// DefaultConfig returns the configuration used when no config file is given.
func DefaultConfig() *Config {
	cfg := &Config{
		Location:    "eastus",
		SKUName:     "S0",
		APIVersion:  "2024-02-01",
		StepTimeout: "30m",
		Chat: ModelConfig{
			Name:           "gpt-4o",
			Version:        "2024-08-06",
			DeploymentName: "chat",
			SKU:            "Standard",
			Capacity:       10,
		},
		Embedding: ModelConfig{
			Name:           "text-embedding-3-small",
			Version:        "1",
			DeploymentName: "embedding",
			SKU:            "Standard",
			Capacity:       10,
		},
	}
	// Defaults are always valid.
	_ = cfg.Validate()
	return cfg
}

// LoadConfig reads and validates a YAML config file. Values omitted from the
// file fall back to the defaults.
func LoadConfig(filePath string) (*Config, error) {
	yamlFile, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", filePath, err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(yamlFile, config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// Validate checks required fields and parses the step timeout.
func (c *Config) Validate() error {
	if c.Location == "" {
		return fmt.Errorf("location is required")
	}
	if c.SKUName == "" {
		return fmt.Errorf("sku is required")
	}
	if c.APIVersion == "" {
		return fmt.Errorf("apiVersion is required")
	}
	if c.Chat.Name == "" || c.Chat.DeploymentName == "" {
		return fmt.Errorf("chat model name and deploymentName are required")
	}
	if c.Chat.Capacity <= 0 {
		return fmt.Errorf("chat capacity must be positive")
	}
	if c.Embedding.Name != "" && c.Embedding.Capacity <= 0 {
		return fmt.Errorf("embedding capacity must be positive")
	}
	if c.Chat.SKU == "" {
		c.Chat.SKU = "Standard"
	}
	if c.Embedding.Name != "" && c.Embedding.SKU == "" {
		c.Embedding.SKU = "Standard"
	}

	timeout, err := time.ParseDuration(c.StepTimeout)
	if err != nil {
		return fmt.Errorf("invalid stepTimeout %q: %w", c.StepTimeout, err)
	}
	if timeout <= 0 {
		return fmt.Errorf("stepTimeout must be positive")
	}
	c.stepTimeout = timeout

	return nil
}

// Timeout returns the parsed per-step timeout. Validate must have succeeded.
func (c *Config) Timeout() time.Duration {
	return c.stepTimeout
}
