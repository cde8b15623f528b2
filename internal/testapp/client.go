// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package testapp

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/azure"
	"github.com/openai/openai-go/v3/option"
)

// systemPrompt is the fixed template every forwarded query is wrapped in.
const systemPrompt = `You are a James Hardie technical expert assistant. Provide accurate, helpful information about James Hardie products including:

- HardiePlank® lap siding
- HardieTrim® boards
- HardiePanel® vertical siding
- HardieSoffit® panels

Focus on:
- Installation procedures and best practices
- Product specifications and compatibility
- Tools and fasteners required
- Troubleshooting common issues
- Building code compliance
- Safety considerations

Keep responses concise but comprehensive. Always recommend following local building codes and manufacturer instructions.`

// Usage carries the token counters reported by the model.
type Usage struct {
	PromptTokens     int64 `json:"prompt_tokens"`
	CompletionTokens int64 `json:"completion_tokens"`
	TotalTokens      int64 `json:"total_tokens"`
}

// Reply is the model's answer to one forwarded query.
type Reply struct {
	Content      string  `json:"content"`
	Provider     string  `json:"provider"`
	Model        string  `json:"model"`
	Usage        Usage   `json:"usage"`
	ResponseTime float64 `json:"response_time"`
}

// ChatClient is the model-serving dependency of the test application.
type ChatClient interface {
	// Generate wraps the user query into the fixed system-prompt template
	// and returns the model's reply with usage counters.
	Generate(ctx context.Context, query string, maxTokens int64) (*Reply, error)
	// Probe issues a minimal one-token call to verify the endpoint is live.
	Probe(ctx context.Context) error
}

// azureChatClient talks to an Azure OpenAI chat deployment.
type azureChatClient struct {
	client     *openai.Client
	deployment string
}

// NewChatClient creates a ChatClient for the given Azure OpenAI endpoint,
// key, API version, and chat deployment name.
func NewChatClient(endpoint string, apiKey string, apiVersion string, deployment string) (ChatClient, error) {
	if endpoint == "" {
		return nil, fmt.Errorf("endpoint is required")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if deployment == "" {
		return nil, fmt.Errorf("chat deployment name is required")
	}

	client := openai.NewClient(
		option.WithBaseURL(fmt.Sprintf("%s/openai", strings.TrimSuffix(endpoint, "/"))),
		option.WithQuery("api-version", apiVersion),
		azure.WithAPIKey(apiKey),
	)

	return &azureChatClient{
		client:     &client,
		deployment: deployment,
	}, nil
}

func (c *azureChatClient) Generate(ctx context.Context, query string, maxTokens int64) (*Reply, error) {
	start := time.Now()

	completion, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.deployment),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(query),
		},
		MaxTokens:   openai.Int(maxTokens),
		Temperature: openai.Float(0.1),
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion failed: %w", err)
	}

	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("chat completion returned no choices")
	}

	return &Reply{
		Content:  completion.Choices[0].Message.Content,
		Provider: "azure_openai",
		Model:    completion.Model,
		Usage: Usage{
			PromptTokens:     completion.Usage.PromptTokens,
			CompletionTokens: completion.Usage.CompletionTokens,
			TotalTokens:      completion.Usage.TotalTokens,
		},
		ResponseTime: time.Since(start).Seconds(),
	}, nil
}

func (c *azureChatClient) Probe(ctx context.Context) error {
	_, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.deployment),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage("ping"),
		},
		MaxTokens: openai.Int(1),
	})
	if err != nil {
		return fmt.Errorf("probe call failed: %w", err)
	}

	return nil
}
