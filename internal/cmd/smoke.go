// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package cmd

import (
	"fmt"
	"os"

	"azure.openai.quickstart/internal/provision"
	"azure.openai.quickstart/internal/smoketest"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

type smokeFlags struct {
	endpoint            string
	key                 string
	apiVersion          string
	chatDeployment      string
	embeddingDeployment string
}

func newSmokeCommand() *cobra.Command {
	flags := &smokeFlags{}

	cmd := &cobra.Command{
		Use:   "smoke",
		Short: "Run the smoke tests against an existing endpoint.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := provision.LoadEnvFile(provision.EnvFileName); err != nil {
				return err
			}

			if flags.endpoint == "" {
				flags.endpoint = os.Getenv(provision.EnvEndpoint)
			}
			if flags.key == "" {
				flags.key = os.Getenv(provision.EnvKey)
			}
			if flags.chatDeployment == "" {
				flags.chatDeployment = os.Getenv(provision.EnvChatDeployment)
			}
			if flags.embeddingDeployment == "" {
				flags.embeddingDeployment = os.Getenv(provision.EnvEmbeddingDeployment)
			}

			if flags.endpoint == "" || flags.key == "" {
				return fmt.Errorf("no credentials found: pass --endpoint and --key, or run `aoai-quickstart up` first")
			}
			if flags.chatDeployment == "" {
				flags.chatDeployment = "chat"
			}

			color.Cyan("Running smoke tests against %s", flags.endpoint)

			runner := smoketest.NewRunner(flags.endpoint, flags.key, flags.apiVersion)
			checks := smoketest.ChecksFor(flags.chatDeployment, flags.embeddingDeployment)

			results, err := runner.Run(cmd.Context(), checks)
			printCheckResults(results)
			if err != nil {
				return fmt.Errorf("smoke test failed: %w", err)
			}

			color.Green("\nAll required smoke tests passed.")
			return nil
		},
	}

	cmd.Flags().StringVar(&flags.endpoint, "endpoint", "", "Azure OpenAI endpoint URL. Defaults to "+provision.EnvEndpoint+".")
	cmd.Flags().StringVar(&flags.key, "key", "", "Azure OpenAI API key. Defaults to "+provision.EnvKey+".")
	cmd.Flags().StringVar(&flags.apiVersion, "api-version", "2024-02-01", "Azure OpenAI data-plane API version.")
	cmd.Flags().StringVar(&flags.chatDeployment, "chat-deployment", "", "Chat deployment name.")
	cmd.Flags().StringVar(&flags.embeddingDeployment, "embedding-deployment", "", "Embedding deployment name. Empty skips the embedding check.")

	return cmd
}
