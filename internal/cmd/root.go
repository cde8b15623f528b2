// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package cmd

import (
	"io"
	"log"

	"github.com/spf13/cobra"
)

const (
	envTenantID       = "AZURE_TENANT_ID"
	envSubscriptionID = "AZURE_SUBSCRIPTION_ID"
)

type rootFlagsDefinition struct {
	Debug    bool
	NoPrompt bool
}

var rootFlags rootFlagsDefinition

func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "aoai-quickstart <command> [options]",
		Short:         "Provision an Azure OpenAI environment, verify it, and try it out.",
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if !rootFlags.Debug {
				log.SetOutput(io.Discard)
			}
		},
	}

	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})
	rootCmd.PersistentFlags().BoolVar(
		&rootFlags.Debug,
		"debug",
		false,
		"Enable debug mode",
	)
	rootCmd.PersistentFlags().BoolVar(
		&rootFlags.NoPrompt,
		"no-prompt",
		false,
		"Accepts the default value instead of prompting, or it fails if there is no default.",
	)

	rootCmd.AddCommand(newUpCommand())
	rootCmd.AddCommand(newSmokeCommand())
	rootCmd.AddCommand(newServeCommand())
	rootCmd.AddCommand(newDownCommand())
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}
