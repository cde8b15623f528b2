// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package cmd

import (
	"fmt"
	"os"

	"azure.openai.quickstart/internal/provision"
	"azure.openai.quickstart/internal/testapp"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

const defaultAppPort = 8000

func newServeCommand() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the test application against a provisioned endpoint.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTestApp(port)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", defaultAppPort, "Port to listen on.")

	return cmd
}

// runTestApp starts the test application in the foreground. Credentials come
// from the process environment, falling back to the env-file artifact written
// by a previous `up` run.
func runTestApp(port int) error {
	if err := provision.LoadEnvFile(provision.EnvFileName); err != nil {
		return err
	}

	endpoint := os.Getenv(provision.EnvEndpoint)
	key := os.Getenv(provision.EnvKey)
	deployment := os.Getenv(provision.EnvChatDeployment)
	apiVersion := os.Getenv(provision.EnvAPIVersion)

	if endpoint == "" || key == "" {
		return fmt.Errorf("no credentials found: set %s and %s, or run `aoai-quickstart up` first",
			provision.EnvEndpoint, provision.EnvKey)
	}
	if deployment == "" {
		deployment = "chat"
	}
	if apiVersion == "" {
		apiVersion = "2024-02-01"
	}

	chat, err := testapp.NewChatClient(endpoint, key, apiVersion, deployment)
	if err != nil {
		return err
	}

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	server := testapp.NewServer(fmt.Sprintf(":%d", port), chat, logger)

	return server.ListenAndServe()
}
