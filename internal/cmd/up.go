// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"azure.openai.quickstart/internal/pkg/azure"
	"azure.openai.quickstart/internal/provision"
	"azure.openai.quickstart/internal/smoketest"

	"github.com/AlecAivazis/survey/v2"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

type upFlags struct {
	subscriptionID string
	tenantID       string
	location       string
	configFile     string
	skipTests      bool
	port           int
}

func newUpCommand() *cobra.Command {
	flags := &upFlags{}

	cmd := &cobra.Command{
		Use:   "up",
		Short: "Provision an Azure OpenAI environment and verify it with smoke tests.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if flags.subscriptionID == "" {
				flags.subscriptionID = os.Getenv(envSubscriptionID)
			}
			if flags.subscriptionID == "" {
				return fmt.Errorf("subscription ID is required: pass --subscription or set %s", envSubscriptionID)
			}
			if flags.tenantID == "" {
				flags.tenantID = os.Getenv(envTenantID)
			}

			config, err := loadUpConfig(flags)
			if err != nil {
				return err
			}

			credential, err := azure.NewCredential(ctx, azure.CredentialOptions{
				TenantID:       flags.tenantID,
				SubscriptionID: flags.subscriptionID,
			})
			if err != nil {
				return err
			}

			armOptions := azure.NewArmClientOptions()
			resourceSvc := provision.NewResourceService(credential, armOptions)
			accountSvc := provision.NewAccountService(credential, armOptions)
			deploySvc := provision.NewDeploymentService(credential, armOptions)

			runID := provision.RunID(time.Now())
			resourceGroup := provision.ResourceGroupName(runID)
			accountName := provision.AccountName(runID)

			color.Cyan("Provisioning Azure OpenAI environment")
			color.White("Resource group: %s", resourceGroup)
			color.White("Account:        %s", accountName)
			color.White("Location:       %s", config.Location)
			fmt.Println()

			steps := provisioningSteps(
				flags.subscriptionID, resourceGroup, accountName, config,
				resourceSvc, accountSvc, deploySvc,
			)

			pipeline := provision.NewPipeline(steps, newSpinnerReporter())
			results, err := pipeline.Run(ctx)
			if err != nil {
				return fmt.Errorf("provisioning failed: %w", err)
			}

			credsCtx, cancel := context.WithTimeout(ctx, config.Timeout())
			defer cancel()
			creds, err := accountSvc.GetCredentials(credsCtx, flags.subscriptionID, resourceGroup, accountName)
			if err != nil {
				return fmt.Errorf("retrieving credentials: %w", err)
			}

			if err := provision.WriteEnvFile(provision.EnvFileName, creds, config); err != nil {
				return err
			}
			color.Green("Wrote %s", provision.EnvFileName)

			var smokeResults []smoketest.CheckResult
			if !flags.skipTests {
				fmt.Println()
				color.Cyan("Running smoke tests")

				embeddingDeployment := ""
				if deploymentSucceeded(results, "create embedding model deployment") {
					embeddingDeployment = config.Embedding.DeploymentName
				}

				runner := smoketest.NewRunner(creds.Endpoint, creds.Key, config.APIVersion)
				checks := smoketest.ChecksFor(config.Chat.DeploymentName, embeddingDeployment)

				var smokeErr error
				smokeResults, smokeErr = runner.Run(ctx, checks)
				printCheckResults(smokeResults)
				if smokeErr != nil {
					return fmt.Errorf("smoke test failed: %w", smokeErr)
				}
			}

			printSummary(resourceGroup, accountName, creds, results, smokeResults)

			if rootFlags.NoPrompt {
				return nil
			}

			startApp := false
			prompt := &survey.Confirm{
				Message: "Start the test application now?",
				Default: false,
			}
			if err := survey.AskOne(prompt, &startApp); err != nil {
				return err
			}
			if !startApp {
				return nil
			}

			return runTestApp(flags.port)
		},
	}

	cmd.Flags().StringVarP(&flags.subscriptionID, "subscription", "s", "", "Azure subscription ID. Defaults to "+envSubscriptionID+".")
	cmd.Flags().StringVarP(&flags.tenantID, "tenant", "t", "", "Azure tenant ID. Defaults to "+envTenantID+".")
	cmd.Flags().StringVarP(&flags.location, "location", "l", "", "Azure region for all resources. Overrides the config file.")
	cmd.Flags().StringVarP(&flags.configFile, "config", "c", "", "Path to a YAML config file.")
	cmd.Flags().BoolVar(&flags.skipTests, "skip-tests", false, "Skip the smoke tests after provisioning.")
	cmd.Flags().IntVarP(&flags.port, "port", "p", defaultAppPort, "Port for the optionally launched test application.")
	cmd.MarkFlagFilename("config", "yaml", "yml")

	return cmd
}

func loadUpConfig(flags *upFlags) (*provision.Config, error) {
	config := provision.DefaultConfig()
	if flags.configFile != "" {
		loaded, err := provision.LoadConfig(flags.configFile)
		if err != nil {
			return nil, err
		}
		config = loaded
	}

	if flags.location != "" {
		config.Location = flags.location
	}

	return config, nil
}

func provisioningSteps(
	subscriptionID string,
	resourceGroup string,
	accountName string,
	config *provision.Config,
	resourceSvc *provision.ResourceService,
	accountSvc *provision.AccountService,
	deploySvc *provision.DeploymentService,
) []provision.Step {
	steps := []provision.Step{
		{
			Name:    "create resource group",
			Timeout: config.Timeout(),
			Run: func(ctx context.Context) error {
				return resourceSvc.CreateOrUpdateResourceGroup(ctx, subscriptionID, resourceGroup, config.Location, map[string]*string{
					"created-by": ptr("aoai-quickstart"),
				})
			},
		},
		{
			Name:    "create cognitive services account",
			Timeout: config.Timeout(),
			Run: func(ctx context.Context) error {
				return accountSvc.CreateOpenAIAccount(ctx, subscriptionID, resourceGroup, accountName, config.Location, config.SKUName)
			},
		},
		{
			Name:    "create chat model deployment",
			Timeout: config.Timeout(),
			Run: func(ctx context.Context) error {
				_, err := deploySvc.DeployModel(ctx, &provision.DeploymentRequest{
					SubscriptionID:    subscriptionID,
					ResourceGroup:     resourceGroup,
					AccountName:       accountName,
					DeploymentName:    config.Chat.DeploymentName,
					ModelName:         config.Chat.Name,
					Version:           config.Chat.Version,
					SKU:               config.Chat.SKU,
					Capacity:          config.Chat.Capacity,
					WaitForCompletion: true,
				})
				return err
			},
		},
	}

	if config.Embedding.Name != "" {
		steps = append(steps, provision.Step{
			Name:       "create embedding model deployment",
			BestEffort: true,
			Timeout:    config.Timeout(),
			Run: func(ctx context.Context) error {
				_, err := deploySvc.DeployModel(ctx, &provision.DeploymentRequest{
					SubscriptionID:    subscriptionID,
					ResourceGroup:     resourceGroup,
					AccountName:       accountName,
					DeploymentName:    config.Embedding.DeploymentName,
					ModelName:         config.Embedding.Name,
					Version:           config.Embedding.Version,
					SKU:               config.Embedding.SKU,
					Capacity:          config.Embedding.Capacity,
					WaitForCompletion: true,
				})
				return err
			},
		})
	}

	return steps
}

func deploymentSucceeded(results []provision.StepResult, name string) bool {
	for _, result := range results {
		if result.Name == name {
			return result.Status == provision.StatusSucceeded
		}
	}
	return false
}

func printCheckResults(results []smoketest.CheckResult) {
	for _, result := range results {
		switch result.Status {
		case smoketest.StatusPassed:
			color.Green("✅ %s", result.Name)
		case smoketest.StatusWarned:
			color.Yellow("⚠️  %s: %v (continuing)", result.Name, result.Err)
		case smoketest.StatusFailed:
			color.Red("💥 %s: %v", result.Name, result.Err)
		case smoketest.StatusSkipped:
			color.HiBlack("⏭️  %s (skipped)", result.Name)
		}
	}
}

func printSummary(
	resourceGroup string,
	accountName string,
	creds provision.Credentials,
	stepResults []provision.StepResult,
	checkResults []smoketest.CheckResult,
) {
	fmt.Println("\n", strings.Repeat("=", 60))
	color.Green("\nAzure OpenAI environment is ready!\n")
	fmt.Printf("Resource group: %s\n", resourceGroup)
	fmt.Printf("Account:        %s\n", accountName)
	fmt.Printf("Endpoint:       %s\n", creds.Endpoint)
	fmt.Printf("API key:        %s\n", creds.Key)

	warnings := provision.Warnings(stepResults)
	for _, warning := range warnings {
		color.Yellow("Warning: %s: %v", warning.Name, warning.Err)
	}
	for _, check := range checkResults {
		if check.Status == smoketest.StatusWarned {
			color.Yellow("Warning: %s: %v", check.Name, check.Err)
		}
	}

	fmt.Println()
	fmt.Printf("Credentials were exported as %s and %s and written to %s.\n",
		provision.EnvEndpoint, provision.EnvKey, provision.EnvFileName)
	fmt.Printf("Clean up later with: aoai-quickstart down --resource-group %s\n", resourceGroup)
	fmt.Println(strings.Repeat("=", 60))
}

func ptr[T any](v T) *T {
	return &v
}
