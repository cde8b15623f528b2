// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package cmd

import (
	"fmt"
	"os"

	"azure.openai.quickstart/internal/pkg/azure"
	"azure.openai.quickstart/internal/provision"

	"github.com/AlecAivazis/survey/v2"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

type downFlags struct {
	subscriptionID string
	tenantID       string
	resourceGroup  string
	force          bool
}

func newDownCommand() *cobra.Command {
	flags := &downFlags{}

	cmd := &cobra.Command{
		Use:   "down",
		Short: "Delete the resource group created by a previous run.",
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

			if !flags.force && !rootFlags.NoPrompt {
				confirmed := false
				prompt := &survey.Confirm{
					Message: fmt.Sprintf("Delete resource group '%s' and everything in it?", flags.resourceGroup),
					Default: false,
				}
				if err := survey.AskOne(prompt, &confirmed); err != nil {
					return err
				}
				if !confirmed {
					return nil
				}
			}

			credential, err := azure.NewCredential(ctx, azure.CredentialOptions{
				TenantID:       flags.tenantID,
				SubscriptionID: flags.subscriptionID,
			})
			if err != nil {
				return err
			}

			resourceSvc := provision.NewResourceService(credential, azure.NewArmClientOptions())
			if err := resourceSvc.DeleteResourceGroup(ctx, flags.subscriptionID, flags.resourceGroup); err != nil {
				return err
			}

			color.Green("Deleted resource group %s", flags.resourceGroup)
			return nil
		},
	}

	cmd.Flags().StringVarP(&flags.subscriptionID, "subscription", "s", "", "Azure subscription ID. Defaults to "+envSubscriptionID+".")
	cmd.Flags().StringVarP(&flags.tenantID, "tenant", "t", "", "Azure tenant ID. Defaults to "+envTenantID+".")
	cmd.Flags().StringVarP(&flags.resourceGroup, "resource-group", "g", "", "Resource group to delete.")
	cmd.Flags().BoolVar(&flags.force, "force", false, "Skip the confirmation prompt.")
	_ = cmd.MarkFlagRequired("resource-group")

	return cmd
}
