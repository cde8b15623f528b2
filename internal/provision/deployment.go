// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package provision

import (
	"context"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/arm"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/cognitiveservices/armcognitiveservices"
)

// DeploymentRequest describes one model deployment to create.
type DeploymentRequest struct {
	SubscriptionID    string
	ResourceGroup     string
	AccountName       string
	DeploymentName    string
	ModelName         string
	ModelFormat       string
	Version           string
	SKU               string
	Capacity          int32
	WaitForCompletion bool
}

// DeployModelResult represents the result of a model deployment operation.
type DeployModelResult struct {
	DeploymentName string
	ModelName      string
	Status         string
	Message        string
}

// DeploymentService creates model deployments under a cognitive services
// account.
type DeploymentService struct {
	credential       azcore.TokenCredential
	armClientOptions *arm.ClientOptions
}

func NewDeploymentService(
	credential azcore.TokenCredential,
	armClientOptions *arm.ClientOptions,
) *DeploymentService {
	return &DeploymentService{
		credential:       credential,
		armClientOptions: armClientOptions,
	}
}

// DeployModel deploys a model to an account. When WaitForCompletion is set
// the call blocks until the deployment reaches a terminal state.
func (ds *DeploymentService) DeployModel(ctx context.Context, req *DeploymentRequest) (*DeployModelResult, error) {
	// Validate required fields
	if req.ModelName == "" {
		return nil, fmt.Errorf("could not find model name in deployment request")
	}
	if req.DeploymentName == "" {
		return nil, fmt.Errorf("deployment name is required")
	}
	if req.SubscriptionID == "" {
		return nil, fmt.Errorf("subscription ID is required")
	}
	if req.ResourceGroup == "" {
		return nil, fmt.Errorf("resource group is required")
	}
	if req.AccountName == "" {
		return nil, fmt.Errorf("account name is required")
	}

	clientFactory, err := armcognitiveservices.NewClientFactory(req.SubscriptionID, ds.credential, ds.armClientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to create client factory: %w", err)
	}

	modelFormat := req.ModelFormat
	if modelFormat == "" {
		modelFormat = "OpenAI"
	}

	// Create or update the deployment
	poller, err := clientFactory.NewDeploymentsClient().BeginCreateOrUpdate(
		ctx,
		req.ResourceGroup,
		req.AccountName,
		req.DeploymentName,
		armcognitiveservices.Deployment{
			Properties: &armcognitiveservices.DeploymentProperties{
				Model: &armcognitiveservices.DeploymentModel{
					Name:    to.Ptr(req.ModelName),
					Format:  to.Ptr(modelFormat),
					Version: to.Ptr(req.Version),
				},
			},
			SKU: &armcognitiveservices.SKU{
				Name:     to.Ptr(req.SKU),
				Capacity: to.Ptr(req.Capacity),
			},
		},
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start deployment: %w", err)
	}

	if req.WaitForCompletion {
		pollResult, err := poller.PollUntilDone(ctx, nil)
		if err != nil {
			return nil, fmt.Errorf("deployment failed: %w", err)
		}

		// Extract values with nil checks
		var deploymentName, modelName string
		if pollResult.Name != nil {
			deploymentName = *pollResult.Name
		}
		if pollResult.Properties != nil && pollResult.Properties.Model != nil && pollResult.Properties.Model.Name != nil {
			modelName = *pollResult.Properties.Model.Name
		}

		return &DeployModelResult{
			DeploymentName: deploymentName,
			ModelName:      modelName,
			Status:         "succeeded",
			Message:        fmt.Sprintf("Model deployed successfully to %s", req.DeploymentName),
		}, nil
	}

	return &DeployModelResult{
		DeploymentName: req.DeploymentName,
		ModelName:      req.ModelName,
		Status:         "in_progress",
		Message:        fmt.Sprintf("Deployment %s initiated. Check deployment status in Azure Portal", req.DeploymentName),
	}, nil
}
