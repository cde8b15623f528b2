// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package provision

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/arm"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/cognitiveservices/armcognitiveservices"
)

// Credentials are the data-plane values retrieved from a provisioned
// account. They are held only for the remainder of the run; nothing is
// persisted beyond the env-file artifact.
type Credentials struct {
	Endpoint string
	Key      string
}

// Validate checks that both values are present and the endpoint parses as an
// HTTPS URL. The key format is opaque, so only non-emptiness is checked.
func (c Credentials) Validate() error {
	if c.Endpoint == "" {
		return fmt.Errorf("account endpoint is empty")
	}
	parsed, err := url.Parse(c.Endpoint)
	if err != nil || parsed.Scheme != "https" || parsed.Host == "" {
		return fmt.Errorf("account endpoint %q is not a valid https URL", c.Endpoint)
	}
	if strings.TrimSpace(c.Key) == "" {
		return fmt.Errorf("account key is empty")
	}
	return nil
}

// AccountService manages cognitive services accounts.
type AccountService struct {
	credential       azcore.TokenCredential
	armClientOptions *arm.ClientOptions
}

func NewAccountService(
	credential azcore.TokenCredential,
	armClientOptions *arm.ClientOptions,
) *AccountService {
	return &AccountService{
		credential:       credential,
		armClientOptions: armClientOptions,
	}
}

// CreateOpenAIAccount creates a cognitive services account of kind OpenAI and
// waits for it to finish provisioning. The account name is also used as the
// custom subdomain, which the OpenAI data plane requires.
func (as *AccountService) CreateOpenAIAccount(
	ctx context.Context,
	subscriptionId string,
	resourceGroupName string,
	accountName string,
	location string,
	skuName string,
) error {
	client, err := as.createAccountsClient(subscriptionId)
	if err != nil {
		return err
	}

	poller, err := client.BeginCreate(ctx, resourceGroupName, accountName, armcognitiveservices.Account{
		Location: to.Ptr(location),
		Kind:     to.Ptr("OpenAI"),
		SKU: &armcognitiveservices.SKU{
			Name: to.Ptr(skuName),
		},
		Properties: &armcognitiveservices.AccountProperties{
			CustomSubDomainName: to.Ptr(accountName),
			PublicNetworkAccess: to.Ptr(armcognitiveservices.PublicNetworkAccessEnabled),
		},
	}, nil)
	if err != nil {
		return fmt.Errorf("starting account creation: %w", err)
	}

	_, err = poller.PollUntilDone(ctx, nil)
	if err != nil {
		return fmt.Errorf("creating account: %w", err)
	}

	return nil
}

// GetCredentials queries the account for its endpoint and primary key and
// fails if either is missing.
func (as *AccountService) GetCredentials(
	ctx context.Context,
	subscriptionId string,
	resourceGroupName string,
	accountName string,
) (Credentials, error) {
	client, err := as.createAccountsClient(subscriptionId)
	if err != nil {
		return Credentials{}, err
	}

	account, err := client.Get(ctx, resourceGroupName, accountName, nil)
	if err != nil {
		return Credentials{}, fmt.Errorf("getting account: %w", err)
	}

	var endpoint string
	if account.Properties != nil && account.Properties.Endpoint != nil {
		endpoint = *account.Properties.Endpoint
	}

	keys, err := client.ListKeys(ctx, resourceGroupName, accountName, nil)
	if err != nil {
		return Credentials{}, fmt.Errorf("listing account keys: %w", err)
	}

	var key string
	if keys.Key1 != nil {
		key = *keys.Key1
	}

	creds := Credentials{Endpoint: endpoint, Key: key}
	if err := creds.Validate(); err != nil {
		return Credentials{}, err
	}

	return creds, nil
}

func (as *AccountService) createAccountsClient(subscriptionId string) (*armcognitiveservices.AccountsClient, error) {
	client, err := armcognitiveservices.NewAccountsClient(subscriptionId, as.credential, as.armClientOptions)
	if err != nil {
		return nil, fmt.Errorf("creating Accounts client: %w", err)
	}

	return client, nil
}
