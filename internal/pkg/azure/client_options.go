// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package azure

import (
	"fmt"
	"net/http"

	"azure.openai.quickstart/internal/version"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/arm"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
)

// NewArmClientOptions creates a new arm.ClientOptions with standard policies for Azure SDK clients.
// This includes the tool's user agent so provisioning traffic is identifiable in ARM logs.
func NewArmClientOptions() *arm.ClientOptions {
	userAgent := fmt.Sprintf("aoai-quickstart/%s", version.Version)

	return &arm.ClientOptions{
		ClientOptions: policy.ClientOptions{
			PerCallPolicies: []policy.Policy{
				NewUserAgentPolicy(userAgent),
			},
		},
	}
}

type userAgentPolicy struct {
	userAgent string
}

// NewUserAgentPolicy creates a policy that appends the given value to the
// User-Agent header of every outgoing request.
func NewUserAgentPolicy(userAgent string) policy.Policy {
	return &userAgentPolicy{userAgent: userAgent}
}

func (p *userAgentPolicy) Do(req *policy.Request) (*http.Response, error) {
	rawRequest := req.Raw()
	existing := rawRequest.Header.Get("User-Agent")
	if existing == "" {
		rawRequest.Header.Set("User-Agent", p.userAgent)
	} else {
		rawRequest.Header.Set("User-Agent", fmt.Sprintf("%s %s", p.userAgent, existing))
	}

	return req.Next()
}
