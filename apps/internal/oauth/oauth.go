// Copyright (c) Microsoft Corporation.
// Licensed under the MIT license.

package oauth

import (
	"context"

	"github.com/AzureAD/instance-discovery-for-go/apps/internal/oauth/ops"
	"github.com/AzureAD/instance-discovery-for-go/apps/internal/oauth/ops/authority"
)

// InstanceDiscoverer calls an instance discovery endpoint.
type InstanceDiscoverer interface {
	InstanceDiscovery(ctx context.Context, endpoint, correlationID string) (authority.InstanceDiscoveryResponse, error)
}

// Client calls the identity provider endpoints used to resolve authorities.
type Client struct {
	Authority InstanceDiscoverer
}

// New is the constructor for Client.
func New(httpClient ops.HTTPClient) *Client {
	r := ops.New(httpClient)
	return &Client{Authority: r.Authority()}
}

// InstanceDiscovery calls the discovery endpoint built by authority.Formatter.DiscoveryURL.
func (t *Client) InstanceDiscovery(ctx context.Context, endpoint, correlationID string) (authority.InstanceDiscoveryResponse, error) {
	return t.Authority.InstanceDiscovery(ctx, endpoint, correlationID)
}
