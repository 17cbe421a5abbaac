// Copyright (c) Microsoft Corporation.
// Licensed under the MIT license.

package authority

import (
	"context"
	"net/http"
	"net/url"
)

type jsonCaller interface {
	JSONCall(ctx context.Context, endpoint string, headers http.Header, qv url.Values, body, resp interface{}) error
}

// InstanceDiscoveryMetadata is one equivalence class of hosts in an instance discovery response.
type InstanceDiscoveryMetadata struct {
	PreferredNetwork string   `json:"preferred_network"`
	PreferredCache   string   `json:"preferred_cache"`
	Aliases          []string `json:"aliases"`
}

// InstanceDiscoveryResponse is the body returned by the instance discovery endpoint.
// An empty TenantDiscoveryEndpoint means the provider did not vouch for the authority.
type InstanceDiscoveryResponse struct {
	TenantDiscoveryEndpoint string                      `json:"tenant_discovery_endpoint"`
	Metadata                []InstanceDiscoveryMetadata `json:"metadata"`
}

// Client represents the REST calls to authority backends.
type Client struct {
	// Comm provides the HTTP transport client.
	Comm jsonCaller // *comm.Client
}

// InstanceDiscovery calls endpoint, which must be a complete discovery URL (see Formatter.DiscoveryURL).
// correlationID is sent as the client-request-id header when set.
func (c Client) InstanceDiscovery(ctx context.Context, endpoint, correlationID string) (InstanceDiscoveryResponse, error) {
	headers := http.Header{}
	if correlationID != "" {
		headers.Set("client-request-id", correlationID)
	}

	resp := InstanceDiscoveryResponse{}
	err := c.Comm.JSONCall(ctx, endpoint, headers, nil, nil, &resp)
	return resp, err
}
