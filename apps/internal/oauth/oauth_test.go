// Copyright (c) Microsoft Corporation.
// Licensed under the MIT license.

package oauth

import (
	"context"
	stdErrors "errors"
	"net/http"
	"testing"

	"github.com/kylelemons/godebug/pretty"

	"github.com/AzureAD/instance-discovery-for-go/apps/errors"
	"github.com/AzureAD/instance-discovery-for-go/apps/internal/mock"
	"github.com/AzureAD/instance-discovery-for-go/apps/internal/oauth/fake"
	"github.com/AzureAD/instance-discovery-for-go/apps/internal/oauth/ops/authority"
)

const discoveryEndpoint = "https://login.microsoftonline.com/common/discovery/instance?api-version=1.1&authorization_endpoint=https://login.microsoftonline.com/common/oauth2/authorize"

func TestInstanceDiscovery(t *testing.T) {
	want := authority.InstanceDiscoveryResponse{
		TenantDiscoveryEndpoint: "https://login.microsoftonline.com/common/v2.0/.well-known/openid-configuration",
		Metadata: []authority.InstanceDiscoveryMetadata{
			{PreferredNetwork: "login.microsoftonline.com", PreferredCache: "login.windows.net", Aliases: []string{"login.microsoftonline.com", "login.windows.net"}},
		},
	}

	tests := []struct {
		desc string
		err  error
	}{
		{desc: "Success"},
		{desc: "Error: transport", err: fake.ErrTransport},
	}

	for _, test := range tests {
		f := &fake.Authority{InstanceResp: want, Err: test.err}
		client := Client{Authority: f}

		got, err := client.InstanceDiscovery(context.Background(), discoveryEndpoint, "id")
		switch {
		case err == nil && test.err != nil:
			t.Errorf("TestInstanceDiscovery(%s): got err == nil, want err != nil", test.desc)
			continue
		case err != nil && test.err == nil:
			t.Errorf("TestInstanceDiscovery(%s): got err == %s, want err == nil", test.desc, err)
			continue
		case err != nil:
			continue
		}
		if diff := pretty.Compare(want, got); diff != "" {
			t.Errorf("TestInstanceDiscovery(%s): -want/+got:\n%s", test.desc, diff)
		}
		if diff := pretty.Compare([]string{discoveryEndpoint}, f.Endpoints()); diff != "" {
			t.Errorf("TestInstanceDiscovery(%s): endpoints -want/+got:\n%s", test.desc, diff)
		}
	}
}

func TestInstanceDiscoveryOverHTTP(t *testing.T) {
	mockClient := mock.NewClient()
	var gotID string
	mockClient.AppendResponse(
		mock.WithBody(mock.StandardDiscoveryBody),
		mock.WithCallback(func(r *http.Request) { gotID = r.Header.Get("client-request-id") }),
	)
	mockClient.AppendResponse(
		mock.WithHTTPStatusCode(http.StatusBadRequest),
		mock.WithBody(mock.GetDiscoveryErrorBody(errors.InvalidInstance, "unknown authority")),
	)

	client := New(mockClient)

	resp, err := client.InstanceDiscovery(context.Background(), discoveryEndpoint, "correlation")
	if err != nil {
		t.Fatalf("TestInstanceDiscoveryOverHTTP: got err == %s, want err == nil", err)
	}
	if len(resp.Metadata) != 5 {
		t.Errorf("TestInstanceDiscoveryOverHTTP: got %d metadata elements, want 5", len(resp.Metadata))
	}
	if gotID != "correlation" {
		t.Errorf("TestInstanceDiscoveryOverHTTP: client-request-id == %q, want %q", gotID, "correlation")
	}

	_, err = client.InstanceDiscovery(context.Background(), discoveryEndpoint, "")
	var se errors.ServiceErr
	if !stdErrors.As(err, &se) {
		t.Fatalf("TestInstanceDiscoveryOverHTTP: got err == %v, want a ServiceErr in the chain", err)
	}
	want := errors.ServiceErr{
		StatusCode:    http.StatusBadRequest,
		ErrorCode:     errors.InvalidInstance,
		Description:   "unknown authority",
		ErrorCodes:    []int{50049},
		CorrelationID: "correlation",
	}
	if diff := pretty.Compare(want, se); diff != "" {
		t.Errorf("TestInstanceDiscoveryOverHTTP: -want/+got:\n%s", diff)
	}

	if diff := pretty.Compare([]string{discoveryEndpoint, discoveryEndpoint}, mockClient.Requests()); diff != "" {
		t.Errorf("TestInstanceDiscoveryOverHTTP: requests -want/+got:\n%s", diff)
	}
}
