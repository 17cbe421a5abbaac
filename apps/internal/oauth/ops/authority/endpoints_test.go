// Copyright (c) Microsoft Corporation.
// Licensed under the MIT license.

package authority

import (
	"net/url"
	"testing"
)

func mustParse(raw string) *url.URL {
	u, err := url.Parse(raw)
	if err != nil {
		panic(err)
	}
	return u
}

func TestAuthorizationEndpoint(t *testing.T) {
	got := AuthorizationEndpoint("login.microsoftonline.com", "contoso.onmicrosoft.com")
	want := "https://login.microsoftonline.com/contoso.onmicrosoft.com/oauth2/authorize"
	if got != want {
		t.Errorf("TestAuthorizationEndpoint: got %s, want %s", got, want)
	}
}

func TestTenant(t *testing.T) {
	tests := []struct {
		authority string
		want      string
	}{
		{"https://login.microsoftonline.com/common/", "common"},
		{"https://login.microsoftonline.com/common", "common"},
		{"https://login.microsoftonline.com/tenant/extra/", "extra"},
		{"https://login.microsoftonline.com/", ""},
		{"https://login.microsoftonline.com", ""},
	}

	for _, test := range tests {
		if got := Tenant(mustParse(test.authority)); got != test.want {
			t.Errorf("TestTenant(%s): got %q, want %q", test.authority, got, test.want)
		}
	}
}

func TestCacheKeyHost(t *testing.T) {
	w := NewWhitelist()
	w.ExtendForFederatedHost("x.dsts.core.windows.net")
	f := Formatter{Whitelist: w}

	tests := []struct {
		authority string
		want      string
	}{
		{"https://login.microsoftonline.com/common/", "login.microsoftonline.com"},
		{"https://a.dsts.core.windows.net/dstsv2/tenant", "a.dsts.core.windows.net/dstsv2"},
		{"https://a.dsts.core.windows.net/dstsv2/", "a.dsts.core.windows.net/dstsv2"},
		{"https://a.dsts.core.windows.net", "a.dsts.core.windows.net"},
		{"https://login.contoso.com/tenant/", "login.contoso.com"},
	}

	for _, test := range tests {
		if got := f.CacheKeyHost(mustParse(test.authority)); got != test.want {
			t.Errorf("TestCacheKeyHost(%s): got %s, want %s", test.authority, got, test.want)
		}
	}
}

func TestDiscoveryURL(t *testing.T) {
	w := NewWhitelist()
	w.ExtendForFederatedHost("x.dsts.core.windows.net")
	f := Formatter{Whitelist: w}

	tests := []struct {
		desc      string
		authority string
		want      string
	}{
		{
			desc:      "Trusted host runs its own discovery",
			authority: "https://login.microsoftonline.de/tenant/",
			want:      "https://login.microsoftonline.de/common/discovery/instance?api-version=1.1&authorization_endpoint=https://login.microsoftonline.de/tenant/oauth2/authorize",
		},
		{
			desc:      "Untrusted host is routed through the default host",
			authority: "https://login.contoso.com/tenant/",
			want:      "https://login.microsoftonline.com/common/discovery/instance?api-version=1.1&authorization_endpoint=https://login.contoso.com/tenant/oauth2/authorize",
		},
		{
			desc:      "Federated host keeps its virtual directory",
			authority: "https://a.dsts.core.windows.net/dstsv2/tenant",
			want:      "https://a.dsts.core.windows.net/dstsv2/common/discovery/instance?api-version=1.1&authorization_endpoint=https://a.dsts.core.windows.net/tenant/oauth2/authorize",
		},
	}

	for _, test := range tests {
		if got := f.DiscoveryURL(mustParse(test.authority)); got != test.want {
			t.Errorf("TestDiscoveryURL(%s): got %s, want %s", test.desc, got, test.want)
		}
	}
}
