// Copyright (c) Microsoft Corporation.
// Licensed under the MIT license.

package authority

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	authorizationEndpoint     = "https://%v/%v/oauth2/authorize"
	instanceDiscoveryEndpoint = "https://%v/common/discovery/instance?api-version=1.1&authorization_endpoint=%v"
)

// AuthorizationEndpoint returns the authorize endpoint for tenant on host. tenant is used as is.
func AuthorizationEndpoint(host, tenant string) string {
	return fmt.Sprintf(authorizationEndpoint, host, tenant)
}

// Tenant returns the last path segment of an authority such as https://host/tenant/.
// No validation is done; a malformed authority yields whatever segment is there.
func Tenant(u *url.URL) string {
	p := strings.TrimSuffix(u.EscapedPath(), "/")
	return p[strings.LastIndex(p, "/")+1:]
}

func firstPathSegment(u *url.URL) string {
	p := strings.TrimPrefix(u.EscapedPath(), "/")
	if i := strings.Index(p, "/"); i >= 0 {
		p = p[:i]
	}
	return p
}

// Formatter builds discovery URLs. Host selection depends on the Whitelist.
type Formatter struct {
	Whitelist *Whitelist
}

// CacheKeyHost returns the host of u, qualified with its first path segment (the virtual
// directory) when the host is federated. Federated tenants can share a host.
func (f Formatter) CacheKeyHost(u *url.URL) string {
	host := u.Hostname()
	if !f.Whitelist.IsFederated(host) {
		return host
	}
	if seg := firstPathSegment(u); seg != "" {
		return host + "/" + seg
	}
	return host
}

// DiscoveryURL returns the instance discovery URL for authority u. Discovery runs on the
// authority's own host only if that host is trusted, otherwise on DefaultHost.
func (f Formatter) DiscoveryURL(u *url.URL) string {
	base := DefaultHost
	if f.Whitelist.IsTrusted(u.Hostname()) {
		base = f.CacheKeyHost(u)
	}
	return fmt.Sprintf(instanceDiscoveryEndpoint, base, AuthorizationEndpoint(u.Hostname(), Tenant(u)))
}
