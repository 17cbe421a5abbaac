// Copyright (c) Microsoft Corporation.
// Licensed under the MIT license.

/*
Package instance resolves authority hosts to their instance metadata: the host to use on the
network, the host to use for cache keys, and every alias of the host.

Resolution is cached for the life of a Discovery. A cache miss enters a critical section shared
by every authority, so only one discovery call is ever in flight. Callers that waited re-check
the cache before calling the network, which means concurrent requests for the same (or an
aliased) host cause a single discovery call.
*/
package instance

import (
	"context"
	stdErrors "errors"
	"net/url"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/semaphore"

	"github.com/AzureAD/instance-discovery-for-go/apps/errors"
	"github.com/AzureAD/instance-discovery-for-go/apps/internal/oauth"
	"github.com/AzureAD/instance-discovery-for-go/apps/internal/oauth/ops/authority"
	"github.com/AzureAD/instance-discovery-for-go/apps/internal/slog"
)

// Options configures a Discovery.
type Options struct {
	// Logger receives discovery logs. nil uses slog.Default().
	Logger *slog.Logger
	// Registerer, when set, has the discovery metrics registered on it.
	Registerer prometheus.Registerer
}

// Discovery resolves authorities to MetadataEntry values. It owns the metadata cache and
// the whitelist. Safe for concurrent use.
type Discovery struct {
	transport oauth.InstanceDiscoverer
	whitelist *authority.Whitelist
	format    authority.Formatter
	cache     *Cache

	// sem is the critical section every discovery call runs in.
	sem *semaphore.Weighted

	log     *slog.Logger
	metrics *metrics
}

// New creates a Discovery that calls transport on cache misses.
func New(transport oauth.InstanceDiscoverer, opts Options) (*Discovery, error) {
	if transport == nil {
		return nil, errors.New("instance.New: transport cannot be nil")
	}

	w := authority.NewWhitelist()
	d := &Discovery{
		transport: transport,
		whitelist: w,
		format:    authority.Formatter{Whitelist: w},
		cache:     NewCache(),
		sem:       semaphore.NewWeighted(1),
		log:       slog.New(opts.Logger),
	}
	d.metrics = newMetrics(d.cache)
	if opts.Registerer != nil {
		if err := d.metrics.register(opts.Registerer); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// IsTrusted reports whether host is trusted without a discovery call.
func (d *Discovery) IsTrusted(host string) bool {
	return d.whitelist.IsTrusted(host)
}

// MetadataEntry returns the metadata entry for the host of authorityURI, running instance
// discovery if the host is not cached yet.
//
// With validateAuthority, an authority the identity provider does not vouch for fails with an
// errors.AuthorityErr. Without it, service errors from discovery are ignored and the host is
// cached as its own metadata entry. Any other transport error is returned as is.
// correlationID is sent with the discovery request.
func (d *Discovery) MetadataEntry(ctx context.Context, authorityURI *url.URL, validateAuthority bool, correlationID string) (*MetadataEntry, error) {
	if authorityURI == nil {
		return nil, errors.AuthorityErr{Code: errors.InvalidArgument, Err: errors.New("authority URI cannot be nil")}
	}
	host := authorityURI.Hostname()
	if host == "" {
		return nil, errors.AuthorityErr{Code: errors.InvalidArgument, Authority: authorityURI.String(), Err: errors.New("authority URI has no host")}
	}

	if entry, ok := d.cache.Get(host); ok {
		d.metrics.lookups.WithLabelValues("hit").Inc()
		return entry, nil
	}
	d.metrics.lookups.WithLabelValues("miss").Inc()

	if err := d.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer d.sem.Release(1)

	if d.whitelist.ExtendForFederatedHost(host) {
		d.log.Info("trusting federated domain", "host", host, "suffixes", d.whitelist.Suffixes())
	}

	// Another caller may have populated the cache while we waited.
	if entry, ok := d.cache.Get(host); ok {
		return entry, nil
	}

	if err := d.discover(ctx, authorityURI, validateAuthority, correlationID); err != nil {
		return nil, err
	}
	entry, _ := d.cache.Get(host)
	return entry, nil
}

// AddMetadataEntry caches host as its own metadata entry without running discovery.
// It reports whether the entry was added; an existing entry is never replaced.
func (d *Discovery) AddMetadataEntry(host string) bool {
	if host == "" {
		return false
	}
	return d.cache.Add(host, selfEntry(host))
}

// discover must be called inside the critical section.
func (d *Discovery) discover(ctx context.Context, u *url.URL, validateAuthority bool, correlationID string) error {
	host := u.Hostname()
	endpoint := d.format.DiscoveryURL(u)
	d.log.Debug("instance discovery", "host", host, "endpoint", endpoint, "correlation_id", correlationID)

	start := time.Now()
	resp, callErr := d.transport.InstanceDiscovery(ctx, endpoint, correlationID)
	d.metrics.duration.Observe(time.Since(start).Seconds())

	resp, outcome, err := applyPolicy(u.String(), resp, callErr, validateAuthority)
	d.metrics.discoveries.WithLabelValues(outcome).Inc()
	if err != nil {
		return err
	}
	if outcome == outcomeIgnored {
		d.log.Warn("instance discovery failed, authority is not validated", "host", host, "error", callErr)
	}

	for _, md := range resp.Metadata {
		entry := NewMetadataEntry(md.PreferredNetwork, md.PreferredCache, md.Aliases)
		for _, alias := range md.Aliases {
			if !d.cache.Add(alias, entry) {
				d.log.Debug("alias already cached", "alias", alias)
			}
		}
	}

	if d.cache.Add(host, selfEntry(host)) {
		d.log.Debug("no metadata for host, caching it as its own entry", "host", host)
	}
	return nil
}

// applyPolicy decides what a discovery result means under the caller's validation policy.
// It returns the response to merge into the cache and the outcome label, or the error
// to return to the caller.
func applyPolicy(authorityURI string, resp authority.InstanceDiscoveryResponse, err error, validateAuthority bool) (authority.InstanceDiscoveryResponse, string, error) {
	if err == nil {
		if validateAuthority && resp.TenantDiscoveryEndpoint == "" {
			return authority.InstanceDiscoveryResponse{}, outcomeNotInValidList, errors.AuthorityErr{
				Code:      errors.AuthorityNotInValidList,
				Authority: authorityURI,
			}
		}
		return resp, outcomeSuccess, nil
	}

	var se errors.ServiceErr
	if !stdErrors.As(err, &se) {
		return authority.InstanceDiscoveryResponse{}, outcomeTransportError, err
	}
	if !validateAuthority {
		return authority.InstanceDiscoveryResponse{}, outcomeIgnored, nil
	}
	if se.ErrorCode == errors.InvalidInstance {
		return authority.InstanceDiscoveryResponse{}, outcomeNotInValidList, errors.AuthorityErr{
			Code:      errors.AuthorityNotInValidList,
			Authority: authorityURI,
			Err:       err,
		}
	}
	return authority.InstanceDiscoveryResponse{}, outcomeValidationFailed, errors.AuthorityErr{
		Code:      errors.AuthorityValidationFailed,
		Authority: authorityURI,
		Err:       err,
	}
}
