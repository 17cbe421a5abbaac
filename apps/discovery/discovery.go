// Copyright (c) Microsoft Corporation.
// Licensed under the MIT license.

/*
Package discovery resolves identity provider authorities to their instance metadata.

A Resolver answers, for an authority such as https://login.microsoftonline.com/common/, which host
to send requests to, which host to use in cache keys, and which hosts are aliases of one another.
Results are cached for the life of the Resolver, so create one and share it.

	r, err := discovery.New()
	if err != nil {
		// handle error
	}
	entry, err := r.MetadataEntry(ctx, "https://login.microsoftonline.com/common/", true)
	if err != nil {
		// handle error
	}
	fmt.Println(entry.PreferredNetwork(), entry.Aliases())
*/
package discovery

import (
	"context"
	"fmt"
	"net/url"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/AzureAD/instance-discovery-for-go/apps/errors"
	"github.com/AzureAD/instance-discovery-for-go/apps/internal/instance"
	"github.com/AzureAD/instance-discovery-for-go/apps/internal/oauth"
	"github.com/AzureAD/instance-discovery-for-go/apps/internal/oauth/ops"
	"github.com/AzureAD/instance-discovery-for-go/apps/internal/shared"
	"github.com/AzureAD/instance-discovery-for-go/apps/internal/slog"
)

// MetadataEntry is the instance metadata of a host. It is immutable and shared by every alias
// of the host.
type MetadataEntry = instance.MetadataEntry

// HTTPClient represents an HTTP client.
// It's usually an *http.Client from the standard library.
type HTTPClient = ops.HTTPClient

// Options are optional settings for New(). These options are set using various functions
// returning Option calls.
type Options struct {
	// HTTPClient sends discovery requests. The default is a shared *http.Client.
	// This can be set using the WithHTTPClient() option.
	HTTPClient HTTPClient

	// Logger receives discovery logs. The default is slog.Default().
	Logger *slog.Logger

	// Registerer, when set, has the discovery metrics registered on it.
	Registerer prometheus.Registerer
}

func (o Options) validate() error {
	if o.HTTPClient == nil {
		return fmt.Errorf("the HTTPClient cannot be nil")
	}
	return nil
}

// Option is an optional argument to New().
type Option func(o *Options)

// WithHTTPClient allows for a custom HTTP client to be set.
func WithHTTPClient(httpClient HTTPClient) Option {
	return func(o *Options) {
		o.HTTPClient = httpClient
	}
}

// WithLogger sets the logger discovery writes to.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		o.Logger = l
	}
}

// WithMetrics registers the discovery metrics on reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(o *Options) {
		o.Registerer = reg
	}
}

// Resolver resolves authorities to instance metadata. Safe for concurrent use.
type Resolver struct {
	discovery *instance.Discovery
}

// New is the constructor for Resolver.
func New(options ...Option) (*Resolver, error) {
	opts := Options{HTTPClient: shared.DefaultClient}
	for _, o := range options {
		o(&opts)
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}

	d, err := instance.New(oauth.New(opts.HTTPClient), instance.Options{
		Logger:     opts.Logger,
		Registerer: opts.Registerer,
	})
	if err != nil {
		return nil, err
	}
	return &Resolver{discovery: d}, nil
}

// EntryOptions are the optional settings of a MetadataEntry() call. These are set by using
// various EntryOption functions.
type EntryOptions struct {
	// CorrelationID is sent as the client-request-id of a discovery request.
	// A random UUID is used when it is empty.
	CorrelationID string
}

// EntryOption is an optional argument to MetadataEntry().
type EntryOption func(o *EntryOptions)

// WithCorrelationID sets the id the identity provider logs the discovery request under.
func WithCorrelationID(id string) EntryOption {
	return func(o *EntryOptions) {
		o.CorrelationID = id
	}
}

// MetadataEntry returns the instance metadata of the authority's host. The first request for
// a host that is not cached calls the identity provider; later requests for it, or for any of
// its aliases, are answered from the cache.
//
// With validateAuthority, an authority the identity provider does not vouch for returns an
// errors.AuthorityErr. Without it, an authority the identity provider rejects is cached as its
// own metadata entry.
func (r *Resolver) MetadataEntry(ctx context.Context, authority string, validateAuthority bool, options ...EntryOption) (*MetadataEntry, error) {
	if authority == "" {
		return nil, errors.AuthorityErr{Code: errors.InvalidArgument, Err: errors.New("authority cannot be empty")}
	}
	u, err := url.Parse(authority)
	if err != nil {
		return nil, errors.AuthorityErr{Code: errors.InvalidArgument, Authority: authority, Err: err}
	}

	opts := EntryOptions{}
	for _, o := range options {
		o(&opts)
	}
	if opts.CorrelationID == "" {
		opts.CorrelationID = uuid.New().String()
	}

	return r.discovery.MetadataEntry(ctx, u, validateAuthority, opts.CorrelationID)
}

// AddMetadataEntry caches host as its own metadata entry, so it resolves without a discovery
// call. It reports whether the entry was added; a host that is already cached is left alone.
func (r *Resolver) AddMetadataEntry(host string) bool {
	return r.discovery.AddMetadataEntry(host)
}

// IsTrusted reports whether host is a known identity provider host, or belongs to a federated
// domain a previous resolution has trusted.
func (r *Resolver) IsTrusted(host string) bool {
	return r.discovery.IsTrusted(host)
}
