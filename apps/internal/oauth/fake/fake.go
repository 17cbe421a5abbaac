// Copyright (c) Microsoft Corporation.
// Licensed under the MIT license.

// Package fake provides fake implementations of the oauth clients for tests.
package fake

import (
	"context"
	"errors"
	"sync"

	"github.com/AzureAD/instance-discovery-for-go/apps/internal/oauth/ops/authority"
)

// Authority is a fake oauth.InstanceDiscoverer. It returns InstanceResp, or an error if Err is set.
// It records every endpoint it is called with. Safe for concurrent use.
type Authority struct {
	InstanceResp authority.InstanceDiscoveryResponse
	// Err, when set, is returned instead of InstanceResp.
	Err error
	// Gate, when set, blocks every call until it is closed or the context is done.
	Gate chan struct{}

	mu             sync.Mutex
	endpoints      []string
	correlationIDs []string
}

// InstanceDiscovery implements oauth.InstanceDiscoverer.
func (f *Authority) InstanceDiscovery(ctx context.Context, endpoint, correlationID string) (authority.InstanceDiscoveryResponse, error) {
	f.mu.Lock()
	f.endpoints = append(f.endpoints, endpoint)
	f.correlationIDs = append(f.correlationIDs, correlationID)
	f.mu.Unlock()

	if f.Gate != nil {
		select {
		case <-f.Gate:
		case <-ctx.Done():
			return authority.InstanceDiscoveryResponse{}, ctx.Err()
		}
	}
	if f.Err != nil {
		return authority.InstanceDiscoveryResponse{}, f.Err
	}
	return f.InstanceResp, nil
}

// Calls returns the number of discovery calls made.
func (f *Authority) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.endpoints)
}

// Endpoints returns the endpoints of every call, in order.
func (f *Authority) Endpoints() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.endpoints...)
}

// CorrelationIDs returns the correlation ids of every call, in order.
func (f *Authority) CorrelationIDs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.correlationIDs...)
}

// ErrTransport is a non service error that fakes can return.
var ErrTransport = errors.New("fake transport error")
