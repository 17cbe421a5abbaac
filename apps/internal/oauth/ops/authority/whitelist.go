// Copyright (c) Microsoft Corporation.
// Licensed under the MIT license.

package authority

import (
	"strings"
	"sync/atomic"
)

// DefaultHost is the trusted host that runs discovery for authorities that are not trusted.
const DefaultHost = "login.microsoftonline.com"

// federationMarker identifies dSTS hosts. Their parent domain is trusted after first contact.
const federationMarker = ".dsts."

var trustedHostList = map[string]bool{
	"login.windows.net":            true, // Microsoft Azure Worldwide - Used in validation scenarios where host is not this list
	"login.chinacloudapi.cn":       true, // Microsoft Azure China
	"login.microsoftonline.de":     true, // Microsoft Azure Blackforest
	"login-us.microsoftonline.com": true, // Microsoft Azure US Government - Legacy
	"login.microsoftonline.us":     true, // Microsoft Azure US Government
	"login.microsoftonline.com":    true, // Microsoft Azure Worldwide
}

// Whitelist decides which authority hosts are trusted without asking the network.
// The static host list never changes. Domain suffixes are only ever added.
// The zero value is ready to use.
type Whitelist struct {
	// suffixes is copy-on-write: readers load a snapshot, the writer swaps in a new slice.
	suffixes atomic.Pointer[[]string]
}

// NewWhitelist returns an empty Whitelist.
func NewWhitelist() *Whitelist {
	return &Whitelist{}
}

// IsTrusted reports whether host is a known authority host or belongs to a trusted domain.
func (w *Whitelist) IsTrusted(host string) bool {
	if trustedHostList[strings.ToLower(host)] {
		return true
	}
	return w.IsFederated(host)
}

// IsFederated reports whether host ends with one of the domains added by ExtendForFederatedHost.
func (w *Whitelist) IsFederated(host string) bool {
	host = strings.ToLower(host)
	for _, suffix := range w.Suffixes() {
		if strings.HasSuffix(host, suffix) {
			return true
		}
	}
	return false
}

// Suffixes returns the trusted domain suffixes in the order they were added.
func (w *Whitelist) Suffixes() []string {
	if p := w.suffixes.Load(); p != nil {
		return *p
	}
	return nil
}

// ExtendForFederatedHost trusts the parent domain of a dSTS host, so that every host under
// it is trusted from now on. It reports whether a new suffix was added.
// Callers must serialize calls; discovery does this inside its critical section.
func (w *Whitelist) ExtendForFederatedHost(host string) bool {
	lower := strings.ToLower(host)
	i := strings.Index(lower, federationMarker)
	if i < 0 || w.IsFederated(lower) {
		return false
	}

	current := w.Suffixes()
	next := make([]string, len(current), len(current)+1)
	copy(next, current)
	next = append(next, lower[i+1:])
	w.suffixes.Store(&next)
	return true
}
