// Copyright (c) Microsoft Corporation.
// Licensed under the MIT license.

package instance

// MetadataEntry is one class of equivalent authority hosts. It is immutable and
// shared by pointer between every host key that resolves to it.
type MetadataEntry struct {
	preferredNetwork string
	preferredCache   string
	aliases          []string
}

// NewMetadataEntry creates a MetadataEntry. aliases is copied.
func NewMetadataEntry(preferredNetwork, preferredCache string, aliases []string) *MetadataEntry {
	var a []string
	if len(aliases) > 0 {
		a = append(make([]string, 0, len(aliases)), aliases...)
	}
	return &MetadataEntry{preferredNetwork: preferredNetwork, preferredCache: preferredCache, aliases: a}
}

// selfEntry is the fallback entry for a host that discovery said nothing about.
func selfEntry(host string) *MetadataEntry {
	return &MetadataEntry{preferredNetwork: host, preferredCache: host}
}

// PreferredNetwork is the host to use for network calls.
func (e *MetadataEntry) PreferredNetwork() string {
	return e.preferredNetwork
}

// PreferredCache is the host to use in token cache keys.
func (e *MetadataEntry) PreferredCache() string {
	return e.preferredCache
}

// Aliases returns a copy of the hosts equivalent to this entry. It is nil for
// fallback entries.
func (e *MetadataEntry) Aliases() []string {
	if e.aliases == nil {
		return nil
	}
	return append([]string(nil), e.aliases...)
}
