// Copyright (c) Microsoft Corporation.
// Licensed under the MIT license.

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/AzureAD/instance-discovery-for-go/apps/discovery"
	"github.com/AzureAD/instance-discovery-for-go/apps/errors"
	"github.com/AzureAD/instance-discovery-for-go/apps/internal/shared"
)

func main() {
	config := CreateConfig("config.json")
	if config.Authority == "" {
		config.Authority = shared.AuthorityPublicCloud
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	reg := prometheus.NewRegistry()

	r, err := discovery.New(discovery.WithLogger(logger), discovery.WithMetrics(reg))
	if err != nil {
		panic(err)
	}
	for _, host := range config.SeedHosts {
		r.AddMetadataEntry(host)
	}

	ctx := context.Background()
	var opts []discovery.EntryOption
	if config.CorrelationID != "" {
		opts = append(opts, discovery.WithCorrelationID(config.CorrelationID))
	}

	// The second lookup is answered from the cache.
	for i := 0; i < 2; i++ {
		entry, err := r.MetadataEntry(ctx, config.Authority, config.ValidateAuthority, opts...)
		if err != nil {
			fmt.Println(errors.Verbose(err))
			os.Exit(1)
		}
		fmt.Printf("preferred network: %s\npreferred cache: %s\naliases: %v\n", entry.PreferredNetwork(), entry.PreferredCache(), entry.Aliases())
	}

	families, err := reg.Gather()
	if err != nil {
		panic(err)
	}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			labels := ""
			for _, l := range m.GetLabel() {
				labels += fmt.Sprintf("%s=%q ", l.GetName(), l.GetValue())
			}
			switch {
			case m.GetHistogram() != nil:
				fmt.Printf("%s %scount=%d sum=%g\n", mf.GetName(), labels, m.GetHistogram().GetSampleCount(), m.GetHistogram().GetSampleSum())
			default:
				fmt.Printf("%s %s%g\n", mf.GetName(), labels, m.GetCounter().GetValue()+m.GetGauge().GetValue())
			}
		}
	}
}
