// Copyright (c) Microsoft Corporation.
// Licensed under the MIT license.

package main

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"runtime"
	"sync"
	"text/template"
	"time"

	"github.com/montanaflynn/stats"

	"github.com/AzureAD/instance-discovery-for-go/apps/internal/instance"
	"github.com/AzureAD/instance-discovery-for-go/apps/internal/oauth/ops/authority"
	"github.com/AzureAD/instance-discovery-for-go/apps/internal/slog"
)

type testParams struct {
	// the number of goroutines to use
	Concurrency int

	// the number of distinct hosts requested
	Hosts int

	// how long the fake discovery endpoint takes to answer
	Latency time.Duration
}

// slowAuthority answers every discovery request after a fixed delay.
type slowAuthority struct {
	latency time.Duration
}

func (s slowAuthority) InstanceDiscovery(ctx context.Context, endpoint, correlationID string) (authority.InstanceDiscoveryResponse, error) {
	select {
	case <-time.After(s.latency):
	case <-ctx.Done():
		return authority.InstanceDiscoveryResponse{}, ctx.Err()
	}
	return authority.InstanceDiscoveryResponse{
		TenantDiscoveryEndpoint: "https://fake_authority/tenant/.well-known/openid-configuration",
	}, nil
}

// executeTest has every goroutine resolve every host once, starting from an empty cache.
// It returns the latency of each resolution in nanoseconds.
func executeTest(d *instance.Discovery, params testParams) []float64 {
	hosts := make([]*url.URL, params.Hosts)
	for i := range hosts {
		u, err := url.Parse(fmt.Sprintf("https://login%d.contoso.com/tenant", i))
		if err != nil {
			panic(err)
		}
		hosts[i] = u
	}

	durations := make([][]float64, params.Concurrency)
	wg := &sync.WaitGroup{}
	fmt.Printf("Begin resolution.....")
	for n := 0; n < params.Concurrency; n++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for _, u := range hosts {
				s := time.Now()
				if _, err := d.MetadataEntry(context.Background(), u, true, ""); err != nil {
					panic(err)
				}
				durations[n] = append(durations[n], float64(time.Since(s)))
			}
		}(n)
	}
	wg.Wait()

	var all []float64
	for _, d := range durations {
		all = append(all, d...)
	}
	return all
}

// Stats is used with statsTemplText for reporting purposes
type Stats struct {
	Concurrency int
	Hosts       int
	Count       int
	P50         time.Duration
	P90         time.Duration
	P99         time.Duration
	Max         time.Duration
}

func newStats(params testParams, durations []float64) *Stats {
	pct := func(p float64) time.Duration {
		v, err := stats.Percentile(durations, p)
		if err != nil {
			panic(err)
		}
		return time.Duration(v)
	}
	max, err := stats.Max(durations)
	if err != nil {
		panic(err)
	}
	return &Stats{
		Concurrency: params.Concurrency,
		Hosts:       params.Hosts,
		Count:       len(durations),
		P50:         pct(50),
		P90:         pct(90),
		P99:         pct(99),
		Max:         time.Duration(max),
	}
}

var statsTemplText = `
Test Results:
[{{.Concurrency}} goroutines][{{.Hosts}} hosts][{{.Count}} resolutions] [p50 {{.P50}}, p90 {{.P90}}, p99 {{.P99}}, max {{.Max}}]
==========================================================================
`
var statsTempl = template.Must(template.New("stats").Parse(statsTemplText))

func main() {
	tests := []testParams{
		{Concurrency: runtime.NumCPU(), Hosts: 1, Latency: 50 * time.Millisecond},
		{Concurrency: runtime.NumCPU(), Hosts: 10, Latency: 10 * time.Millisecond},
		{Concurrency: 10 * runtime.NumCPU(), Hosts: 100, Latency: time.Millisecond},
		{Concurrency: 100 * runtime.NumCPU(), Hosts: 1000, Latency: 0},
	}

	for _, t := range tests {
		d, err := instance.New(slowAuthority{latency: t.Latency}, instance.Options{Logger: slog.Discard()})
		if err != nil {
			panic(err)
		}
		fmt.Printf("Test Params: %#v\n", t)
		durations := executeTest(d, t)
		if err := statsTempl.Execute(os.Stdout, newStats(t, durations)); err != nil {
			panic(err)
		}
	}
}
