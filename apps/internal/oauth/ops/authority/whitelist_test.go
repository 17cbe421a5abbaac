// Copyright (c) Microsoft Corporation.
// Licensed under the MIT license.

package authority

import (
	"fmt"
	"sync"
	"testing"

	"github.com/kylelemons/godebug/pretty"
)

func TestIsTrustedStaticHosts(t *testing.T) {
	w := NewWhitelist()
	for _, host := range []string{
		"login.windows.net",
		"login.chinacloudapi.cn",
		"login.microsoftonline.de",
		"login-us.microsoftonline.com",
		"login.microsoftonline.us",
		"login.microsoftonline.com",
		"LOGIN.MicrosoftOnline.COM",
	} {
		if !w.IsTrusted(host) {
			t.Errorf("TestIsTrustedStaticHosts(%s): got false, want true", host)
		}
	}
	for _, host := range []string{"", "login.microsoft.com", "evil.login.microsoftonline.com.example", "example.com"} {
		if w.IsTrusted(host) {
			t.Errorf("TestIsTrustedStaticHosts(%s): got true, want false", host)
		}
	}
}

func TestExtendForFederatedHost(t *testing.T) {
	tests := []struct {
		desc         string
		hosts        []string
		wantAdded    []bool
		wantSuffixes []string
		trusted      []string
		untrusted    []string
	}{
		{
			desc:      "Not federated",
			hosts:     []string{"login.contoso.com"},
			wantAdded: []bool{false},
			untrusted: []string{"login.contoso.com"},
		},
		{
			desc:         "Federated host trusts its siblings",
			hosts:        []string{"co2-test1.dsts.core.azure-test.net"},
			wantAdded:    []bool{true},
			wantSuffixes: []string{"dsts.core.azure-test.net"},
			trusted: []string{
				"co2-test1.dsts.core.azure-test.net",
				"other.dsts.core.azure-test.net",
				"OTHER.DSTS.CORE.AZURE-TEST.NET",
			},
			untrusted: []string{"other.dsts.core.windows.net"},
		},
		{
			desc:         "Covered host is not added twice",
			hosts:        []string{"a.dsts.core.windows.net", "b.dsts.core.windows.net", "A.DSTS.CORE.WINDOWS.NET"},
			wantAdded:    []bool{true, false, false},
			wantSuffixes: []string{"dsts.core.windows.net"},
			trusted:      []string{"c.dsts.core.windows.net"},
		},
		{
			desc:         "Different parent domains",
			hosts:        []string{"a.dsts.one.net", "b.dsts.two.net"},
			wantAdded:    []bool{true, true},
			wantSuffixes: []string{"dsts.one.net", "dsts.two.net"},
			trusted:      []string{"x.dsts.one.net", "y.dsts.two.net"},
		},
	}

	for _, test := range tests {
		w := NewWhitelist()
		for i, host := range test.hosts {
			if got := w.ExtendForFederatedHost(host); got != test.wantAdded[i] {
				t.Errorf("TestExtendForFederatedHost(%s): ExtendForFederatedHost(%s) == %v, want %v", test.desc, host, got, test.wantAdded[i])
			}
		}
		if diff := pretty.Compare(test.wantSuffixes, w.Suffixes()); diff != "" {
			t.Errorf("TestExtendForFederatedHost(%s): suffixes -want/+got:\n%s", test.desc, diff)
		}
		for _, host := range test.trusted {
			if !w.IsTrusted(host) {
				t.Errorf("TestExtendForFederatedHost(%s): IsTrusted(%s) == false, want true", test.desc, host)
			}
		}
		for _, host := range test.untrusted {
			if w.IsTrusted(host) {
				t.Errorf("TestExtendForFederatedHost(%s): IsTrusted(%s) == true, want false", test.desc, host)
			}
		}
	}
}

func TestWhitelistConcurrentReads(t *testing.T) {
	w := NewWhitelist()
	wg := sync.WaitGroup{}
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				w.IsTrusted(fmt.Sprintf("host%d.dsts.core.windows.net", j))
			}
		}()
	}
	for i := 0; i < 50; i++ {
		w.ExtendForFederatedHost(fmt.Sprintf("host.dsts.domain%d.net", i))
	}
	wg.Wait()

	if got := len(w.Suffixes()); got != 50 {
		t.Errorf("TestWhitelistConcurrentReads: got %d suffixes, want 50", got)
	}
}
