// Copyright (c) Microsoft Corporation.
// Licensed under the MIT license.

package mock

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
)

type response struct {
	body     []byte
	callback func(*http.Request)
	code     int
	headers  http.Header
}

type responseOption interface {
	apply(*response)
}

type respOpt func(*response)

func (fn respOpt) apply(r *response) {
	fn(r)
}

// WithBody sets the HTTP response's body to the specified value.
func WithBody(b []byte) responseOption {
	return respOpt(func(r *response) {
		r.body = b
	})
}

// WithCallback sets a callback to invoke before returning the response.
func WithCallback(callback func(*http.Request)) responseOption {
	return respOpt(func(r *response) {
		r.callback = callback
	})
}

// WithHTTPHeader sets the HTTP headers of the response to the specified value.
func WithHTTPHeader(header http.Header) responseOption {
	return respOpt(func(r *response) {
		r.headers = header
	})
}

// WithHTTPStatusCode sets the HTTP statusCode of response to the specified value.
func WithHTTPStatusCode(statusCode int) responseOption {
	return respOpt(func(r *response) {
		r.code = statusCode
	})
}

// Client is a mock HTTP client that returns a sequence of responses. Use AppendResponse to specify the sequence.
// It records the URL of every request.
type Client struct {
	mu   sync.Mutex
	resp []response
	reqs []string
}

func NewClient() *Client {
	return &Client{}
}

func (c *Client) AppendResponse(opts ...responseOption) {
	c.mu.Lock()
	defer c.mu.Unlock()
	r := response{code: http.StatusOK, headers: http.Header{}}
	for _, o := range opts {
		o.apply(&r)
	}
	c.resp = append(c.resp, r)
}

func (c *Client) Do(req *http.Request) (*http.Response, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reqs = append(c.reqs, req.URL.String())
	if len(c.resp) == 0 {
		panic(fmt.Sprintf(`no response for "%s"`, req.URL.String()))
	}
	resp := c.resp[0]
	c.resp = c.resp[1:]
	if resp.callback != nil {
		resp.callback(req)
	}
	res := http.Response{Header: resp.headers, StatusCode: resp.code, Request: req}
	res.Body = io.NopCloser(bytes.NewReader(resp.body))
	return &res, nil
}

// Requests returns the URL of every request received, in order.
func (c *Client) Requests() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.reqs...)
}

// CloseIdleConnections implements the comm.HTTPClient interface
func (*Client) CloseIdleConnections() {}

// GetInstanceDiscoveryBody returns a discovery response vouching for host/tenant, with one
// metadata entry whose preferred hosts are host and whose aliases are host plus aliases.
func GetInstanceDiscoveryBody(host, tenant string, aliases ...string) []byte {
	authority := fmt.Sprintf("https://%s/%s", host, tenant)
	all := append([]string{host}, aliases...)
	body := fmt.Sprintf(`{"tenant_discovery_endpoint": "%s/v2.0/.well-known/openid-configuration","api-version": "1.1","metadata": [{"preferred_network": "%s","preferred_cache": "%s","aliases": ["%s"]}]}`,
		authority, host, host, strings.Join(all, `","`),
	)
	return []byte(body)
}

// GetDiscoveryErrorBody returns an OAuth error body such as the discovery endpoint sends with a 400.
func GetDiscoveryErrorBody(code, description string) []byte {
	return []byte(fmt.Sprintf(`{"error": "%s","error_description": "%s","error_codes": [50049],"timestamp": "2024-01-01 00:00:00Z","trace_id": "trace","correlation_id": "correlation"}`, code, description))
}

// StandardDiscoveryBody is the worldwide instance discovery document: five clouds and their aliases.
var StandardDiscoveryBody = []byte(`{
	"tenant_discovery_endpoint": "https://login.microsoftonline.com/tenant/.well-known/openid-configuration",
	"api-version": "1.1",
	"metadata": [
		{
			"preferred_network": "login.microsoftonline.com",
			"preferred_cache": "login.windows.net",
			"aliases": ["login.microsoftonline.com", "login.windows.net", "login.microsoft.com", "sts.windows.net"]
		},
		{
			"preferred_network": "login.partner.microsoftonline.cn",
			"preferred_cache": "login.partner.microsoftonline.cn",
			"aliases": ["login.partner.microsoftonline.cn", "login.chinacloudapi.cn"]
		},
		{
			"preferred_network": "login.microsoftonline.de",
			"preferred_cache": "login.microsoftonline.de",
			"aliases": ["login.microsoftonline.de"]
		},
		{
			"preferred_network": "login.microsoftonline.us",
			"preferred_cache": "login.microsoftonline.us",
			"aliases": ["login.microsoftonline.us", "login.usgovcloudapi.net"]
		},
		{
			"preferred_network": "login-us.microsoftonline.com",
			"preferred_cache": "login-us.microsoftonline.com",
			"aliases": ["login-us.microsoftonline.com"]
		}
	]
}`)
