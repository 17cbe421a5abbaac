// Copyright (c) Microsoft Corporation.
// Licensed under the MIT license.

// Package comm provides helpers for communicating with HTTP backends.
package comm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"reflect"
	"runtime"
	"strings"

	"github.com/google/uuid"

	"github.com/AzureAD/instance-discovery-for-go/apps/errors"
)

// Version is sent in the x-client-VER header.
const Version = "0.1.0"

// HTTPClient represents an HTTP client.
// It's usually an *http.Client from the standard library.
type HTTPClient interface {
	// Do sends an HTTP request and returns an HTTP response.
	Do(req *http.Request) (*http.Response, error)

	// CloseIdleConnections closes any idle connections in a "keep-alive" state.
	CloseIdleConnections()
}

// Client provides a wrapper to our *http.Client that handles compression and serialization needs.
type Client struct {
	client HTTPClient
}

// New returns a new Client object.
func New(httpClient HTTPClient) *Client {
	if httpClient == nil {
		panic("http.Client cannot == nil")
	}

	return &Client{client: httpClient}
}

// JSONCall connects to the REST endpoint passing the HTTP query values, headers and JSON conversion
// of body in the HTTP body. A nil body sends a GET, otherwise a POST. It automatically handles gzip decompression.
// The response is JSON unmarshalled into resp. resp must be a pointer to a struct.
// A non-success reply returns an errors.CallErr; if the reply carried an OAuth error body, the
// CallErr wraps an errors.ServiceErr.
func (c *Client) JSONCall(ctx context.Context, endpoint string, headers http.Header, qv url.Values, body, resp interface{}) error {
	if qv == nil {
		qv = url.Values{}
	}

	v := reflect.ValueOf(resp)
	if err := c.checkResp(v); err != nil {
		return err
	}

	u, err := url.Parse(endpoint)
	if err != nil {
		return fmt.Errorf("could not parse path URL(%s): %w", endpoint, err)
	}
	if len(qv) > 0 {
		q := u.Query()
		for k, vals := range qv {
			for _, val := range vals {
				q.Add(k, val)
			}
		}
		u.RawQuery = q.Encode()
	}

	method := http.MethodGet
	var reader io.Reader
	if body != nil {
		method = http.MethodPost
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("bug: conn.Call(): could not marshal the body object: %w", err)
		}
		reader = bytes.NewReader(data)
		headers = cloneHeaders(headers)
		headers.Set("Content-Type", "application/json; charset=utf-8")
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return fmt.Errorf("could not create request: %w", err)
	}
	req.Header = addStdHeaders(headers)

	data, err := c.do(req)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(data, resp); err != nil {
		return errors.CallErr{
			Req: req,
			Err: fmt.Errorf("json decode error: %w\njson message bytes were: %s", err, string(data)),
		}
	}
	return nil
}

// do sends req and returns the (decompressed) body of a successful reply.
func (c *Client) do(req *http.Request) ([]byte, error) {
	reply, err := c.client.Do(req)
	if err != nil {
		return nil, errors.CallErr{Req: req, Err: err}
	}
	defer reply.Body.Close()

	var reader io.Reader = reply.Body
	if strings.EqualFold(reply.Header.Get("Content-Encoding"), "gzip") {
		reader, err = gzipDecompress(reply.Body)
		if err != nil {
			return nil, errors.CallErr{Req: req, Resp: reply, Err: err}
		}
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, errors.CallErr{Req: req, Resp: reply, Err: fmt.Errorf("could not read the body of an HTTP Response: %w", err)}
	}
	reply.Body = io.NopCloser(bytes.NewReader(data))

	switch reply.StatusCode {
	case http.StatusOK, http.StatusAccepted:
		return data, nil
	}

	sd := strings.TrimSpace(string(data))
	if se, ok := serviceErr(reply.StatusCode, data); ok {
		return nil, errors.CallErr{Req: req, Resp: reply, Err: se}
	}
	return nil, errors.CallErr{
		Req:  req,
		Resp: reply,
		Err:  fmt.Errorf("http call(%s)(%s) error: reply status code was %d:\n%s", req.URL.String(), req.Method, reply.StatusCode, sd),
	}
}

// oauthErrorBody is the error document OAuth endpoints return with a non-success status.
type oauthErrorBody struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
	ErrorCodes       []int  `json:"error_codes"`
	CorrelationID    string `json:"correlation_id"`
}

func serviceErr(statusCode int, data []byte) (errors.ServiceErr, bool) {
	b := oauthErrorBody{}
	if err := json.Unmarshal(data, &b); err != nil || b.Error == "" {
		return errors.ServiceErr{}, false
	}
	return errors.ServiceErr{
		StatusCode:    statusCode,
		ErrorCode:     b.Error,
		Description:   b.ErrorDescription,
		ErrorCodes:    b.ErrorCodes,
		CorrelationID: b.CorrelationID,
	}, true
}

func (c *Client) checkResp(v reflect.Value) error {
	if v.Kind() != reflect.Ptr {
		return fmt.Errorf("bug: resp argument must a *struct, was %T", v.Interface())
	}
	v = v.Elem()
	if v.Kind() != reflect.Struct {
		return fmt.Errorf("bug: resp argument must be a *struct, was %T", v.Interface())
	}
	return nil
}

func cloneHeaders(headers http.Header) http.Header {
	if headers == nil {
		return http.Header{}
	}
	return headers.Clone()
}

// testID is used in tests to make the client-request-id predictable.
var testID string

// addStdHeaders adds the standard headers we use on all calls.
func addStdHeaders(headers http.Header) http.Header {
	header := cloneHeaders(headers)
	header.Set("Accept-Encoding", "gzip")
	// So that I can have a static id for tests.
	if header.Get("client-request-id") == "" {
		if testID != "" {
			header.Set("client-request-id", testID)
		} else {
			header.Set("client-request-id", uuid.New().String())
		}
	}
	header.Set("return-client-request-id", "false")
	header.Set("x-client-SKU", "InstanceDiscovery.Go")
	header.Set("x-client-VER", Version)
	header.Set("x-client-OS", runtime.GOOS)
	header.Set("x-client-CPU", runtime.GOARCH)
	return header
}
