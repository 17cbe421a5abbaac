// Copyright (c) Microsoft Corporation.
// Licensed under the MIT license.

// Package errors provides the error types returned by authority instance discovery.
package errors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/kylelemons/godebug/pretty"
)

var prettyConf = &pretty.Config{IncludeUnexported: false, SkipZeroFields: true, TrackCycles: true}

type verboser interface {
	Verbose() string
}

// Verbose prints the most verbose error that the error message has.
func Verbose(err error) string {
	for e := err; e != nil; e = errors.Unwrap(e) {
		if v, ok := e.(verboser); ok {
			return v.Verbose()
		}
	}
	return err.Error()
}

// New is equivalent to errors.New().
func New(text string) error {
	return errors.New(text)
}

// Code identifies why authority resolution failed.
type Code string

const (
	// InvalidArgument means the authority passed to the resolver was missing or unusable.
	InvalidArgument Code = "invalid_argument"
	// AuthorityNotInValidList means the identity provider did not vouch for the authority.
	AuthorityNotInValidList Code = "authority_not_in_valid_list"
	// AuthorityValidationFailed means the identity provider returned some other error
	// while the caller required validation.
	AuthorityValidationFailed Code = "authority_validation_failed"
)

// InvalidInstance is the error code the discovery endpoint returns for an unknown authority.
const InvalidInstance = "invalid_instance"

// AuthorityErr is returned when an authority cannot be resolved. Err, when set, is the
// underlying transport error.
type AuthorityErr struct {
	Code      Code
	Authority string
	Err       error
}

// Error implements error.Error().
func (e AuthorityErr) Error() string {
	msg := fmt.Sprintf("authority %q: %s", e.Authority, e.Code)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the transport error that caused this error, if any.
func (e AuthorityErr) Unwrap() error {
	return e.Err
}

// Verbose includes the verbose form of the wrapped error.
func (e AuthorityErr) Verbose() string {
	if e.Err == nil {
		return e.Error()
	}
	return fmt.Sprintf("authority %q: %s:\n%s", e.Authority, e.Code, Verbose(e.Err))
}

// CodeOf reports the Code of the first AuthorityErr in err's chain.
func CodeOf(err error) (Code, bool) {
	var ae AuthorityErr
	if errors.As(err, &ae) {
		return ae.Code, true
	}
	return "", false
}

// ServiceErr is a service level error: the server answered with a non-success status
// and an OAuth error body that could be decoded.
type ServiceErr struct {
	StatusCode    int
	ErrorCode     string
	Description   string
	ErrorCodes    []int
	CorrelationID string
}

// Error implements error.Error().
func (e ServiceErr) Error() string {
	if e.Description == "" {
		return fmt.Sprintf("service error %d: %s", e.StatusCode, e.ErrorCode)
	}
	return fmt.Sprintf("service error %d: %s: %s", e.StatusCode, e.ErrorCode, e.Description)
}

// CallErr represents an HTTP call error. Has a Verbose() method that allows getting the
// http.Request and Response objects. Implements error.
type CallErr struct {
	Req  *http.Request
	Resp *http.Response
	Err  error
}

// Errors implements error.Error().
func (e CallErr) Error() string {
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e CallErr) Unwrap() error {
	return e.Err
}

// Verbose prints a versbose error message with the request or response.
func (e CallErr) Verbose() string {
	return fmt.Sprintf("%s:\n\tRequest:\n%s\n\tResponse:\n%s", e.Err, prettyConf.Sprint(e.Req), prettyConf.Sprint(e.Resp))
}
