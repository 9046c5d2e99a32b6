package codepost

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinels matched by FetchError.Is.
var (
	ErrAuthFailed = errors.New("auth failed: API key missing or invalid, or no access to this resource")
	ErrNotFound   = errors.New("resource not found")
)

// ErrorKind classifies a failed request.
type ErrorKind string

const (
	KindAuth      ErrorKind = "auth"
	KindNotFound  ErrorKind = "not-found"
	KindStatus    ErrorKind = "status"
	KindTransport ErrorKind = "transport"
	KindDecode    ErrorKind = "decode"
)

// FetchError is returned for every request that did not yield a decodable 2xx body.
type FetchError struct {
	Endpoint   string
	Kind       ErrorKind
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Err != nil:
		return fmt.Sprintf("GET %s: %s (HTTP %d): %v", e.Endpoint, e.Kind, e.StatusCode, e.Err)
	case e.StatusCode != 0:
		return fmt.Sprintf("GET %s: %s (HTTP %d)", e.Endpoint, e.Kind, e.StatusCode)
	default:
		return fmt.Sprintf("GET %s: %s: %v", e.Endpoint, e.Kind, e.Err)
	}
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Is matches ErrAuthFailed and ErrNotFound by kind.
func (e *FetchError) Is(target error) bool {
	switch target {
	case ErrAuthFailed:
		return e.Kind == KindAuth
	case ErrNotFound:
		return e.Kind == KindNotFound
	}
	return false
}

// Retryable reports whether another attempt could succeed.
func (e *FetchError) Retryable() bool {
	switch e.Kind {
	case KindTransport:
		return true
	case KindStatus:
		return e.StatusCode >= 500 || e.StatusCode == http.StatusTooManyRequests
	}
	return false
}

func classifyStatus(endpoint string, code int) *FetchError {
	kind := KindStatus
	switch code {
	case http.StatusUnauthorized, http.StatusForbidden:
		kind = KindAuth
	case http.StatusNotFound:
		kind = KindNotFound
	}
	return &FetchError{Endpoint: endpoint, Kind: kind, StatusCode: code}
}
