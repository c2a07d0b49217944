package sapi

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNoToken is returned by New when the API token is empty.
	ErrNoToken = errors.New("sapi: no API token")

	// ErrUnauthorized is returned for 401 and 403 answers.
	ErrUnauthorized = errors.New("sapi: unauthorized")

	// ErrSolverNotFound is returned when the solver id is unknown to the endpoint.
	ErrSolverNotFound = errors.New("sapi: solver not found")

	// ErrSolverOffline is returned when the selected solver is not online.
	ErrSolverOffline = errors.New("sapi: solver offline")

	// ErrUnsupportedProblem is returned when the solver does not accept QUBO problems.
	ErrUnsupportedProblem = errors.New("sapi: solver does not accept qubo problems")

	// ErrNotEmbeddable is returned when the QUBO does not fit the solver's working graph.
	ErrNotEmbeddable = errors.New("sapi: problem does not fit the solver graph")

	// ErrProblemFailed is returned when the remote problem ends in FAILED.
	ErrProblemFailed = errors.New("sapi: problem failed")

	// ErrProblemCancelled is returned when the remote problem ends in CANCELLED.
	ErrProblemCancelled = errors.New("sapi: problem cancelled")

	// ErrMalformedAnswer is returned when an answer cannot be decoded.
	ErrMalformedAnswer = errors.New("sapi: malformed answer")
)

// HTTPError is a non-2xx answer from the API.
type HTTPError struct {
	Method     string
	Path       string
	StatusCode int
	Message    string
}

// Error implements error.
func (e *HTTPError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}

	return fmt.Sprintf("sapi: %s %s: %d %s", e.Method, e.Path, e.StatusCode, msg)
}

// Unwrap maps authentication failures and unknown solvers to sentinels.
func (e *HTTPError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrUnauthorized
	default:
		return nil
	}
}

// Temporary reports whether the failure is on the server side; only those
// count against the circuit breaker.
func (e *HTTPError) Temporary() bool {
	return e.StatusCode >= 500 || e.StatusCode == http.StatusTooManyRequests
}
