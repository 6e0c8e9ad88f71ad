package api

import (
	"errors"
	"fmt"
	"net/http"
)

// ValidationError is bad user input, caught before any request is sent
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NetworkError means no HTTP response was received (DNS, refused, timeout)
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// APIError is a non-2xx response carrying the server's message
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error (status %d): %s", e.Status, e.Message)
}

// DataError is a response whose shape or values the client does not accept
type DataError struct {
	What string
	Err  error
}

func (e *DataError) Error() string {
	if e.Err == nil {
		return "unexpected response: " + e.What
	}
	return fmt.Sprintf("unexpected response: %s: %v", e.What, e.Err)
}

func (e *DataError) Unwrap() error {
	return e.Err
}

// IsNetwork reports whether err came from the transport rather than the server
func IsNetwork(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}

// IsNotFound reports whether err is a 404 from the backend
func IsNotFound(err error) bool {
	var ae *APIError
	return errors.As(err, &ae) && ae.Status == http.StatusNotFound
}

// UserMessage renders err the way the capture form shows it
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var ae *APIError
	if errors.As(err, &ae) {
		return ae.Message
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Message
	}
	var ne *NetworkError
	if errors.As(err, &ne) {
		return "network error: " + ne.Err.Error()
	}
	return err.Error()
}
