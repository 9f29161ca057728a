package registry

import (
	"fmt"
	"strings"

	"github.com/cloudflare/cloudflare-go"
)

// NetworkError means the request never produced a response.
type NetworkError struct {
	Op  string
	Err error
}

func NewNetworkError(op string, err error) *NetworkError {
	return &NetworkError{Op: op, Err: err}
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s record: network error: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// APIError is a well-formed response that reports failure, or success
// without a record.
type APIError struct {
	Op         string
	StatusCode int
	Errors     []cloudflare.ResponseInfo
}

func NewAPIError(op string, status int, errs []cloudflare.ResponseInfo) *APIError {
	return &APIError{Op: op, StatusCode: status, Errors: errs}
}

func (e *APIError) Error() string {
	if len(e.Errors) == 0 {
		return fmt.Sprintf("%s record: api returned no result (status %d)", e.Op, e.StatusCode)
	}
	parts := make([]string, 0, len(e.Errors))
	for _, info := range e.Errors {
		parts = append(parts, fmt.Sprintf("%d: %s", info.Code, info.Message))
	}
	return fmt.Sprintf("%s record: api error: %s", e.Op, strings.Join(parts, "; "))
}

// Codes returns the provider error codes in response order.
func (e *APIError) Codes() []int {
	codes := make([]int, 0, len(e.Errors))
	for _, info := range e.Errors {
		codes = append(codes, info.Code)
	}
	return codes
}

// DeserializeError means the response body could not be decoded into a record.
type DeserializeError struct {
	Op  string
	Err error
}

func NewDeserializeError(op string, err error) *DeserializeError {
	return &DeserializeError{Op: op, Err: err}
}

func (e *DeserializeError) Error() string {
	return fmt.Sprintf("%s record: malformed response: %v", e.Op, e.Err)
}

func (e *DeserializeError) Unwrap() error {
	return e.Err
}
