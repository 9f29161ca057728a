package ipsource

import (
	"errors"
	"fmt"
)

// ErrIPv6Unsupported is returned by sources that cannot look up an address
// through an IPv6 bind address.
var ErrIPv6Unsupported = errors.New("ip source does not support IPv6 bind addresses")

// NetworkError means the lookup request itself failed.
type NetworkError struct {
	Source string
	Err    error
}

func NewNetworkError(source string, err error) *NetworkError {
	return &NetworkError{Source: source, Err: err}
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: request failed: %v", e.Source, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// ParseError means a response arrived but did not hold a usable address.
type ParseError struct {
	Source string
	Input  string
	Err    error
}

func NewParseError(source, input string, err error) *ParseError {
	return &ParseError{Source: source, Input: input, Err: err}
}

func (e *ParseError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: no address found in %q", e.Source, e.Input)
	}
	return fmt.Sprintf("%s: parsing address from %q: %v", e.Source, e.Input, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// CommandError means a local command could not be run or exited non-zero.
type CommandError struct {
	Command string
	Err     error
}

func NewCommandError(command string, err error) *CommandError {
	return &CommandError{Command: command, Err: err}
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("running %q: %v", e.Command, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// NoMatchError means no interface address satisfied the selection rules.
type NoMatchError struct {
	Interface string
}

func NewNoMatchError(iface string) *NoMatchError {
	return &NoMatchError{Interface: iface}
}

func (e *NoMatchError) Error() string {
	if e.Interface == "" {
		return "no qualifying IPv6 address found on any interface"
	}
	return fmt.Sprintf("no qualifying IPv6 address found on interface %s", e.Interface)
}

// truncate keeps error messages readable when a whole response body is quoted.
func truncate(s string) string {
	const max = 64
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
