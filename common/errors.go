// Package common provides shared constants, types, and utilities
// used across the VPN benchmark tool.
package common

import "errors"

// Sentinel errors for benchmark operations.
// These can be checked with errors.Is() for proper error handling.
var (
	// Tunnel errors.
	ErrActivationFailed   = errors.New("tunnel activation failed")
	ErrDeactivationFailed = errors.New("tunnel deactivation failed")

	// Probe errors.
	ErrProbeFailed = errors.New("probe failed")
	ErrNoSamples   = errors.New("no round-trip samples in output")

	// Campaign errors.
	ErrInterrupted = errors.New("benchmark interrupted")

	// Configuration errors.
	ErrConfigLoad = errors.New("failed to load configuration")
	ErrConfigSave = errors.New("failed to save configuration")

	// Persistence errors.
	ErrHistory = errors.New("history store error")
)

// WrapError wraps an error with additional context.
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return &wrappedError{
		msg: message,
		err: err,
	}
}

type wrappedError struct {
	msg string
	err error
}

func (e *wrappedError) Error() string {
	return e.msg + ": " + e.err.Error()
}

func (e *wrappedError) Unwrap() error {
	return e.err
}
