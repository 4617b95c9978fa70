// Package errors provides structured error handling for call
// authentication failures, with gRPC status interop.
package errors

import "google.golang.org/grpc/codes"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Configuration errors, raised synchronously at call construction
	CodeAuthorityMalformed Code = "AUTHORITY_MALFORMED"
	CodeMethodMalformed    Code = "METHOD_MALFORMED"
	CodeProviderMissing    Code = "PROVIDER_MISSING"
	CodeExecutorMissing    Code = "EXECUTOR_MISSING"

	// Credential fetch errors, delivered through the call listener
	CodeFetchFailed Code = "FETCH_FAILED"
)

// GRPCCode maps the code to its gRPC status code. Configuration codes
// are caller defects; a failed fetch looks like a server-side
// authentication rejection.
func (c Code) GRPCCode() codes.Code {
	switch c {
	case CodeAuthorityMalformed, CodeMethodMalformed, CodeProviderMissing, CodeExecutorMissing:
		return codes.InvalidArgument
	case CodeFetchFailed:
		return codes.Unauthenticated
	default:
		return codes.Unknown
	}
}
