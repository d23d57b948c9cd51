// Package bundlererr defines the JSON-RPC-style error shape ERC-4337 callers
// expect back from a rejected UserOperation, mirroring the teacher's own
// pkg/errors.RPCError (constructed via errors.NewRPCError(code, message,
// data) at its simulateValidation call site) rather than returning bare Go
// errors across the package boundary.
package bundlererr

import "fmt"

// Code is one of the ERC-4337 bundler JSON-RPC error codes.
type Code int

const (
	// RejectedByEntryPointOrAccount is returned when the entry point or the
	// account reverted simulateValidation with a FailedOp reason.
	RejectedByEntryPointOrAccount Code = -32500
	// RejectedByPaymaster is returned when a paymaster's validation step
	// reverted with a FailedOp reason.
	RejectedByPaymaster Code = -32501
	// BannedOpcodeOrStorage is returned for UsedForbiddenOpcode,
	// UsedForbiddenPrecompile and InvalidStorageAccess violations.
	BannedOpcodeOrStorage Code = -32502
	// EntityThrottledOrBanned is returned for NotStaked violations.
	EntityThrottledOrBanned Code = -32504
	// InvalidSignatureCode is returned for InvalidSignature and
	// AggregatorValidationFailed violations.
	InvalidSignatureCode Code = -32505
	// InvalidFields is returned for malformed input the simulator could not
	// even trace (decode errors, RPC failures), and for violations with no
	// more specific code (DidNotRevert, WrongNumberOfPhases, OutOfGas).
	InvalidFields Code = -32602
)

// RPCError is a JSON-RPC error object: a numeric Code, a human-readable
// Message, and an opaque Data payload a client can inspect for detail (the
// offending entity address, the raw revert reason, ...).
type RPCError struct {
	Code    Code
	Message string
	Data    any
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("%d: %s", e.Code, e.Message)
}

// NewRPCError builds an RPCError, mirroring the teacher's
// errors.NewRPCError(code, message, data) constructor shape.
func NewRPCError(code Code, message string, data any) *RPCError {
	return &RPCError{Code: code, Message: message, Data: data}
}
