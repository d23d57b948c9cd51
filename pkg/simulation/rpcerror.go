package simulation

import (
	"github.com/quantum-warriors/uservalidator/pkg/bundlererr"
)

// RPCErrorFor translates an error returned by SimulateValidation into the
// JSON-RPC error shape ERC-4337 callers expect, picking a code from the
// first (highest-priority) violation when err rejects the operation, and
// falling back to a generic transport/decode error code otherwise.
func RPCErrorFor(err error) *bundlererr.RPCError {
	if err == nil {
		return nil
	}

	violationErr, ok := err.(*ViolationError[SimulationViolation])
	if !ok || len(violationErr.Violations) == 0 {
		return bundlererr.NewRPCError(bundlererr.InvalidFields, err.Error(), nil)
	}

	first := violationErr.Violations[0]
	code := codeForViolation(first)
	return bundlererr.NewRPCError(code, first.Error(), violationErr.Violations)
}

func codeForViolation(v SimulationViolation) bundlererr.Code {
	switch vv := v.(type) {
	case UnintendedRevertWithMessage:
		if vv.Entity == EntityTypePaymaster {
			return bundlererr.RejectedByPaymaster
		}
		return bundlererr.RejectedByEntryPointOrAccount
	case UnintendedRevert:
		if vv.Entity == EntityTypePaymaster {
			return bundlererr.RejectedByPaymaster
		}
		return bundlererr.RejectedByEntryPointOrAccount
	case UsedForbiddenOpcode, UsedForbiddenPrecompile, InvalidStorageAccess,
		AccessedUndeployedContract, FactoryCalledCreate2Twice, CalledBannedEntryPointMethod,
		CallHadValue, CodeHashChanged:
		return bundlererr.BannedOpcodeOrStorage
	case NotStaked:
		return bundlererr.EntityThrottledOrBanned
	case InvalidSignature, AggregatorValidationFailed:
		return bundlererr.InvalidSignatureCode
	default:
		return bundlererr.InvalidFields
	}
}
