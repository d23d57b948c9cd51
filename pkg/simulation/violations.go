package simulation

import (
	"fmt"
	"math/big"
	"sort"

	"github.com/ethereum/go-ethereum/common"
)

// SimulationViolation is one thing the simulator found wrong with a traced
// simulateValidation call. Go has no tagged-union enum, so each variant below
// is its own type implementing this interface; violationRank gives them the
// same total order the canonical Rust SimulationViolation enum derives.
//
// AllowlistKey names the variant for mempool.Config's allowlist, independent
// of its Error() message, so a mempool's allowlist survives message wording
// changes.
type SimulationViolation interface {
	error
	violationRank() int
	AllowlistKey() string
}

// InvalidSignature is raised when the entry point reports sigFailed for the
// account's own signature (not an aggregator's).
type InvalidSignature struct{}

func (InvalidSignature) Error() string          { return "invalid signature" }
func (InvalidSignature) violationRank() int      { return 0 }
func (InvalidSignature) AllowlistKey() string    { return "InvalidSignature" }

// UnintendedRevertWithMessage is raised when simulateValidation reverted with
// a FailedOp carrying a human-readable reason, attributable to a specific
// entity.
type UnintendedRevertWithMessage struct {
	Entity  EntityType
	Reason  string
	Address *common.Address
}

func (v UnintendedRevertWithMessage) Error() string {
	return fmt.Sprintf("reverted while simulating %s validation: %s", v.Entity, v.Reason)
}
func (UnintendedRevertWithMessage) violationRank() int   { return 1 }
func (UnintendedRevertWithMessage) AllowlistKey() string { return "UnintendedRevertWithMessage" }

// UsedForbiddenOpcode is raised when an entity executes an opcode the
// validation rules ban (anything with external, non-deterministic, or
// state-dependent behavior outside the entity's own storage).
type UsedForbiddenOpcode struct {
	Entity   Entity
	Contract common.Address
	Opcode   ViolationOpCode
}

func (v UsedForbiddenOpcode) Error() string {
	return fmt.Sprintf("%s uses banned opcode: %s in contract %s", v.Entity.Kind, v.Opcode, v.Contract)
}
func (UsedForbiddenOpcode) violationRank() int   { return 2 }
func (UsedForbiddenOpcode) AllowlistKey() string { return "UsedForbiddenOpcode" }

// UsedForbiddenPrecompile is raised when an entity calls a precompile outside
// the small allowed set (e.g. ecrecover, the entry point's own sig checks).
type UsedForbiddenPrecompile struct {
	Entity     Entity
	Contract   common.Address
	Precompile common.Address
}

func (v UsedForbiddenPrecompile) Error() string {
	return fmt.Sprintf("%s uses banned precompile: %s in contract %s", v.Entity.Kind, v.Precompile, v.Contract)
}
func (UsedForbiddenPrecompile) violationRank() int   { return 3 }
func (UsedForbiddenPrecompile) AllowlistKey() string { return "UsedForbiddenPrecompile" }

// AccessedUndeployedContract is raised when an entity's validation code reads
// the code or balance of an address with no code, during validation (after
// any factory-triggered deployment), a common storage-griefing vector.
type AccessedUndeployedContract struct {
	Entity  Entity
	Address common.Address
}

func (v AccessedUndeployedContract) Error() string {
	return fmt.Sprintf("%s tried to access code at %s during validation, but that address is not a contract", v.Entity.Kind, v.Address)
}
func (AccessedUndeployedContract) violationRank() int   { return 4 }
func (AccessedUndeployedContract) AllowlistKey() string { return "AccessedUndeployedContract" }

// FactoryCalledCreate2Twice is raised when the factory's initCode executes
// CREATE2 more than once; a wallet factory may only deploy the sender.
type FactoryCalledCreate2Twice struct {
	Factory common.Address
}

func (FactoryCalledCreate2Twice) Error() string {
	return "factory may only call CREATE2 once during initialization"
}
func (FactoryCalledCreate2Twice) violationRank() int   { return 5 }
func (FactoryCalledCreate2Twice) AllowlistKey() string { return "FactoryCalledCreate2Twice" }

// InvalidStorageAccess is raised when an entity reads or writes a storage
// slot classified StorageBanned by getStorageRestriction.
type InvalidStorageAccess struct {
	Entity Entity
	Slot   StorageSlot
}

func (v InvalidStorageAccess) Error() string {
	return fmt.Sprintf("%s accessed forbidden storage at address %s during validation", v.Entity.Kind, v.Slot.Address)
}
func (InvalidStorageAccess) violationRank() int   { return 6 }
func (InvalidStorageAccess) AllowlistKey() string { return "InvalidStorageAccess" }

// CalledBannedEntryPointMethod is raised when an entity calls the entry point
// during validation with anything other than depositTo.
type CalledBannedEntryPointMethod struct {
	Entity Entity
}

func (v CalledBannedEntryPointMethod) Error() string {
	return fmt.Sprintf("%s called entry point method other than depositTo", v.Entity.Kind)
}
func (CalledBannedEntryPointMethod) violationRank() int   { return 7 }
func (CalledBannedEntryPointMethod) AllowlistKey() string { return "CalledBannedEntryPointMethod" }

// CallHadValue is raised when an entity sends ETH during validation, other
// than the account itself prefunding the entry point.
type CallHadValue struct {
	Entity Entity
}

func (v CallHadValue) Error() string {
	return fmt.Sprintf("%s must not send ETH during validation (except from account to entry point)", v.Entity.Kind)
}
func (CallHadValue) violationRank() int   { return 8 }
func (CallHadValue) AllowlistKey() string { return "CallHadValue" }

// CodeHashChanged is raised when the combined code hash of every address
// touched during validation no longer matches a previous simulation's, which
// means some contract in the validation path was modified since then.
type CodeHashChanged struct{}

func (CodeHashChanged) Error() string {
	return "code accessed by validation has changed since the last time validation was run"
}
func (CodeHashChanged) violationRank() int   { return 9 }
func (CodeHashChanged) AllowlistKey() string { return "CodeHashChanged" }

// NotStaked is raised when an entity performs an action that requires it to
// be staked (e.g. touching another entity's associated storage) without
// meeting the minimum stake and unstake delay.
type NotStaked struct {
	Entity          Entity
	MinStake        *big.Int
	MinUnstakeDelay *big.Int
}

func (v NotStaked) Error() string {
	return fmt.Sprintf("%s must be staked", v.Entity.Kind)
}
func (NotStaked) violationRank() int   { return 10 }
func (NotStaked) AllowlistKey() string { return "NotStaked" }

// UnintendedRevert is raised when simulateValidation reverted with data that
// decodes neither as a FailedOp nor as a ValidationResult.
type UnintendedRevert struct {
	Entity EntityType
}

func (v UnintendedRevert) Error() string {
	return fmt.Sprintf("reverted while simulating %s validation", v.Entity)
}
func (UnintendedRevert) violationRank() int   { return 11 }
func (UnintendedRevert) AllowlistKey() string { return "UnintendedRevert" }

// DidNotRevert is raised when simulateValidation returned normally; the
// entry point must always revert, on success or failure.
type DidNotRevert struct{}

func (DidNotRevert) Error() string {
	return "simulateValidation did not revert. Make sure your EntryPoint is valid"
}
func (DidNotRevert) violationRank() int   { return 12 }
func (DidNotRevert) AllowlistKey() string { return "DidNotRevert" }

// WrongNumberOfPhases is raised when the trace does not contain exactly three
// validation phases (factory, account, paymaster).
type WrongNumberOfPhases struct {
	NumPhases uint32
}

func (v WrongNumberOfPhases) Error() string {
	return fmt.Sprintf("simulateValidation should have 3 parts but had %d instead. Make sure your EntryPoint is valid", v.NumPhases)
}
func (WrongNumberOfPhases) violationRank() int   { return 13 }
func (WrongNumberOfPhases) AllowlistKey() string { return "WrongNumberOfPhases" }

// OutOfGas is raised when an entity's validation phase ran out of gas.
type OutOfGas struct {
	Entity Entity
}

func (v OutOfGas) Error() string {
	return fmt.Sprintf("ran out of gas during %s validation", v.Entity.Kind)
}
func (OutOfGas) violationRank() int   { return 14 }
func (OutOfGas) AllowlistKey() string { return "OutOfGas" }

// AggregatorValidationFailed is raised when the UserOperation names an
// aggregator and that aggregator's validateUserOpSignature call reverted.
type AggregatorValidationFailed struct{}

func (AggregatorValidationFailed) Error() string {
	return "aggregator signature validation failed"
}
func (AggregatorValidationFailed) violationRank() int   { return 15 }
func (AggregatorValidationFailed) AllowlistKey() string { return "AggregatorValidationFailed" }

// sortViolations orders violations by variant rank, matching the order the
// variants are declared in above. Violations of the same rank keep their
// relative order (e.g. per-phase storage violations stay in access order),
// except two UsedForbiddenOpcode violations, which break ties by opcode byte
// value rather than trace order.
func sortViolations(violations []SimulationViolation) {
	sort.SliceStable(violations, func(i, j int) bool {
		a, b := violations[i], violations[j]
		if a.violationRank() != b.violationRank() {
			return a.violationRank() < b.violationRank()
		}
		ao, aok := a.(UsedForbiddenOpcode)
		bo, bok := b.(UsedForbiddenOpcode)
		if aok && bok {
			return ao.Opcode.less(bo.Opcode)
		}
		return false
	})
}
