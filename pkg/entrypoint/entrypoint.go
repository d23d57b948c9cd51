// Package entrypoint defines the collaborator interfaces the validation
// simulator consumes from the EVM provider and the ERC-4337 entry point
// contract, plus the ABI-encoded revert payloads the entry point emits from
// simulateValidation.
//
// Concrete implementations (a live json-rpc Provider, a bound EntryPoint
// contract) live outside this module; the simulator is polymorphic over these
// interfaces the same way the teacher's aimiddleware package is polymorphic
// over a *rpc.Client and an abigen contract binding.
package entrypoint

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/quantum-warriors/uservalidator/pkg/userop"
)

// AggregatorSimOut is the successful result of validating an aggregator's
// signature over a UserOperation.
type AggregatorSimOut struct {
	Address   common.Address
	Signature []byte
}

// AggregatorOutKind tags the outcome of Provider.ValidateUserOpSignature.
type AggregatorOutKind int

const (
	// AggregatorNotNeeded means the op has no aggregator entity.
	AggregatorNotNeeded AggregatorOutKind = iota
	// AggregatorSuccess means the aggregator validated the signature.
	AggregatorSuccess
	// AggregatorReverted means the aggregator's validateUserOpSignature call
	// reverted.
	AggregatorReverted
)

// AggregatorOut is the tagged result of an aggregator signature validation
// call.
type AggregatorOut struct {
	Kind AggregatorOutKind
	Info *AggregatorSimOut // set only when Kind == AggregatorSuccess
}

// Provider is the subset of EVM JSON-RPC capabilities the simulator needs.
// Implementations are expected to be safe for concurrent use; none of their
// methods may be called while holding a lock internal to the simulator.
type Provider interface {
	// GetLatestBlockHash returns the hash of the chain head.
	GetLatestBlockHash(ctx context.Context) (common.Hash, error)

	// GetCodeHash returns a single digest committing to the code deployed at
	// every given address, as of blockHash.
	GetCodeHash(ctx context.Context, addresses []common.Address, blockHash common.Hash) (common.Hash, error)

	// ValidateUserOpSignature asks the given aggregator to validate op's
	// signature, bounded by gasCap.
	ValidateUserOpSignature(ctx context.Context, aggregator common.Address, op userop.UserOperation, gasCap uint64) (AggregatorOut, error)
}

// EntryPoint is the subset of the ERC-4337 entry point contract the
// simulator needs.
type EntryPoint interface {
	Address() common.Address
}

// StakeInfo is the staking posture of a single entity, as reported by
// simulateValidation.
type StakeInfo struct {
	Stake           *big.Int
	UnstakeDelaySec *big.Int
}

// ValidationReturnInfo is the non-entity portion of a decoded
// ValidationResult revert.
type ValidationReturnInfo struct {
	PreOpGas          *big.Int
	Prefund           *big.Int
	SigFailed         bool
	ValidAfter        uint64
	ValidUntil        uint64
	PaymasterContext  []byte
}

// AggregatorInfo is the aggregator entity's address plus its stake posture,
// present only when the UserOperation names an aggregator.
type AggregatorInfo struct {
	Address   common.Address
	StakeInfo StakeInfo
}

// ValidationOutput is the decoded ValidationResult (or
// ValidationResultWithAggregation) revert payload from simulateValidation.
type ValidationOutput struct {
	ReturnInfo     ValidationReturnInfo
	SenderInfo     StakeInfo
	FactoryInfo    StakeInfo
	PaymasterInfo  StakeInfo
	AggregatorInfo *AggregatorInfo
}

// FailedOp is the decoded FailedOp(uint256,string) revert payload, raised
// when the entry point or an entity reverts with a human-readable reason
// instead of completing simulateValidation.
type FailedOp struct {
	OpIndex *big.Int
	Reason  string
}
