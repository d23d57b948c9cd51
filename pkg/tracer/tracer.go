// Package tracer defines the structured output a debug_traceCall-backed
// EIP-4337 validation tracer produces, and the interface the simulator uses
// to invoke it. The tracer implementation itself — a custom JS/native geth
// tracer attached to simulateValidation — is an external collaborator; this
// package only carries the shape of its output and the Tracer interface.
package tracer

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	mapset "github.com/deckarep/golang-set/v2"

	"github.com/quantum-warriors/uservalidator/pkg/userop"
)

// Tracer runs a traced simulateValidation call against the chain.
type Tracer interface {
	TraceSimulateValidation(ctx context.Context, op userop.UserOperation, blockHash common.Hash, gasCap uint64) (*SimulationTracerOutput, error)
}

// StorageAccess records every slot touched at a single address during one
// validation phase.
type StorageAccess struct {
	Address common.Address
	Slots   []*big.Int
}

// Phase is one segment of the simulateValidation trace, corresponding to a
// single entity's validation step (factory, account or paymaster, in that
// order).
type Phase struct {
	ForbiddenOpcodesUsed         []string
	ForbiddenPrecompilesUsed     []string
	StorageAccesses              []StorageAccess
	AddressesCallingWithValue    []common.Address
	CalledNonEntryPointWithValue bool
	CalledBannedEntryPointMethod bool
	RanOutOfGas                  bool
	UndeployedContractAccesses   []common.Address
}

// ExpectedStorage is the storage state the tracer observed during
// validation, keyed by address then by slot, preserved so a bundler can
// assert the chain has not moved before inclusion.
type ExpectedStorage map[common.Address]map[common.Hash]common.Hash

// AssociatedSlotsByAddress maps an address to the set of storage slots the
// tracer's heuristic considers "associated" with it (e.g. slots derived from
// the address via a mapping key).
type AssociatedSlotsByAddress map[common.Address]mapset.Set[string]

// IsAssociatedSlot reports whether slot is associated with owner.
func (a AssociatedSlotsByAddress) IsAssociatedSlot(owner common.Address, slot *big.Int) bool {
	slots, ok := a[owner]
	if !ok {
		return false
	}
	return slots.Contains(slot.String())
}

// SimulationTracerOutput is the complete structured output of one traced
// simulateValidation call.
type SimulationTracerOutput struct {
	Phases                     []Phase
	RevertData                 string // hex-encoded, empty when simulateValidation did not revert
	AccessedContractAddresses  []common.Address
	AssociatedSlotsByAddress   AssociatedSlotsByAddress
	FactoryCalledCreate2Twice  bool
	ExpectedStorage            ExpectedStorage
}
