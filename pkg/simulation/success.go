package simulation

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/quantum-warriors/uservalidator/pkg/entrypoint"
	"github.com/quantum-warriors/uservalidator/pkg/tracer"
)

// SimulationSuccess is the admission certificate SimulateValidation returns
// for a UserOperation that cleared every validation rule and was not
// rejected by mempool matching.
type SimulationSuccess struct {
	// Mempools names every mempool this UserOperation is admissible to. It is
	// empty when no violations were found and no mempool is configured.
	Mempools []common.Hash
	// BlockHash is the block the simulation ran against.
	BlockHash common.Hash
	PreOpGas  *big.Int
	// ValidAfter and ValidUntil bound the time range the signature (and any
	// paymaster data) is valid for.
	ValidAfter  uint64
	ValidUntil  uint64
	Aggregator  *entrypoint.AggregatorSimOut
	CodeHash    common.Hash
	// EntitiesNeedingStake lists every entity whose action during
	// validation required it to be staked, whether or not it was.
	EntitiesNeedingStake []EntityType
	AccountIsStaked      bool
	// AccessedAddresses is the union of every address named in the storage
	// accesses of each phase whose entity is present (a factory or paymaster
	// phase with no such entity is not scanned), distinct from the (possibly
	// larger) set of contracts CodeHash commits to.
	AccessedAddresses []common.Address
	ExpectedStorage   tracer.ExpectedStorage
}

// AggregatorAddress returns the address of the UserOperation's aggregator,
// or nil if it has none.
func (s SimulationSuccess) AggregatorAddress() *common.Address {
	if s.Aggregator == nil {
		return nil
	}
	addr := s.Aggregator.Address
	return &addr
}
