package simulation

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/quantum-warriors/uservalidator/pkg/entrypoint"
)

// EntityType identifies which role in a UserOperation's validation an entity
// played: the simulateValidation trace is always factory, then account, then
// paymaster, with an aggregator entity standing outside the three phases.
type EntityType int

const (
	EntityTypeFactory EntityType = iota
	EntityTypeAccount
	EntityTypePaymaster
	EntityTypeAggregator
)

func (k EntityType) String() string {
	switch k {
	case EntityTypeFactory:
		return "factory"
	case EntityTypeAccount:
		return "account"
	case EntityTypePaymaster:
		return "paymaster"
	case EntityTypeAggregator:
		return "aggregator"
	default:
		return "unknown entity"
	}
}

// entityTypeFromPhase maps a simulateValidation trace phase index to the
// entity role that ran during it. Phase 3 onward (bundler-side execution) has
// no entity of its own.
func entityTypeFromPhase(phase int) (EntityType, bool) {
	switch phase {
	case 0:
		return EntityTypeFactory, true
	case 1:
		return EntityTypeAccount, true
	case 2:
		return EntityTypePaymaster, true
	default:
		return 0, false
	}
}

// Entity names a single address and the role it played in validation.
type Entity struct {
	Kind    EntityType
	Address common.Address
}

// EntityInfo is an entity's address plus whether it met the stake thresholds
// at simulation time.
type EntityInfo struct {
	Address  common.Address
	IsStaked bool
}

// EntityInfos collects the per-entity staking posture for one
// simulateValidation call. Factory and Paymaster are nil when the
// UserOperation does not name one; Sender is always present.
type EntityInfos struct {
	Factory   *EntityInfo
	Sender    EntityInfo
	Paymaster *EntityInfo
}

// Get returns the EntityInfo for kind, or nil if that entity is absent or
// kind is not one of Factory, Account or Paymaster.
func (e EntityInfos) Get(kind EntityType) *EntityInfo {
	switch kind {
	case EntityTypeFactory:
		return e.Factory
	case EntityTypeAccount:
		return &e.Sender
	case EntityTypePaymaster:
		return e.Paymaster
	default:
		return nil
	}
}

// SenderAddress returns the account address the UserOperation is sent from.
func (e EntityInfos) SenderAddress() common.Address {
	return e.Sender.Address
}

// isStaked reports whether a reported stake posture clears both the minimum
// stake value and the minimum unstake delay.
func isStaked(info entrypoint.StakeInfo, settings Settings) bool {
	if info.Stake == nil || info.UnstakeDelaySec == nil {
		return false
	}
	if info.Stake.Cmp(settings.MinStakeValue) < 0 {
		return false
	}
	return info.UnstakeDelaySec.Cmp(new(big.Int).SetUint64(uint64(settings.MinUnstakeDelay))) >= 0
}
