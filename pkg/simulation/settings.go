// Package simulation implements the ERC-4337 UserOperation validation
// simulator: it turns a traced simulateValidation call into a sorted set of
// protocol violations, matches that set against per-mempool allowlists, and
// either returns an admission certificate or a deterministic rejection.
package simulation

import "math/big"

// Settings carries the stake and gas thresholds the simulator enforces.
// It is cheap to copy and never mutated after construction, the same way the
// teacher's ReputationConstants is a small immutable value struct.
type Settings struct {
	// MinUnstakeDelay is the minimum unstake delay, in seconds, an entity
	// must have posted to be considered staked.
	MinUnstakeDelay uint32
	// MinStakeValue is the minimum stake, in wei, an entity must have
	// posted to be considered staked.
	MinStakeValue *big.Int
	// MaxSimulateHandleOpsGas bounds a simulated handleOps gas estimate.
	MaxSimulateHandleOpsGas uint64
	// MaxVerificationGas bounds the gas allowed for the traced
	// simulateValidation call.
	MaxVerificationGas uint64
}

// DefaultSettings returns the values the ERC-4337 reference bundler uses:
// 84600 seconds (23.5 hours) of unstake delay, one ETH of minimum stake, and the Alchemy
// eth_call gas ceiling for the simulate call itself.
func DefaultSettings() Settings {
	return Settings{
		MinUnstakeDelay:         84600,
		MinStakeValue:           new(big.Int).SetUint64(1_000_000_000_000_000_000),
		MaxSimulateHandleOpsGas: 550_000_000,
		MaxVerificationGas:      5_000_000,
	}
}
