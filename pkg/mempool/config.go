// Package mempool implements the per-mempool allowlist configuration and the
// matcher that decides which mempools a candidate UserOperation's violations
// are still admissible to. The mempool's transport (a gRPC server other
// bundlers and the local node talk to) is an external collaborator; this
// package only carries the in-process configuration shape and the matching
// rule the validation core consumes.
package mempool

import (
	"github.com/ethereum/go-ethereum/common"
)

// Violation is the minimal surface the matcher needs from a simulation
// violation: a stable identifier for its kind, used to look it up in a
// mempool's allowlist. pkg/simulation's SimulationViolation implementations
// satisfy this interface so pkg/mempool never needs to import pkg/simulation.
type Violation interface {
	// AllowlistKey returns the violation's kind identifier, e.g.
	// "UsedForbiddenOpcode" or "NotStaked". Two violations of the same
	// SimulationViolation variant always return the same key.
	AllowlistKey() string
}

// Config is a single mempool's admission policy: which violation kinds it
// tolerates, keyed by H256 mempool id in the directory the bundler loads at
// startup.
type Config struct {
	ID        common.Hash
	Allowlist map[string]struct{}
}

// Allows reports whether v's kind is on this mempool's allowlist.
func (c Config) Allows(v Violation) bool {
	_, ok := c.Allowlist[v.AllowlistKey()]
	return ok
}

// NewConfig builds a Config from a plain list of allowed violation kinds.
func NewConfig(id common.Hash, allowedKinds []string) Config {
	allow := make(map[string]struct{}, len(allowedKinds))
	for _, k := range allowedKinds {
		allow[k] = struct{}{}
	}
	return Config{ID: id, Allowlist: allow}
}

// Directory is the mempool configuration map the bundler's config loader
// produces: mempool id to its admission policy.
type Directory map[common.Hash]Config
