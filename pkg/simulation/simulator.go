package simulation

import (
	"context"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-logr/logr"

	"github.com/quantum-warriors/uservalidator/internal/o11y"
	"github.com/quantum-warriors/uservalidator/pkg/entrypoint"
	"github.com/quantum-warriors/uservalidator/pkg/mempool"
	"github.com/quantum-warriors/uservalidator/pkg/tracer"
	"github.com/quantum-warriors/uservalidator/pkg/userop"
)

// ViolationError is the error SimulateValidation returns when a
// UserOperation is rejected. Exactly one of Violations or Other is set:
// Violations carries one or more SimulationViolations attributable to the
// entry point or an entity, while Other carries a failure that is not itself
// a violation (e.g. a provider or tracer RPC error, or a malformed tracer
// entry). Callers that only care about SimulationViolation (or a
// narrower T) can range over Violations without a type assertion per element.
type ViolationError[T any] struct {
	Violations []T
	Other      error
}

func (e *ViolationError[T]) Error() string {
	if e.Other != nil {
		return e.Other.Error()
	}
	if len(e.Violations) == 0 {
		return "simulation: rejected with no recorded violation"
	}
	parts := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		if err, ok := any(v).(error); ok {
			parts[i] = err.Error()
		}
	}
	return strings.Join(parts, "; ")
}

func (e *ViolationError[T]) Unwrap() error { return e.Other }

// Simulator runs simulateValidation against a UserOperation and reports
// whether it may enter a mempool.
type Simulator interface {
	SimulateValidation(ctx context.Context, op userop.UserOperation, blockHash *common.Hash, expectedCodeHash *common.Hash) (*SimulationSuccess, error)
}

// SimulatorImpl is the reference Simulator: it traces simulateValidation
// through a Tracer, decodes the revert through a Provider/EntryPoint pair,
// and matches the resulting violations against a directory of mempools.
type SimulatorImpl struct {
	Provider   entrypoint.Provider
	EntryPoint entrypoint.EntryPoint
	Tracer     tracer.Tracer
	Settings   Settings
	Mempools   mempool.Directory
	Matcher    mempool.Matcher
	Logger     logr.Logger
}

// NewSimulatorImpl builds a SimulatorImpl with the default mempool matcher.
func NewSimulatorImpl(provider entrypoint.Provider, entryPoint entrypoint.EntryPoint, tr tracer.Tracer, settings Settings, mempools mempool.Directory, logger logr.Logger) *SimulatorImpl {
	return &SimulatorImpl{
		Provider:   provider,
		EntryPoint: entryPoint,
		Tracer:     tr,
		Settings:   settings,
		Mempools:   mempools,
		Matcher:    mempool.DefaultMatcher{},
		Logger:     logger,
	}
}

// SimulateValidation implements Simulator.
func (s *SimulatorImpl) SimulateValidation(ctx context.Context, op userop.UserOperation, blockHash *common.Hash, expectedCodeHash *common.Hash) (*SimulationSuccess, error) {
	ctx, span := o11y.Tracer().Start(ctx, "simulate_validation")
	defer span.End()

	resolvedBlockHash := common.Hash{}
	if blockHash != nil {
		resolvedBlockHash = *blockHash
	} else {
		hash, err := s.Provider.GetLatestBlockHash(ctx)
		if err != nil {
			return nil, &ViolationError[SimulationViolation]{Other: err}
		}
		resolvedBlockHash = hash
	}

	vctx, err := createContext(ctx, s.Provider, s.EntryPoint, s.Tracer, s.Settings, op, resolvedBlockHash)
	if err != nil {
		if violation, ok := err.(SimulationViolation); ok {
			s.Logger.V(1).Info("validation context rejected", "sender", op.Sender, "violation", violation.Error())
			return nil, &ViolationError[SimulationViolation]{Violations: []SimulationViolation{violation}}
		}
		return nil, &ViolationError[SimulationViolation]{Other: err}
	}

	violations, entitiesNeedingStake, accessedAddresses, err := gatherContextViolations(s.Settings, s.EntryPoint.Address(), vctx)
	if err != nil {
		return nil, &ViolationError[SimulationViolation]{Other: err}
	}
	sortViolations(violations)

	mempoolViolations := make([]mempool.Violation, len(violations))
	for i, v := range violations {
		mempoolViolations[i] = v
	}
	match := s.Matcher.Match(s.Mempools, mempoolViolations)
	if match.Kind == mempool.MatchResultNoMatch {
		s.Logger.V(1).Info("no mempool admits operation", "sender", op.Sender, "violation", violations[match.Index].Error())
		return nil, &ViolationError[SimulationViolation]{Violations: []SimulationViolation{violations[match.Index]}}
	}

	codeHash, aggOut, contractViolations, err := checkContracts(ctx, s.Provider, s.Settings, vctx, expectedCodeHash)
	if err != nil {
		return nil, &ViolationError[SimulationViolation]{Other: err}
	}
	if len(contractViolations) > 0 {
		sortViolations(contractViolations)
		return nil, &ViolationError[SimulationViolation]{Violations: contractViolations}
	}

	return &SimulationSuccess{
		Mempools:             match.Mempools,
		BlockHash:            resolvedBlockHash,
		PreOpGas:             vctx.EntryPointOut.ReturnInfo.PreOpGas,
		ValidAfter:           vctx.EntryPointOut.ReturnInfo.ValidAfter,
		ValidUntil:           vctx.EntryPointOut.ReturnInfo.ValidUntil,
		Aggregator:           aggOut,
		CodeHash:             codeHash,
		EntitiesNeedingStake: entitiesNeedingStake,
		AccountIsStaked:      vctx.EntityInfos.Sender.IsStaked,
		AccessedAddresses:    accessedAddresses,
		ExpectedStorage:      vctx.TracerOut.ExpectedStorage,
	}, nil
}
