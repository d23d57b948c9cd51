package simulation

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/quantum-warriors/uservalidator/internal/o11y"
	"github.com/quantum-warriors/uservalidator/pkg/entrypoint"
	"github.com/quantum-warriors/uservalidator/pkg/tracer"
	"github.com/quantum-warriors/uservalidator/pkg/userop"
)

// ValidationContext is everything gatherContextViolations and checkContracts
// need, assembled from one traced simulateValidation call and its decoded
// revert payload.
type ValidationContext struct {
	Op               userop.UserOperation
	BlockHash        common.Hash
	TracerOut        *tracer.SimulationTracerOutput
	EntryPointOut    *entrypoint.ValidationOutput
	EntityInfos      EntityInfos
	IsUnstakedWallet bool
}

// aggregatorAddress returns the UserOperation's named aggregator, if any.
func (c *ValidationContext) aggregatorAddress() *common.Address {
	if c.EntryPointOut == nil || c.EntryPointOut.AggregatorInfo == nil {
		return nil
	}
	addr := c.EntryPointOut.AggregatorInfo.Address
	return &addr
}

// entityAddressFromOp resolves the address of kind's entity directly from
// the UserOperation, without needing a decoded ValidationOutput. Used when
// attributing a FailedOp revert to an entity before EntityInfos exists.
func entityAddressFromOp(op userop.UserOperation, kind EntityType) *common.Address {
	switch kind {
	case EntityTypeFactory:
		return op.Factory()
	case EntityTypeAccount:
		addr := op.Sender
		return &addr
	case EntityTypePaymaster:
		return op.Paymaster()
	default:
		return nil
	}
}

// lastEntityType returns the entity type of the final phase the trace
// reached, clamped to paymaster: a trace with more than three phases has
// already been rejected by the caller, and a trace with zero phases blames
// the factory, since that is the first thing simulateValidation runs.
func lastEntityType(numPhases int) EntityType {
	idx := numPhases - 1
	if idx < 0 {
		idx = 0
	}
	if idx > 2 {
		idx = 2
	}
	kind, _ := entityTypeFromPhase(idx)
	return kind
}

// createContext runs a traced simulateValidation call and decodes its
// revert, returning either an assembled ValidationContext or a single
// SimulationViolation describing why the call could not be interpreted as a
// successful validation. Errors that are not a SimulationViolation indicate
// an underlying RPC or codec failure rather than a rejected UserOperation.
func createContext(
	ctx context.Context,
	provider entrypoint.Provider,
	entryPoint entrypoint.EntryPoint,
	tr tracer.Tracer,
	settings Settings,
	op userop.UserOperation,
	blockHash common.Hash,
) (*ValidationContext, error) {
	ctx, span := o11y.Tracer().Start(ctx, "createContext")
	defer span.End()

	tracerOut, err := tr.TraceSimulateValidation(ctx, op, blockHash, settings.MaxVerificationGas)
	if err != nil {
		return nil, fmt.Errorf("simulation: trace simulateValidation: %w", err)
	}

	numPhases := len(tracerOut.Phases)
	if numPhases > 3 {
		return nil, WrongNumberOfPhases{NumPhases: uint32(numPhases)}
	}
	if tracerOut.RevertData == "" {
		return nil, DidNotRevert{}
	}

	lastEntity := lastEntityType(numPhases)

	if failedOp, ferr := entrypoint.NewFailedOp(tracerOut.RevertData); ferr == nil {
		return nil, UnintendedRevertWithMessage{
			Entity:  lastEntity,
			Reason:  failedOp.Reason,
			Address: entityAddressFromOp(op, lastEntity),
		}
	}

	validationOut, verr := entrypoint.NewValidationOutput(tracerOut.RevertData)
	if verr != nil {
		return nil, UnintendedRevert{Entity: lastEntity}
	}

	entityInfos := EntityInfos{
		Sender: EntityInfo{
			Address:  op.Sender,
			IsStaked: isStaked(validationOut.SenderInfo, settings),
		},
	}
	if factory := op.Factory(); factory != nil {
		entityInfos.Factory = &EntityInfo{
			Address:  *factory,
			IsStaked: isStaked(validationOut.FactoryInfo, settings),
		}
	}
	if paymaster := op.Paymaster(); paymaster != nil {
		entityInfos.Paymaster = &EntityInfo{
			Address:  *paymaster,
			IsStaked: isStaked(validationOut.PaymasterInfo, settings),
		}
	}

	isUnstakedWallet := entityInfos.Factory != nil && !entityInfos.Factory.IsStaked

	// Deferred until after the FailedOp/ValidationOutput decode above: a
	// human-readable revert reason always takes precedence over a generic
	// short-trace complaint, but once the revert has decoded as a
	// ValidationOutput, a short trace is itself a fatal, non-allowlistable
	// violation rather than something gatherContextViolations folds in.
	if numPhases < 3 {
		return nil, WrongNumberOfPhases{NumPhases: uint32(numPhases)}
	}

	return &ValidationContext{
		Op:               op,
		BlockHash:        blockHash,
		TracerOut:        tracerOut,
		EntryPointOut:    validationOut,
		EntityInfos:      entityInfos,
		IsUnstakedWallet: isUnstakedWallet,
	}, nil
}
