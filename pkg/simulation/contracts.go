package simulation

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/sync/errgroup"

	"github.com/quantum-warriors/uservalidator/internal/o11y"
	"github.com/quantum-warriors/uservalidator/pkg/entrypoint"
)

// checkContracts runs the two checks that need a second round trip to the
// chain concurrently: hashing every contract touched during validation, and
// (if the op names one) asking the aggregator to validate the signature.
// Both are independent of the rest of gatherContextViolations, so they join
// on an errgroup rather than running in sequence.
func checkContracts(
	ctx context.Context,
	provider entrypoint.Provider,
	settings Settings,
	vctx *ValidationContext,
	expectedCodeHash *common.Hash,
) (common.Hash, *entrypoint.AggregatorSimOut, []SimulationViolation, error) {
	ctx, span := o11y.Tracer().Start(ctx, "checkContracts")
	defer span.End()

	var codeHash common.Hash
	var aggResult entrypoint.AggregatorOut

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		hash, err := provider.GetCodeHash(gctx, vctx.TracerOut.AccessedContractAddresses, vctx.BlockHash)
		if err != nil {
			return err
		}
		codeHash = hash
		return nil
	})
	g.Go(func() error {
		aggAddr := vctx.aggregatorAddress()
		if aggAddr == nil {
			aggResult = entrypoint.AggregatorOut{Kind: entrypoint.AggregatorNotNeeded}
			return nil
		}
		out, err := provider.ValidateUserOpSignature(gctx, *aggAddr, vctx.Op, settings.MaxVerificationGas)
		if err != nil {
			return err
		}
		aggResult = out
		return nil
	})
	if err := g.Wait(); err != nil {
		return common.Hash{}, nil, nil, err
	}

	var violations []SimulationViolation
	if expectedCodeHash != nil && *expectedCodeHash != codeHash {
		violations = append(violations, CodeHashChanged{})
	}

	var aggOut *entrypoint.AggregatorSimOut
	switch aggResult.Kind {
	case entrypoint.AggregatorReverted:
		violations = append(violations, AggregatorValidationFailed{})
	case entrypoint.AggregatorSuccess:
		aggOut = aggResult.Info
	}

	return codeHash, aggOut, violations, nil
}
