package main

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"os"

	"github.com/ethereum/go-ethereum/common"

	"github.com/quantum-warriors/uservalidator/pkg/entrypoint"
	"github.com/quantum-warriors/uservalidator/pkg/tracer"
	"github.com/quantum-warriors/uservalidator/pkg/userop"
)

// fixture is the on-disk JSON shape cmd/simulate reads: a UserOperation plus
// the canned tracer/provider responses simulateValidation would have
// produced against a live chain. It exists only to exercise pkg/simulation
// end-to-end without a live EVM provider, the way the teacher's
// scripts/fetchwallet/main.go exercises pkg/signer against a throwaway key
// instead of a production wallet.
type fixture struct {
	UserOp struct {
		Sender               string `json:"sender"`
		Nonce                string `json:"nonce"`
		InitCode             string `json:"initCode"`
		CallData             string `json:"callData"`
		CallGasLimit         string `json:"callGasLimit"`
		VerificationGasLimit string `json:"verificationGasLimit"`
		PreVerificationGas   string `json:"preVerificationGas"`
		MaxFeePerGas         string `json:"maxFeePerGas"`
		MaxPriorityFeePerGas string `json:"maxPriorityFeePerGas"`
		PaymasterAndData     string `json:"paymasterAndData"`
		Signature            string `json:"signature"`
	} `json:"userOp"`

	BlockHash    string `json:"blockHash"`
	CodeHash     string `json:"codeHash"`
	RevertData   string `json:"revertData"`
	Phases       []struct {
		ForbiddenOpcodesUsed         []string `json:"forbiddenOpcodesUsed"`
		ForbiddenPrecompilesUsed     []string `json:"forbiddenPrecompilesUsed"`
		CalledNonEntryPointWithValue bool     `json:"calledNonEntryPointWithValue"`
		CalledBannedEntryPointMethod bool     `json:"calledBannedEntryPointMethod"`
		RanOutOfGas                  bool     `json:"ranOutOfGas"`
	} `json:"phases"`
	FactoryCalledCreate2Twice bool `json:"factoryCalledCreate2Twice"`
}

func loadFixture(path string) (*fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}
	var f fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture: %w", err)
	}
	return &f, nil
}

func hexToBig(s string) *big.Int {
	if s == "" {
		return big.NewInt(0)
	}
	n := new(big.Int)
	n.SetString(s, 0)
	return n
}

func hexToBytes(s string) []byte {
	if s == "" {
		return nil
	}
	return common.FromHex(s)
}

func (f *fixture) toUserOp() userop.UserOperation {
	return userop.UserOperation{
		Sender:               common.HexToAddress(f.UserOp.Sender),
		Nonce:                hexToBig(f.UserOp.Nonce),
		InitCode:             hexToBytes(f.UserOp.InitCode),
		CallData:             hexToBytes(f.UserOp.CallData),
		CallGasLimit:         hexToBig(f.UserOp.CallGasLimit),
		VerificationGasLimit: hexToBig(f.UserOp.VerificationGasLimit),
		PreVerificationGas:   hexToBig(f.UserOp.PreVerificationGas),
		MaxFeePerGas:         hexToBig(f.UserOp.MaxFeePerGas),
		MaxPriorityFeePerGas: hexToBig(f.UserOp.MaxPriorityFeePerGas),
		PaymasterAndData:     hexToBytes(f.UserOp.PaymasterAndData),
		Signature:            hexToBytes(f.UserOp.Signature),
	}
}

func (f *fixture) toTracerOutput() *tracer.SimulationTracerOutput {
	phases := make([]tracer.Phase, len(f.Phases))
	for i, p := range f.Phases {
		phases[i] = tracer.Phase{
			ForbiddenOpcodesUsed:         p.ForbiddenOpcodesUsed,
			ForbiddenPrecompilesUsed:     p.ForbiddenPrecompilesUsed,
			CalledNonEntryPointWithValue: p.CalledNonEntryPointWithValue,
			CalledBannedEntryPointMethod: p.CalledBannedEntryPointMethod,
			RanOutOfGas:                  p.RanOutOfGas,
		}
	}
	return &tracer.SimulationTracerOutput{
		Phases:                    phases,
		RevertData:                f.RevertData,
		AssociatedSlotsByAddress:  tracer.AssociatedSlotsByAddress{},
		FactoryCalledCreate2Twice: f.FactoryCalledCreate2Twice,
		ExpectedStorage:           tracer.ExpectedStorage{},
	}
}

// staticProvider replays canned responses instead of calling a live chain.
type staticProvider struct {
	blockHash common.Hash
	codeHash  common.Hash
}

func (p *staticProvider) GetLatestBlockHash(ctx context.Context) (common.Hash, error) {
	return p.blockHash, nil
}

func (p *staticProvider) GetCodeHash(ctx context.Context, addresses []common.Address, blockHash common.Hash) (common.Hash, error) {
	return p.codeHash, nil
}

func (p *staticProvider) ValidateUserOpSignature(ctx context.Context, aggregator common.Address, op userop.UserOperation, gasCap uint64) (entrypoint.AggregatorOut, error) {
	return entrypoint.AggregatorOut{Kind: entrypoint.AggregatorNotNeeded}, nil
}

// staticTracer replays a single canned trace.
type staticTracer struct {
	out *tracer.SimulationTracerOutput
}

func (t *staticTracer) TraceSimulateValidation(ctx context.Context, op userop.UserOperation, blockHash common.Hash, gasCap uint64) (*tracer.SimulationTracerOutput, error) {
	return t.out, nil
}
