package simulation

import (
	"context"
	"math/big"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/quantum-warriors/uservalidator/pkg/entrypoint"
	"github.com/quantum-warriors/uservalidator/pkg/tracer"
	"github.com/quantum-warriors/uservalidator/pkg/userop"
)

// The ABI below mirrors pkg/entrypoint's embedded one. Test fixtures encode
// revert payloads independently from the package under test, the way the
// canonical simulator's own test suite builds its JSON tracer fixture by
// hand rather than reusing production encoding helpers.
const testEntryPointErrorsABI = `[
	{"type":"error","name":"FailedOp","inputs":[
		{"name":"opIndex","type":"uint256"},{"name":"reason","type":"string"}
	]},
	{"type":"error","name":"ValidationResult","inputs":[
		{"name":"returnInfo","type":"tuple","components":[
			{"name":"preOpGas","type":"uint256"},{"name":"prefund","type":"uint256"},
			{"name":"sigFailed","type":"bool"},{"name":"validAfter","type":"uint48"},
			{"name":"validUntil","type":"uint48"},{"name":"paymasterContext","type":"bytes"}
		]},
		{"name":"senderInfo","type":"tuple","components":[
			{"name":"stake","type":"uint256"},{"name":"unstakeDelaySec","type":"uint256"}
		]},
		{"name":"factoryInfo","type":"tuple","components":[
			{"name":"stake","type":"uint256"},{"name":"unstakeDelaySec","type":"uint256"}
		]},
		{"name":"paymasterInfo","type":"tuple","components":[
			{"name":"stake","type":"uint256"},{"name":"unstakeDelaySec","type":"uint256"}
		]}
	]}
]`

func testFixtureABI(t *testing.T) abi.ABI {
	t.Helper()
	parsed, err := abi.JSON(strings.NewReader(testEntryPointErrorsABI))
	if err != nil {
		t.Fatalf("parse fixture ABI: %v", err)
	}
	return parsed
}

type fixtureStake struct {
	Stake           *big.Int
	UnstakeDelaySec *big.Int
}

type fixtureReturnInfo struct {
	PreOpGas         *big.Int
	Prefund          *big.Int
	SigFailed        bool
	ValidAfter       *big.Int
	ValidUntil       *big.Int
	PaymasterContext []byte
}

func encodeValidationResult(t *testing.T, returnInfo fixtureReturnInfo, sender, factory, paymaster fixtureStake) string {
	t.Helper()
	// The abi packer cannot encode a nil *big.Int; unset fields encode as 0.
	for _, n := range []**big.Int{&returnInfo.PreOpGas, &returnInfo.Prefund, &returnInfo.ValidAfter, &returnInfo.ValidUntil} {
		if *n == nil {
			*n = new(big.Int)
		}
	}
	parsed := testFixtureABI(t)
	method := parsed.Errors["ValidationResult"]
	packed, err := method.Inputs.Pack(returnInfo, sender, factory, paymaster)
	if err != nil {
		t.Fatalf("pack ValidationResult: %v", err)
	}
	data := append(append([]byte{}, method.ID[:4]...), packed...)
	return hexutil.Encode(data)
}

func encodeFailedOp(t *testing.T, opIndex int64, reason string) string {
	t.Helper()
	parsed := testFixtureABI(t)
	method := parsed.Errors["FailedOp"]
	packed, err := method.Inputs.Pack(big.NewInt(opIndex), reason)
	if err != nil {
		t.Fatalf("pack FailedOp: %v", err)
	}
	data := append(append([]byte{}, method.ID[:4]...), packed...)
	return hexutil.Encode(data)
}

func stakedFixture() fixtureStake {
	settings := DefaultSettings()
	return fixtureStake{Stake: settings.MinStakeValue, UnstakeDelaySec: big.NewInt(int64(settings.MinUnstakeDelay))}
}

func unstakedFixture() fixtureStake {
	return fixtureStake{Stake: big.NewInt(0), UnstakeDelaySec: big.NewInt(0)}
}

func testUserOp(sender common.Address) userop.UserOperation {
	return userop.UserOperation{
		Sender:               sender,
		Nonce:                big.NewInt(0),
		CallData:             []byte{},
		CallGasLimit:         big.NewInt(100000),
		VerificationGasLimit: big.NewInt(100000),
		PreVerificationGas:   big.NewInt(21000),
		MaxFeePerGas:         big.NewInt(1_000_000_000),
		MaxPriorityFeePerGas: big.NewInt(1_000_000_000),
		Signature:            []byte{1, 2, 3},
	}
}

type fakeProvider struct {
	blockHash common.Hash
	codeHash  common.Hash
	aggOut    entrypoint.AggregatorOut
}

func (f *fakeProvider) GetLatestBlockHash(ctx context.Context) (common.Hash, error) {
	return f.blockHash, nil
}

func (f *fakeProvider) GetCodeHash(ctx context.Context, addresses []common.Address, blockHash common.Hash) (common.Hash, error) {
	return f.codeHash, nil
}

func (f *fakeProvider) ValidateUserOpSignature(ctx context.Context, aggregator common.Address, op userop.UserOperation, gasCap uint64) (entrypoint.AggregatorOut, error) {
	return f.aggOut, nil
}

type fakeEntryPoint struct {
	addr common.Address
}

func (f fakeEntryPoint) Address() common.Address { return f.addr }

type fakeTracer struct {
	out *tracer.SimulationTracerOutput
}

func (f *fakeTracer) TraceSimulateValidation(ctx context.Context, op userop.UserOperation, blockHash common.Hash, gasCap uint64) (*tracer.SimulationTracerOutput, error) {
	return f.out, nil
}
