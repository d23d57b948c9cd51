package entrypoint

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/google/go-cmp/cmp"
)

func packError(t *testing.T, name string, args ...interface{}) string {
	t.Helper()
	method := entryPointErrors.Errors[name]
	packed, err := method.Inputs.Pack(args...)
	if err != nil {
		t.Fatalf("pack %s: %v", name, err)
	}
	return hexutil.Encode(append(append([]byte{}, method.ID[:4]...), packed...))
}

func TestNewFailedOp(t *testing.T) {
	data := packError(t, "FailedOp", big.NewInt(1), "AA23 reverted")

	fo, err := NewFailedOp(data)
	if err != nil {
		t.Fatalf("got err %v, want nil", err)
	}
	if fo.Reason != "AA23 reverted" {
		t.Fatalf("got reason %q, want %q", fo.Reason, "AA23 reverted")
	}
	if fo.OpIndex.Cmp(big.NewInt(1)) != 0 {
		t.Fatalf("got opIndex %s, want 1", fo.OpIndex)
	}
}

func TestNewValidationOutputRejectsFailedOp(t *testing.T) {
	data := packError(t, "FailedOp", big.NewInt(1), "x")
	if _, err := NewValidationOutput(data); err == nil {
		t.Fatal("got nil, want error decoding FailedOp data as a ValidationOutput")
	}
}

func TestNewValidationOutput(t *testing.T) {
	stake := struct {
		Stake           *big.Int
		UnstakeDelaySec *big.Int
	}{big.NewInt(1e18), big.NewInt(84600)}
	returnInfo := struct {
		PreOpGas         *big.Int
		Prefund          *big.Int
		SigFailed        bool
		ValidAfter       *big.Int
		ValidUntil       *big.Int
		PaymasterContext []byte
	}{big.NewInt(50000), big.NewInt(0), false, big.NewInt(0), big.NewInt(0), []byte{}}

	data := packError(t, "ValidationResult", returnInfo, stake, stake, stake)

	out, err := NewValidationOutput(data)
	if err != nil {
		t.Fatalf("got err %v, want nil", err)
	}
	if out.AggregatorInfo != nil {
		t.Fatalf("got aggregator info, want nil")
	}
	if diff := cmp.Diff(big.NewInt(50000), out.ReturnInfo.PreOpGas); diff != "" {
		t.Fatalf("PreOpGas mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(big.NewInt(1e18), out.SenderInfo.Stake); diff != "" {
		t.Fatalf("Stake mismatch (-want +got):\n%s", diff)
	}
}

func TestNewValidationOutputWithAggregation(t *testing.T) {
	stake := struct {
		Stake           *big.Int
		UnstakeDelaySec *big.Int
	}{big.NewInt(0), big.NewInt(0)}
	returnInfo := struct {
		PreOpGas         *big.Int
		Prefund          *big.Int
		SigFailed        bool
		ValidAfter       *big.Int
		ValidUntil       *big.Int
		PaymasterContext []byte
	}{big.NewInt(1), big.NewInt(0), false, big.NewInt(0), big.NewInt(0), []byte{}}
	aggInfo := struct {
		Aggregator common.Address
		StakeInfo  struct {
			Stake           *big.Int
			UnstakeDelaySec *big.Int
		}
	}{common.HexToAddress("0x1234567890123456789012345678901234567890"), stake}

	data := packError(t, "ValidationResultWithAggregation", returnInfo, stake, stake, stake, aggInfo)

	out, err := NewValidationOutput(data)
	if err != nil {
		t.Fatalf("got err %v, want nil", err)
	}
	if out.AggregatorInfo == nil {
		t.Fatal("got nil aggregator info, want non-nil")
	}
	if out.AggregatorInfo.Address != aggInfo.Aggregator {
		t.Fatalf("got aggregator %s, want %s", out.AggregatorInfo.Address, aggInfo.Aggregator)
	}
}
