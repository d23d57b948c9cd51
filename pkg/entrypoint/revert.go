package entrypoint

import (
	"bytes"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// entryPointErrorsABI is the slice of the IEntryPoint ABI this package cares
// about: the two shapes simulateValidation can revert with. Declared as raw
// JSON and parsed once, the same way abigen-generated bindings expose a
// contract's ABI, rather than hand-assembling abi.Type values.
const entryPointErrorsABI = `[
	{
		"type": "error",
		"name": "FailedOp",
		"inputs": [
			{"name": "opIndex", "type": "uint256"},
			{"name": "reason", "type": "string"}
		]
	},
	{
		"type": "error",
		"name": "ValidationResult",
		"inputs": [
			{"name": "returnInfo", "type": "tuple", "components": [
				{"name": "preOpGas", "type": "uint256"},
				{"name": "prefund", "type": "uint256"},
				{"name": "sigFailed", "type": "bool"},
				{"name": "validAfter", "type": "uint48"},
				{"name": "validUntil", "type": "uint48"},
				{"name": "paymasterContext", "type": "bytes"}
			]},
			{"name": "senderInfo", "type": "tuple", "components": [
				{"name": "stake", "type": "uint256"},
				{"name": "unstakeDelaySec", "type": "uint256"}
			]},
			{"name": "factoryInfo", "type": "tuple", "components": [
				{"name": "stake", "type": "uint256"},
				{"name": "unstakeDelaySec", "type": "uint256"}
			]},
			{"name": "paymasterInfo", "type": "tuple", "components": [
				{"name": "stake", "type": "uint256"},
				{"name": "unstakeDelaySec", "type": "uint256"}
			]}
		]
	},
	{
		"type": "error",
		"name": "ValidationResultWithAggregation",
		"inputs": [
			{"name": "returnInfo", "type": "tuple", "components": [
				{"name": "preOpGas", "type": "uint256"},
				{"name": "prefund", "type": "uint256"},
				{"name": "sigFailed", "type": "bool"},
				{"name": "validAfter", "type": "uint48"},
				{"name": "validUntil", "type": "uint48"},
				{"name": "paymasterContext", "type": "bytes"}
			]},
			{"name": "senderInfo", "type": "tuple", "components": [
				{"name": "stake", "type": "uint256"},
				{"name": "unstakeDelaySec", "type": "uint256"}
			]},
			{"name": "factoryInfo", "type": "tuple", "components": [
				{"name": "stake", "type": "uint256"},
				{"name": "unstakeDelaySec", "type": "uint256"}
			]},
			{"name": "paymasterInfo", "type": "tuple", "components": [
				{"name": "stake", "type": "uint256"},
				{"name": "unstakeDelaySec", "type": "uint256"}
			]},
			{"name": "aggregatorInfo", "type": "tuple", "components": [
				{"name": "aggregator", "type": "address"},
				{"name": "stakeInfo", "type": "tuple", "components": [
					{"name": "stake", "type": "uint256"},
					{"name": "unstakeDelaySec", "type": "uint256"}
				]}
			]}
		]
	}
]`

var entryPointErrors abi.ABI

func init() {
	parsed, err := abi.JSON(strings.NewReader(entryPointErrorsABI))
	if err != nil {
		panic(fmt.Errorf("entrypoint: invalid embedded ABI: %w", err))
	}
	entryPointErrors = parsed
}

// rawStakeInfo mirrors the (stake, unstakeDelaySec) ABI tuple field-for-field
// so abi.Arguments.UnpackIntoInterface can assign the decoded tuple directly.
type rawStakeInfo struct {
	Stake           *big.Int
	UnstakeDelaySec *big.Int
}

func (r rawStakeInfo) toStakeInfo() StakeInfo {
	return StakeInfo{Stake: r.Stake, UnstakeDelaySec: r.UnstakeDelaySec}
}

// rawReturnInfo holds validAfter/validUntil as *big.Int because the abi
// package decodes uint48 into *big.Int, not uint64.
type rawReturnInfo struct {
	PreOpGas         *big.Int
	Prefund          *big.Int
	SigFailed        bool
	ValidAfter       *big.Int
	ValidUntil       *big.Int
	PaymasterContext []byte
}

func (r rawReturnInfo) toReturnInfo() ValidationReturnInfo {
	return ValidationReturnInfo{
		PreOpGas:         r.PreOpGas,
		Prefund:          r.Prefund,
		SigFailed:        r.SigFailed,
		ValidAfter:       r.ValidAfter.Uint64(),
		ValidUntil:       r.ValidUntil.Uint64(),
		PaymasterContext: r.PaymasterContext,
	}
}

type rawAggregatorInfo struct {
	Aggregator common.Address
	StakeInfo  rawStakeInfo
}

type rawValidationResult struct {
	ReturnInfo    rawReturnInfo
	SenderInfo    rawStakeInfo
	FactoryInfo   rawStakeInfo
	PaymasterInfo rawStakeInfo
}

type rawValidationResultWithAggregation struct {
	ReturnInfo     rawReturnInfo
	SenderInfo     rawStakeInfo
	FactoryInfo    rawStakeInfo
	PaymasterInfo  rawStakeInfo
	AggregatorInfo rawAggregatorInfo
}

// decodeRevertData decodes the tracer's hex-encoded revert data into raw
// bytes; the string must carry a "0x" prefix.
func decodeRevertData(data string) ([]byte, error) {
	return hexutil.Decode(data)
}

// NewFailedOp attempts to decode revertData as FailedOp(uint256,string). It
// returns an error if the data's selector does not match.
func NewFailedOp(revertData string) (*FailedOp, error) {
	raw, err := decodeRevertData(revertData)
	if err != nil {
		return nil, err
	}
	if !matchesSelector(raw, "FailedOp") {
		return nil, fmt.Errorf("entrypoint: revert data is not FailedOp")
	}
	vals, err := entryPointErrors.Errors["FailedOp"].Inputs.Unpack(raw[4:])
	if err != nil {
		return nil, err
	}
	return &FailedOp{
		OpIndex: vals[0].(*big.Int),
		Reason:  vals[1].(string),
	}, nil
}

// NewValidationOutput attempts to decode revertData as either
// ValidationResult or ValidationResultWithAggregation.
func NewValidationOutput(revertData string) (*ValidationOutput, error) {
	raw, err := decodeRevertData(revertData)
	if err != nil {
		return nil, err
	}

	if matchesSelector(raw, "ValidationResultWithAggregation") {
		return decodeValidationResultWithAggregation(raw[4:])
	}
	if matchesSelector(raw, "ValidationResult") {
		return decodeValidationResult(raw[4:])
	}
	return nil, fmt.Errorf("entrypoint: revert data does not decode as a validation result")
}

func matchesSelector(raw []byte, errName string) bool {
	if len(raw) < 4 {
		return false
	}
	return bytes.Equal(raw[:4], entryPointErrors.Errors[errName].ID[:4])
}

func decodeValidationResult(packed []byte) (*ValidationOutput, error) {
	var raw rawValidationResult
	if err := entryPointErrors.Errors["ValidationResult"].Inputs.UnpackIntoInterface(&raw, packed); err != nil {
		return nil, err
	}
	return &ValidationOutput{
		ReturnInfo:    raw.ReturnInfo.toReturnInfo(),
		SenderInfo:    raw.SenderInfo.toStakeInfo(),
		FactoryInfo:   raw.FactoryInfo.toStakeInfo(),
		PaymasterInfo: raw.PaymasterInfo.toStakeInfo(),
	}, nil
}

func decodeValidationResultWithAggregation(packed []byte) (*ValidationOutput, error) {
	var raw rawValidationResultWithAggregation
	if err := entryPointErrors.Errors["ValidationResultWithAggregation"].Inputs.UnpackIntoInterface(&raw, packed); err != nil {
		return nil, err
	}
	return &ValidationOutput{
		ReturnInfo:    raw.ReturnInfo.toReturnInfo(),
		SenderInfo:    raw.SenderInfo.toStakeInfo(),
		FactoryInfo:   raw.FactoryInfo.toStakeInfo(),
		PaymasterInfo: raw.PaymasterInfo.toStakeInfo(),
		AggregatorInfo: &AggregatorInfo{
			Address:   raw.AggregatorInfo.Aggregator,
			StakeInfo: raw.AggregatorInfo.StakeInfo.toStakeInfo(),
		},
	}, nil
}
