// Package userop defines the ERC-4337 UserOperation message and the entity
// addresses derivable from it.
package userop

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// UserOperation is the ERC-4337 message sent by an account-abstraction wallet.
// The validation simulator reads only Sender, InitCode and PaymasterAndData;
// the other fields are carried through unchanged.
type UserOperation struct {
	Sender               common.Address
	Nonce                *big.Int
	InitCode             []byte
	CallData             []byte
	CallGasLimit         *big.Int
	VerificationGasLimit *big.Int
	PreVerificationGas   *big.Int
	MaxFeePerGas         *big.Int
	MaxPriorityFeePerGas *big.Int
	PaymasterAndData     []byte
	Signature            []byte
}

// Factory returns the address encoded in the first 20 bytes of InitCode, or
// nil if InitCode is empty. An empty byte string means "no factory", not the
// zero address.
func (op *UserOperation) Factory() *common.Address {
	return addressPrefix(op.InitCode)
}

// Paymaster returns the address encoded in the first 20 bytes of
// PaymasterAndData, or nil if PaymasterAndData is empty.
func (op *UserOperation) Paymaster() *common.Address {
	return addressPrefix(op.PaymasterAndData)
}

func addressPrefix(b []byte) *common.Address {
	if len(b) < common.AddressLength {
		return nil
	}
	addr := common.BytesToAddress(b[:common.AddressLength])
	return &addr
}
