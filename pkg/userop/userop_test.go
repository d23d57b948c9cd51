package userop

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
)

func TestFactoryNilWhenInitCodeEmpty(t *testing.T) {
	op := UserOperation{}
	if got := op.Factory(); got != nil {
		t.Fatalf("Factory() = %v, want nil", got)
	}
}

func TestFactoryReadsAddressPrefix(t *testing.T) {
	addr := common.HexToAddress("0x1111111111111111111111111111111111111111")
	op := UserOperation{InitCode: append(addr.Bytes(), 0xde, 0xad, 0xbe, 0xef)}

	got := op.Factory()
	if got == nil || *got != addr {
		t.Fatalf("Factory() = %v, want %v", got, addr)
	}
}

func TestFactoryNilWhenInitCodeShorterThanAddress(t *testing.T) {
	op := UserOperation{InitCode: []byte{1, 2, 3}}
	if got := op.Factory(); got != nil {
		t.Fatalf("Factory() = %v, want nil", got)
	}
}

func TestPaymasterReadsAddressPrefix(t *testing.T) {
	addr := common.HexToAddress("0x2222222222222222222222222222222222222222")
	op := UserOperation{PaymasterAndData: append(addr.Bytes(), 0x01)}

	got := op.Paymaster()
	if got == nil || *got != addr {
		t.Fatalf("Paymaster() = %v, want %v", got, addr)
	}
}

func TestPaymasterNilWhenPaymasterAndDataEmpty(t *testing.T) {
	op := UserOperation{}
	if got := op.Paymaster(); got != nil {
		t.Fatalf("Paymaster() = %v, want nil", got)
	}
}
