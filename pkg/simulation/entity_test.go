package simulation

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"github.com/quantum-warriors/uservalidator/pkg/entrypoint"
)

func TestIsStakedRequiresBothStakeAndDelay(t *testing.T) {
	settings := DefaultSettings()

	cases := []struct {
		name string
		info entrypoint.StakeInfo
		want bool
	}{
		{"meets both", entrypoint.StakeInfo{Stake: settings.MinStakeValue, UnstakeDelaySec: big.NewInt(int64(settings.MinUnstakeDelay))}, true},
		{"low stake", entrypoint.StakeInfo{Stake: big.NewInt(1), UnstakeDelaySec: big.NewInt(int64(settings.MinUnstakeDelay))}, false},
		{"short delay", entrypoint.StakeInfo{Stake: settings.MinStakeValue, UnstakeDelaySec: big.NewInt(1)}, false},
		{"nil stake", entrypoint.StakeInfo{UnstakeDelaySec: big.NewInt(int64(settings.MinUnstakeDelay))}, false},
	}
	for _, c := range cases {
		if got := isStaked(c.info, settings); got != c.want {
			t.Errorf("%s: got %v, want %v", c.name, got, c.want)
		}
	}
}

func TestEntityInfosGet(t *testing.T) {
	sender := common.HexToAddress("0x1")
	paymaster := common.HexToAddress("0x3")
	infos := EntityInfos{
		Sender:    EntityInfo{Address: sender},
		Paymaster: &EntityInfo{Address: paymaster, IsStaked: true},
	}

	if infos.Factory != nil {
		t.Fatalf("got non-nil Factory, want nil")
	}
	if got := infos.Get(EntityTypeAccount); got == nil || got.Address != sender {
		t.Fatalf("got %v, want sender %v", got, sender)
	}
	if got := infos.Get(EntityTypePaymaster); got == nil || got.Address != paymaster || !got.IsStaked {
		t.Fatalf("got %v, want staked paymaster %v", got, paymaster)
	}
	if infos.SenderAddress() != sender {
		t.Fatalf("got SenderAddress %v, want %v", infos.SenderAddress(), sender)
	}
}
