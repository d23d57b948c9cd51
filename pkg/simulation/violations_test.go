package simulation

import (
	"testing"
)

// TestSortViolationsOrder shuffles one violation of every variant rank and
// checks sortViolations restores declaration order, the same total order the
// canonical violation enum's derived Ord gives it.
func TestSortViolationsOrder(t *testing.T) {
	shuffled := []SimulationViolation{
		AggregatorValidationFailed{},
		InvalidSignature{},
		OutOfGas{},
		UsedForbiddenOpcode{},
		WrongNumberOfPhases{},
		UsedForbiddenPrecompile{},
		DidNotRevert{},
		AccessedUndeployedContract{},
		UnintendedRevert{},
		FactoryCalledCreate2Twice{},
		NotStaked{},
		InvalidStorageAccess{},
		CodeHashChanged{},
		CalledBannedEntryPointMethod{},
		CallHadValue{},
		UnintendedRevertWithMessage{},
	}

	sortViolations(shuffled)

	want := []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15}
	for i, v := range shuffled {
		if v.violationRank() != want[i] {
			t.Fatalf("position %d: got rank %d, want %d", i, v.violationRank(), want[i])
		}
	}
}

func TestSortViolationsStableWithinRank(t *testing.T) {
	a := UsedForbiddenOpcode{Contract: [20]byte{1}}
	b := UsedForbiddenOpcode{Contract: [20]byte{2}}
	vs := []SimulationViolation{a, b}
	sortViolations(vs)
	if vs[0] != SimulationViolation(a) || vs[1] != SimulationViolation(b) {
		t.Fatalf("stable sort reordered same-rank violations: %+v", vs)
	}
}

func TestAllowlistKeysAreStableVariantNames(t *testing.T) {
	cases := map[SimulationViolation]string{
		InvalidSignature{}:            "InvalidSignature",
		NotStaked{}:                   "NotStaked",
		CallHadValue{}:                "CallHadValue",
		AggregatorValidationFailed{}:  "AggregatorValidationFailed",
	}
	for violation, want := range cases {
		if got := violation.AllowlistKey(); got != want {
			t.Fatalf("got AllowlistKey %q, want %q", got, want)
		}
	}
}
