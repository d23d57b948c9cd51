package mempool

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
)

type fakeViolation string

func (f fakeViolation) AllowlistKey() string { return string(f) }

func TestMatchNoViolations(t *testing.T) {
	id := common.HexToHash("0x1")
	dir := Directory{id: NewConfig(id, nil)}

	res := DefaultMatcher{}.Match(dir, nil)
	if res.Kind != MatchResultMatches {
		t.Fatalf("got kind %d, want MatchResultMatches", res.Kind)
	}
	if len(res.Mempools) != 1 || res.Mempools[0] != id {
		t.Fatalf("got mempools %v, want [%v]", res.Mempools, id)
	}
}

func TestMatchAllowlisted(t *testing.T) {
	id := common.HexToHash("0x1")
	dir := Directory{id: NewConfig(id, []string{"UsedForbiddenOpcode"})}

	res := DefaultMatcher{}.Match(dir, []Violation{fakeViolation("UsedForbiddenOpcode")})
	if res.Kind != MatchResultMatches {
		t.Fatalf("got kind %d, want MatchResultMatches", res.Kind)
	}
}

func TestMatchNoMatch(t *testing.T) {
	id := common.HexToHash("0x1")
	dir := Directory{id: NewConfig(id, []string{"CallHadValue"})}

	res := DefaultMatcher{}.Match(dir, []Violation{fakeViolation("UsedForbiddenOpcode")})
	if res.Kind != MatchResultNoMatch {
		t.Fatalf("got kind %d, want MatchResultNoMatch", res.Kind)
	}
	if res.Index != 0 {
		t.Fatalf("got index %d, want 0", res.Index)
	}
}

func TestMatchPartialCoverageAcrossMempools(t *testing.T) {
	idA := common.HexToHash("0x1")
	idB := common.HexToHash("0x2")
	dir := Directory{
		idA: NewConfig(idA, []string{"UsedForbiddenOpcode"}),
		idB: NewConfig(idB, []string{"CallHadValue"}),
	}

	// No single mempool covers both violations together.
	res := DefaultMatcher{}.Match(dir, []Violation{
		fakeViolation("UsedForbiddenOpcode"),
		fakeViolation("CallHadValue"),
	})
	if res.Kind != MatchResultNoMatch {
		t.Fatalf("got kind %d, want MatchResultNoMatch", res.Kind)
	}
}
