package mempool

import "github.com/ethereum/go-ethereum/common"

// MatchResultKind tags the outcome of Match.
type MatchResultKind int

const (
	// MatchResultMatches means every violation is allowlisted by at least
	// one mempool; Mempools names which ones.
	MatchResultMatches MatchResultKind = iota
	// MatchResultNoMatch means violations[Index] is not allowlisted by any
	// configured mempool; the operation must be rejected with that
	// violation.
	MatchResultNoMatch
)

// MatchResult is the tagged result of Match.
type MatchResult struct {
	Kind     MatchResultKind
	Mempools []common.Hash // set when Kind == MatchResultMatches
	Index    int           // set when Kind == MatchResultNoMatch
}

// Matcher decides which configured mempools, if any, a sorted set of
// violations is admissible to.
type Matcher interface {
	Match(dir Directory, violations []Violation) MatchResult
}

// DefaultMatcher is the reference Matcher implementation: a mempool matches
// iff its allowlist covers every violation in the set.
type DefaultMatcher struct{}

// Match implements Matcher.
func (DefaultMatcher) Match(dir Directory, violations []Violation) MatchResult {
	if len(violations) == 0 {
		ids := make([]common.Hash, 0, len(dir))
		for id := range dir {
			ids = append(ids, id)
		}
		return MatchResult{Kind: MatchResultMatches, Mempools: ids}
	}

	var matches []common.Hash
	for id, cfg := range dir {
		ok := true
		for _, v := range violations {
			if !cfg.Allows(v) {
				ok = false
				break
			}
		}
		if ok {
			matches = append(matches, id)
		}
	}
	if len(matches) > 0 {
		return MatchResult{Kind: MatchResultMatches, Mempools: matches}
	}

	// No mempool admits the whole set. Report the first violation that no
	// mempool allowlists, so the caller's error message is deterministic and
	// matches violations' canonical sort order.
	for i, v := range violations {
		coveredSomewhere := false
		for _, cfg := range dir {
			if cfg.Allows(v) {
				coveredSomewhere = true
				break
			}
		}
		if !coveredSomewhere {
			return MatchResult{Kind: MatchResultNoMatch, Index: i}
		}
	}
	// Every individual violation is allowlisted by some mempool, but no
	// single mempool allowlists all of them together: blame the first one.
	return MatchResult{Kind: MatchResultNoMatch, Index: 0}
}
