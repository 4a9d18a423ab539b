package strategy

import (
	"sort"

	"github.com/openquant/bwb-scanner/internal/models"
	"github.com/openquant/bwb-scanner/internal/util"
)

// Search enumerates strike triples of a single-expiry, calls-only chain and
// collects every candidate that survives the eligibility gates. It holds only
// an immutable Policy, so a single Search is safe for concurrent use.
type Search struct {
	policy Policy
}

// NewSearch creates a Search evaluating candidates against the given policy.
func NewSearch(policy Policy) *Search {
	return &Search{policy: policy}
}

// FindAll returns every eligible BWB position in the chain, in
// triple-enumeration order (K1 ascending, then K2, then K3). The chain must
// already be filtered to a single ticker, single expiry and calls only.
// Chains with fewer than three distinct strikes yield an empty, non-nil
// slice. On duplicate strikes the first row seen wins.
func (s *Search) FindAll(chain []models.Contract) []models.BWBPosition {
	index, strikes := buildStrikeIndex(chain)

	positions := make([]models.BWBPosition, 0)
	for i := 0; i < len(strikes); i++ {
		for j := i + 1; j < len(strikes); j++ {
			// The short leg alone decides the DTE and delta gates, so
			// qualify it once before walking the K3 candidates.
			short, ok := index[strikes[j]]
			if !ok {
				continue
			}
			if !s.policy.AcceptsDTE(short.DTE) || !s.policy.AcceptsDelta(short.Delta) {
				continue
			}
			for k := j + 1; k < len(strikes); k++ {
				pos, ok := s.build(index, strikes[i], strikes[j], strikes[k])
				if !ok {
					continue
				}
				positions = append(positions, pos)
			}
		}
	}
	return positions
}

// build assembles and validates a single candidate. The returned bool is
// false when any strike is missing from the index or any eligibility gate
// rejects the triple.
func (s *Search) build(index map[float64]*models.Contract, k1, k2, k3 float64) (models.BWBPosition, bool) {
	long1, ok1 := index[k1]
	short, ok2 := index[k2]
	long2, ok3 := index[k3]
	if !ok1 || !ok2 || !ok3 {
		return models.BWBPosition{}, false
	}

	if !s.policy.AcceptsDTE(short.DTE) {
		return models.BWBPosition{}, false
	}
	if !s.policy.AcceptsDelta(short.Delta) {
		return models.BWBPosition{}, false
	}
	if !s.policy.AcceptsAsymmetry(k1, k2, k3) {
		return models.BWBPosition{}, false
	}

	credit := Credit(long1.Ask, short.Bid, long2.Ask)
	if !s.policy.AcceptsCredit(credit) {
		return models.BWBPosition{}, false
	}

	wingLeft := k2 - k1
	wingRight := k3 - k2

	// Full precision through the chained calls; round only at emission.
	maxProfit := MaxProfit(credit, wingLeft)
	maxLoss := MaxLoss(wingLeft, wingRight, credit)
	score := Score(maxProfit, maxLoss)

	return models.BWBPosition{
		Ticker:    short.Symbol,
		Expiry:    short.Expiry,
		DTE:       short.DTE,
		K1:        k1,
		K2:        k2,
		K3:        k3,
		WingLeft:  wingLeft,
		WingRight: wingRight,
		Credit:    util.Round2(credit),
		MaxProfit: util.Round2(maxProfit),
		MaxLoss:   util.Round2(maxLoss),
		Score:     util.Round4(score),
	}, true
}

// buildStrikeIndex maps each distinct strike to its first contract row and
// returns the strictly increasing strike ladder. Building the index once per
// search keeps per-triple work constant.
func buildStrikeIndex(chain []models.Contract) (map[float64]*models.Contract, []float64) {
	index := make(map[float64]*models.Contract, len(chain))
	strikes := make([]float64, 0, len(chain))
	for i := range chain {
		c := &chain[i]
		if _, seen := index[c.Strike]; seen {
			continue
		}
		index[c.Strike] = c
		strikes = append(strikes, c.Strike)
	}
	sort.Float64s(strikes)
	return index, strikes
}
