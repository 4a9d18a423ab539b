// Package strategy implements the broken wing butterfly screening core:
// eligibility thresholds, payoff math and the strike-triple search.
package strategy

// Default eligibility thresholds. A short-dated, slightly out-of-the-money
// short strike with a real credit is the baseline screen.
const (
	DefaultMinDTE    = 1
	DefaultMaxDTE    = 10
	DefaultMinDelta  = 0.20
	DefaultMaxDelta  = 0.35
	DefaultMinCredit = 0.50
)

// Policy holds the five eligibility thresholds for BWB candidates. It is a
// pure value object: immutable once constructed, no side effects, safe to
// share across concurrent searches. Construction-time consistency
// (MinDTE <= MaxDTE etc.) is the caller's contract and is enforced at the
// configuration boundary, not here.
type Policy struct {
	MinDTE    int
	MaxDTE    int
	MinDelta  float64
	MaxDelta  float64
	MinCredit float64
}

// DefaultPolicy returns a Policy populated with the default thresholds.
func DefaultPolicy() Policy {
	return Policy{
		MinDTE:    DefaultMinDTE,
		MaxDTE:    DefaultMaxDTE,
		MinDelta:  DefaultMinDelta,
		MaxDelta:  DefaultMaxDelta,
		MinCredit: DefaultMinCredit,
	}
}

// AcceptsDTE reports whether dte falls within [MinDTE, MaxDTE], inclusive
// on both ends.
func (p Policy) AcceptsDTE(dte int) bool {
	return dte >= p.MinDTE && dte <= p.MaxDTE
}

// AcceptsDelta reports whether delta falls within [MinDelta, MaxDelta],
// inclusive. Only the short (middle) strike's delta is gated; the long legs
// are not delta-filtered.
func (p Policy) AcceptsDelta(delta float64) bool {
	return delta >= p.MinDelta && delta <= p.MaxDelta
}

// AcceptsAsymmetry reports whether the wings of the (k1, k2, k3) triple are
// unequal. Equal wings form a plain butterfly, which is rejected outright.
// Exact comparison is intentional: listed strike ladders use fixed increments
// where the widths are exactly representable.
func (p Policy) AcceptsAsymmetry(k1, k2, k3 float64) bool {
	return (k2 - k1) != (k3 - k2)
}

// AcceptsCredit reports whether credit meets the minimum requirement.
// MinCredit may be negative to permit debit positions.
func (p Policy) AcceptsCredit(credit float64) bool {
	return credit >= p.MinCredit
}
