package strategy

import "testing"

func TestDefaultPolicy(t *testing.T) {
	p := DefaultPolicy()
	if p.MinDTE != 1 || p.MaxDTE != 10 {
		t.Errorf("unexpected DTE defaults: [%d,%d]", p.MinDTE, p.MaxDTE)
	}
	if p.MinDelta != 0.20 || p.MaxDelta != 0.35 {
		t.Errorf("unexpected delta defaults: [%v,%v]", p.MinDelta, p.MaxDelta)
	}
	if p.MinCredit != 0.50 {
		t.Errorf("unexpected min credit default: %v", p.MinCredit)
	}
}

func TestAcceptsDTE_Boundaries(t *testing.T) {
	p := Policy{MinDTE: 3, MaxDTE: 9}

	tests := []struct {
		name string
		dte  int
		want bool
	}{
		{"at lower bound", 3, true},
		{"at upper bound", 9, true},
		{"below lower bound", 2, false},
		{"above upper bound", 10, false},
		{"inside range", 5, true},
		{"zero", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.AcceptsDTE(tt.dte); got != tt.want {
				t.Errorf("AcceptsDTE(%d) = %v, want %v", tt.dte, got, tt.want)
			}
		})
	}
}

func TestAcceptsDelta(t *testing.T) {
	p := DefaultPolicy()

	tests := []struct {
		name  string
		delta float64
		want  bool
	}{
		{"at lower bound", 0.20, true},
		{"at upper bound", 0.35, true},
		{"just below", 0.1999, false},
		{"just above", 0.3501, false},
		{"mid range", 0.28, true},
		{"deep in the money", 0.90, false},
		{"far out of the money", 0.02, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.AcceptsDelta(tt.delta); got != tt.want {
				t.Errorf("AcceptsDelta(%v) = %v, want %v", tt.delta, got, tt.want)
			}
		})
	}
}

func TestAcceptsAsymmetry(t *testing.T) {
	p := DefaultPolicy()

	tests := []struct {
		name       string
		k1, k2, k3 float64
		want       bool
	}{
		{"right wing wider", 440, 445, 455, true},
		{"left wing wider", 440, 450, 455, true},
		{"symmetric", 440, 445, 450, false},
		{"symmetric wide", 100, 110, 120, false},
		{"half-point ladder asymmetric", 100, 100.5, 102, true},
		{"half-point ladder symmetric", 100, 101.5, 103, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.AcceptsAsymmetry(tt.k1, tt.k2, tt.k3); got != tt.want {
				t.Errorf("AcceptsAsymmetry(%v, %v, %v) = %v, want %v",
					tt.k1, tt.k2, tt.k3, got, tt.want)
			}
		})
	}
}

func TestAcceptsCredit(t *testing.T) {
	tests := []struct {
		name      string
		minCredit float64
		credit    float64
		want      bool
	}{
		{"meets minimum exactly", 0.50, 0.50, true},
		{"above minimum", 0.50, 1.25, true},
		{"below minimum", 0.50, 0.49, false},
		{"negative minimum permits debit", -1.00, -0.75, true},
		{"negative minimum still bounds", -1.00, -1.50, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Policy{MinCredit: tt.minCredit}
			if got := p.AcceptsCredit(tt.credit); got != tt.want {
				t.Errorf("AcceptsCredit(%v) with min %v = %v, want %v",
					tt.credit, tt.minCredit, got, tt.want)
			}
		})
	}
}
