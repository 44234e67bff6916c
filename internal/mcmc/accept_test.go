package mcmc

import (
	"errors"
	"math"
	"testing"
)

// scriptedSource replays fixed variates and counts how many were drawn.
type scriptedSource struct {
	uniforms []float64
	normals  []float64
	uCalls   int
	nCalls   int
}

func (s *scriptedSource) Float64() float64 {
	v := s.uniforms[s.uCalls%len(s.uniforms)]
	s.uCalls++
	return v
}

func (s *scriptedSource) NormFloat64() float64 {
	v := s.normals[s.nCalls%len(s.normals)]
	s.nCalls++
	return v
}

type countingTarget struct {
	fn    func(State) float64
	calls int
}

func (c *countingTarget) Density(x State) (float64, error) {
	c.calls++
	return c.fn(x), nil
}

func TestRange_Validate(t *testing.T) {
	tests := []struct {
		name  string
		r     Range
		valid bool
	}{
		{"empty", Range{}, false},
		{"unit", Range{{0, 1}}, true},
		{"degenerate", Range{{2, 2}}, true},
		{"inverted", Range{{0, 1}, {3, -3}}, false},
		{"infinite", Range{{0, inf(1)}}, false},
		{"nan", Range{{nan(), 1}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.r.Validate()
			if tt.valid && err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
			if !tt.valid && !errors.Is(err, ErrInvalidRange) {
				t.Errorf("Validate() = %v, want ErrInvalidRange", err)
			}
		})
	}
}

func TestRange_Contains(t *testing.T) {
	r := Range{{-1, 1}, {0, 10}}

	tests := []struct {
		x    State
		want bool
	}{
		{State{0, 5}, true},
		{State{-1, 0}, true},
		{State{1, 5}, false},
		{State{0, 10}, false},
		{State{0, 10.5}, false},
		{State{-1.0001, 5}, false},
		{State{0}, false},
		{State{nan(), 5}, false},
	}

	for _, tt := range tests {
		if got := r.Contains(tt.x); got != tt.want {
			t.Errorf("Contains(%v) = %v, want %v", tt.x, got, tt.want)
		}
	}
}

func TestAccept_OutOfBoundsRejectsWithoutDraws(t *testing.T) {
	src := &scriptedSource{uniforms: []float64{0}}
	target := &countingTarget{fn: func(State) float64 { return 1 }}
	bounds := Range{{-10, 10}}

	for _, cand := range []State{{10}, {10.1}, {-10.5}} {
		next, ok, err := Accept(src, target, bounds, State{9.5}, cand)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ok || next[0] != 9.5 {
			t.Errorf("candidate %v: got (%v, %v), want rejection", cand, next, ok)
		}
	}
	if src.uCalls != 0 || target.calls != 0 {
		t.Errorf("out-of-bounds candidates drew %d uniforms and %d densities", src.uCalls, target.calls)
	}
}

func TestAccept_Rule(t *testing.T) {
	bounds := Range{{-10, 10}}
	densities := map[float64]float64{0: 1.0, 1: 0.5, 2: 0, 3: 1.0, 4: 0}
	target := DensityFunc(func(x State) float64 { return densities[x[0]] })

	tests := []struct {
		name       string
		current    float64
		candidate  float64
		u          float64
		wantAccept bool
		wantDraws  int
	}{
		{"uphill equal", 0, 3, 0.99, true, 0},
		{"downhill accepted", 0, 1, 0.49, true, 1},
		{"downhill rejected", 0, 1, 0.5, false, 1},
		{"zero candidate", 0, 2, 0.0, false, 1},
		{"zero current to positive", 2, 0, 0.99, true, 0},
		{"both zero", 2, 4, 0.0, false, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &scriptedSource{uniforms: []float64{tt.u}}
			next, ok, err := Accept(src, target, bounds, State{tt.current}, State{tt.candidate})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if ok != tt.wantAccept {
				t.Errorf("accepted = %v, want %v", ok, tt.wantAccept)
			}
			want := tt.current
			if tt.wantAccept {
				want = tt.candidate
			}
			if next[0] != want {
				t.Errorf("next = %v, want %v", next[0], want)
			}
			if src.uCalls != tt.wantDraws {
				t.Errorf("drew %d uniforms, want %d", src.uCalls, tt.wantDraws)
			}
		})
	}
}

type failingTarget struct{ err error }

func (f failingTarget) Density(State) (float64, error) { return 0, f.err }

func TestAccept_EvaluatorErrors(t *testing.T) {
	boom := errors.New("boom")
	bounds := Range{{-1, 1}}
	src := &scriptedSource{uniforms: []float64{0.5}}

	_, _, err := Accept(src, failingTarget{boom}, bounds, State{0}, State{0.5})
	if !errors.Is(err, boom) {
		t.Errorf("error = %v, want wrapped boom", err)
	}

	for _, bad := range []float64{-1, nan(), inf(1)} {
		v := bad
		target := DensityFunc(func(State) float64 { return v })
		_, _, err := Accept(src, target, bounds, State{0}, State{0.5})
		if !errors.Is(err, ErrInvalidDensity) {
			t.Errorf("density %v: error = %v, want ErrInvalidDensity", v, err)
		}
	}
}

type logTarget map[float64]float64

func (l logTarget) Density(x State) (float64, error)    { return math.Exp(l[x[0]]), nil }
func (l logTarget) LogDensity(x State) (float64, error) { return l[x[0]], nil }

func TestAccept_LogDensity(t *testing.T) {
	bounds := Range{{-10, 10}}
	// Every finite entry underflows to zero as a plain density.
	target := logTarget{0: -2000, 1: -2001, 2: inf(-1), 3: -1999, 4: inf(-1)}

	tests := []struct {
		name       string
		current    float64
		candidate  float64
		u          float64
		wantAccept bool
		wantDraws  int
	}{
		{"uphill", 0, 3, 0.99, true, 0},
		{"downhill accepted", 0, 1, 0.36, true, 1},
		{"downhill rejected", 0, 1, 0.37, false, 1},
		{"zero candidate", 0, 2, 0.0, false, 1},
		{"zero current to positive", 2, 0, 0.99, true, 0},
		{"both zero", 2, 4, 0.0, false, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &scriptedSource{uniforms: []float64{tt.u}}
			next, ok, err := Accept(src, target, bounds, State{tt.current}, State{tt.candidate})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if ok != tt.wantAccept {
				t.Errorf("accepted = %v, want %v", ok, tt.wantAccept)
			}
			want := tt.current
			if tt.wantAccept {
				want = tt.candidate
			}
			if next[0] != want {
				t.Errorf("next = %v, want %v", next[0], want)
			}
			if src.uCalls != tt.wantDraws {
				t.Errorf("drew %d uniforms, want %d", src.uCalls, tt.wantDraws)
			}
		})
	}

	for _, bad := range []float64{nan(), inf(1)} {
		src := &scriptedSource{uniforms: []float64{0.5}}
		_, _, err := Accept(src, logTarget{0: 0, 0.5: bad}, bounds, State{0}, State{0.5})
		if !errors.Is(err, ErrInvalidDensity) {
			t.Errorf("log density %v: error = %v, want ErrInvalidDensity", bad, err)
		}
	}
}

func TestGaussianProposal(t *testing.T) {
	src := &scriptedSource{normals: []float64{1, -2, 0.5}}
	p := NewGaussianProposal(0.5)

	x := State{1, 1, 1}
	got := p.Propose(src, x)
	want := State{1.5, 0, 1.25}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("component %d = %v, want %v", i, got[i], want[i])
		}
	}
	if x[0] != 1 || x[1] != 1 || x[2] != 1 {
		t.Error("Propose modified its input")
	}
	if src.nCalls != 3 {
		t.Errorf("drew %d normals, want 3", src.nCalls)
	}
}
