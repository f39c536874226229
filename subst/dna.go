// Copyright ©2023 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package subst

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// Nucleotide state order is T, C, A, G, matching the parameter order of
// the frequency and rate arguments below.
const (
	nT = iota
	nC
	nA
	nG

	dnaStates
)

// NewDNA returns the per-class costs for the named nucleotide substitution
// model. Model parameters are, in order: K80 α β; HKY f_t f_c f_a f_g κ,
// or f_t f_c f_a f_g α β; TN93 f_t f_c f_a f_g α1 α2 β; GTR
// f_t f_c f_a f_g r_tc r_ta r_tg r_ca r_cg r_ag. JC69 takes no parameters.
func NewDNA(model string, params []float64, gm GapMultipliers, times []float64, zeroDiag bool, round Rounding) (*Costs, error) {
	q, err := dnaRateMatrix(model, params)
	if err != nil {
		return nil, err
	}
	return generate(q, times, gm, zeroDiag, round), nil
}

func dnaRateMatrix(model string, params []float64) (*mat.Dense, error) {
	uniform := [dnaStates]float64{0.25, 0.25, 0.25, 0.25}
	switch name := strings.ToUpper(model); name {
	case "JC69":
		if len(params) != 0 {
			return nil, fmt.Errorf("subst: model JC69 takes no parameters, got %d", len(params))
		}
		return gtrQ(uniform, [6]float64{1, 1, 1, 1, 1, 1})
	case "K80":
		if len(params) != 2 {
			return nil, fmt.Errorf("subst: model K80 takes 2 parameters, got %d", len(params))
		}
		a, b := params[0], params[1]
		return gtrQ(uniform, [6]float64{a, b, b, b, b, a})
	case "HKY":
		var a, b float64
		switch len(params) {
		case 5:
			a, b = params[4], 1
		case 6:
			a, b = params[4], params[5]
		default:
			return nil, fmt.Errorf("subst: model HKY takes 5 or 6 parameters, got %d", len(params))
		}
		f, err := freqs(params[:4])
		if err != nil {
			return nil, err
		}
		return gtrQ(f, [6]float64{a, b, b, b, b, a})
	case "TN93":
		if len(params) != 7 {
			return nil, fmt.Errorf("subst: model TN93 takes 7 parameters, got %d", len(params))
		}
		f, err := freqs(params[:4])
		if err != nil {
			return nil, err
		}
		a1, a2, b := params[4], params[5], params[6]
		return gtrQ(f, [6]float64{a1, b, b, b, b, a2})
	case "GTR":
		if len(params) != 10 {
			return nil, fmt.Errorf("subst: model GTR takes 10 parameters, got %d", len(params))
		}
		f, err := freqs(params[:4])
		if err != nil {
			return nil, err
		}
		var r [6]float64
		copy(r[:], params[4:])
		return gtrQ(f, r)
	default:
		return nil, fmt.Errorf("subst: unknown nucleotide model %q", model)
	}
}

func freqs(p []float64) ([dnaStates]float64, error) {
	var f [dnaStates]float64
	var sum float64
	for i, v := range p {
		if v <= 0 {
			return f, fmt.Errorf("subst: non-positive state frequency %v", v)
		}
		f[i] = v
		sum += v
	}
	if math.Abs(sum-1) > 1e-6 {
		return f, fmt.Errorf("subst: state frequencies sum to %v, want 1", sum)
	}
	return f, nil
}

// gtrQ builds the general time-reversible rate matrix for the given state
// frequencies and exchangeabilities r in the order tc, ta, tg, ca, cg, ag,
// normalised to one expected substitution per unit branch length.
func gtrQ(f [dnaStates]float64, r [6]float64) (*mat.Dense, error) {
	var s [dnaStates][dnaStates]float64
	s[nT][nC], s[nT][nA], s[nT][nG] = r[0], r[1], r[2]
	s[nC][nA], s[nC][nG] = r[3], r[4]
	s[nA][nG] = r[5]
	for i := 0; i < dnaStates; i++ {
		for j := 0; j < i; j++ {
			s[i][j] = s[j][i]
		}
	}

	q := mat.NewDense(dnaStates, dnaStates, nil)
	for i := 0; i < dnaStates; i++ {
		var row float64
		for j := 0; j < dnaStates; j++ {
			if i == j {
				continue
			}
			v := s[i][j] * f[j]
			q.Set(i, j, v)
			row += v
		}
		q.Set(i, i, -row)
	}

	var scale float64
	for i := 0; i < dnaStates; i++ {
		scale -= f[i] * q.At(i, i)
	}
	if scale <= 0 {
		return nil, fmt.Errorf("subst: degenerate rate matrix")
	}
	q.Scale(1/scale, q)
	return q, nil
}
