// Copyright ©2023 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package subst derives parsimony branch costs from substitution models.
// Branch lengths are approximated by a fixed set of classes; each class
// carries a scoring matrix derived from the model's transition
// probabilities at the class's branch length.
package subst

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/kortschak/indelmsa/parsimony"
)

// GapMultipliers scales a class's average substitution cost into affine
// gap costs.
type GapMultipliers struct {
	Open, Ext float64
}

// Rounding controls rounding of scoring matrix entries.
type Rounding struct {
	Enabled  bool
	Decimals int
}

// Round returns a Rounding to the given number of decimals.
func Round(decimals int) Rounding { return Rounding{Enabled: true, Decimals: decimals} }

func (r Rounding) apply(v float64) float64 {
	if !r.Enabled {
		return v
	}
	s := math.Pow(10, float64(r.Decimals))
	return math.Round(v*s) / s
}

// Costs holds the scoring for each branch-length class of a model. It
// implements parsimony.Costs.
type Costs struct {
	times []float64
	costs map[float64]*BranchCosts
}

// Times returns the branch-length class values in ascending order.
func (c *Costs) Times() []float64 { return append([]float64(nil), c.times...) }

// Branch returns the costs of the class nearest to length, preferring the
// smaller class when length falls exactly between two classes. Lengths
// beyond the largest class use the largest class.
func (c *Costs) Branch(length float64) parsimony.BranchCosts {
	return c.costs[c.nearest(length)]
}

func (c *Costs) nearest(length float64) float64 {
	t := c.times[0]
	for i := 0; i < len(c.times)-1; i++ {
		if length-c.times[i] > c.times[i+1]-length {
			t = c.times[i+1]
		}
	}
	return t
}

// BranchCosts is the scoring of a single branch-length class.
type BranchCosts struct {
	costs          *mat.Dense
	avg, open, ext float64
}

// Match returns the cost of ancestral state anc observed as state obs.
func (b *BranchCosts) Match(anc, obs int) float64 { return b.costs.At(anc, obs) }

// GapOpen returns the class's gap opening cost.
func (b *BranchCosts) GapOpen() float64 { return b.open }

// GapExt returns the class's gap extension cost.
func (b *BranchCosts) GapExt() float64 { return b.ext }

// Avg returns the mean of the class's scoring matrix.
func (b *BranchCosts) Avg() float64 { return b.avg }

// States returns the number of states of the model's alphabet.
func (b *BranchCosts) States() int {
	r, _ := b.costs.Dims()
	return r
}

// generate builds the per-class scoring from the normalised rate matrix q.
// The scoring matrix for class time t is −log of the transition probability
// matrix e^{Qt}, optionally rounded and with the diagonal optionally
// zeroed; the class average is the mean of the final matrix.
func generate(q *mat.Dense, times []float64, gm GapMultipliers, zeroDiag bool, round Rounding) *Costs {
	c := &Costs{
		times: sortedCopy(times),
		costs: make(map[float64]*BranchCosts, len(times)),
	}
	n, _ := q.Dims()
	for _, t := range c.times {
		var qt, p mat.Dense
		qt.Scale(t, q)
		p.Exp(&qt)
		d := mat.NewDense(n, n, nil)
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				if zeroDiag && i == j {
					continue
				}
				d.Set(i, j, round.apply(-math.Log(p.At(i, j))))
			}
		}
		c.costs[t] = branchCosts(d, gm)
	}
	return c
}

// static builds the per-class scoring from a branch-length independent
// cost matrix; every class shares the matrix.
func static(d *mat.Dense, times []float64, gm GapMultipliers, zeroDiag bool, round Rounding) *Costs {
	c := &Costs{
		times: sortedCopy(times),
		costs: make(map[float64]*BranchCosts, len(times)),
	}
	n, _ := d.Dims()
	m := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if zeroDiag && i == j {
				continue
			}
			m.Set(i, j, round.apply(d.At(i, j)))
		}
	}
	b := branchCosts(m, gm)
	for _, t := range c.times {
		c.costs[t] = b
	}
	return c
}

func branchCosts(d *mat.Dense, gm GapMultipliers) *BranchCosts {
	n, _ := d.Dims()
	avg := mat.Sum(d) / float64(n*n)
	return &BranchCosts{
		costs: d,
		avg:   avg,
		open:  gm.Open * avg,
		ext:   gm.Ext * avg,
	}
}

func sortedCopy(f []float64) []float64 {
	s := append([]float64(nil), f...)
	sort.Float64s(s)
	return s
}
