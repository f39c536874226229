// Copyright ©2023 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package parsimony

import (
	"math"
	"math/bits"
)

// direction identifies an alignment column type and, as a bitset, the
// predecessor layers that tie for a cell's minimum.
type direction uint8

const (
	matched direction = 1 << iota // column consumes a site of both profiles
	gapInY                        // column consumes a site of x, gap in y
	gapInX                        // column consumes a site of y, gap in x
)

// order fixes the candidate ordering presented to the tie-breaking RNG.
var order = [3]direction{matched, gapInY, gapInX}

// RNG returns a uniform value in [0,n). It is injected into traceback so
// tie-breaking can be pinned for reproducibility.
type RNG func(n int) int

// matrices holds the three score layers of the affine-gap dynamic
// programme and the predecessor tie sets of every cell.
type matrices struct {
	rows, cols int

	// m holds scores of paths ending in a match column, x of paths
	// ending in a column consuming x only, y of paths ending in a
	// column consuming y only.
	m, x, y [][]float64

	tm, tx, ty [][]direction

	rng RNG
}

func newMatrices(rows, cols int, rng RNG) *matrices {
	p := &matrices{rows: rows, cols: cols, rng: rng}
	for _, l := range []*[][]float64{&p.m, &p.x, &p.y} {
		*l = make([][]float64, rows)
		for i := range *l {
			(*l)[i] = make([]float64, cols)
		}
	}
	for _, t := range []*[][]direction{&p.tm, &p.tx, &p.ty} {
		*t = make([][]direction, rows)
		for i := range *t {
			(*t)[i] = make([]direction, cols)
		}
	}
	return p
}

// fill computes all three layers for the profiles xp and yp. Gap and match
// costs on the x side are taken from cx, and on the y side from cy; a gap
// event is charged to the branch of the side it consumes.
func (p *matrices) fill(xp Profile, cx BranchCosts, yp Profile, cy BranchCosts) {
	inf := math.Inf(1)
	p.m[0][0] = 0
	p.x[0][0] = inf
	p.y[0][0] = inf

	for i := 1; i < p.rows; i++ {
		p.m[i][0] = inf
		p.y[i][0] = inf
		p.x[i][0], p.tx[i][0] = p.gapStep(xp, cx, i, p.m[i-1][0], p.x[i-1][0], p.y[i-1][0], gapInY)
	}
	for j := 1; j < p.cols; j++ {
		p.m[0][j] = inf
		p.x[0][j] = inf
		p.y[0][j], p.ty[0][j] = p.gapStep(yp, cy, j, p.m[0][j-1], p.x[0][j-1], p.y[0][j-1], gapInX)
	}

	for i := 1; i < p.rows; i++ {
		for j := 1; j < p.cols; j++ {
			v, d := minDirs(p.m[i-1][j-1], p.x[i-1][j-1], p.y[i-1][j-1])
			p.m[i][j] = v + matchTerm(cx, cy, xp[i-1], yp[j-1])
			p.tm[i][j] = d

			p.x[i][j], p.tx[i][j] = p.gapStep(xp, cx, i, p.m[i-1][j], p.x[i-1][j], p.y[i-1][j], gapInY)
			p.y[i][j], p.ty[i][j] = p.gapStep(yp, cy, j, p.m[i][j-1], p.x[i][j-1], p.y[i][j-1], gapInX)
		}
	}
}

// gapStep scores the consumption of site i-1 of pr as a gap column of the
// given layer. A site already flagged as part of a gap is traversed for
// free from any layer; a fresh site is charged gap-open when the run
// starts, or resumes after a free traversal, and gap-extension otherwise.
// The predecessor values vm, vx and vy are the cells of the match layer
// and the two gap layers.
func (p *matrices) gapStep(pr Profile, c BranchCosts, i int, vm, vx, vy float64, layer direction) (float64, direction) {
	if pr[i-1].gapped() {
		return minDirs(vm, vx, vy)
	}
	cont := c.GapOpen()
	if i > 1 && !pr[i-2].gapped() {
		cont = c.GapExt()
	}
	open := c.GapOpen()
	if layer == gapInY {
		return minDirs(vm+open, vx+cont, vy+open)
	}
	return minDirs(vm+open, vx+open, vy+cont)
}

// matchTerm is the cost of aligning sites x and y in a match column: the
// cheapest assignment of an ancestral state explaining both observed sets
// across their branches. Gap history does not enter the match cost.
func matchTerm(cx, cy BranchCosts, x, y Site) float64 {
	best := math.Inf(1)
	for c := 0; c < cx.States(); c++ {
		bx := math.Inf(1)
		for s := x.Set; s != 0; s &= s - 1 {
			if v := cx.Match(c, bits.TrailingZeros32(uint32(s))); v < bx {
				bx = v
			}
		}
		by := math.Inf(1)
		for s := y.Set; s != 0; s &= s - 1 {
			if v := cy.Match(c, bits.TrailingZeros32(uint32(s))); v < by {
				by = v
			}
		}
		if v := bx + by; v < best {
			best = v
		}
	}
	return best
}

// minDirs returns the minimum of the three layer values and the set of
// layers achieving it.
func minDirs(vm, vx, vy float64) (float64, direction) {
	min := math.Min(vm, math.Min(vx, vy))
	if math.IsInf(min, 1) {
		return min, 0
	}
	var d direction
	if vm == min {
		d |= matched
	}
	if vx == min {
		d |= gapInY
	}
	if vy == min {
		d |= gapInX
	}
	return min, d
}

// traceback walks the filled matrices from the terminal cell back to the
// origin, breaking ties with the injected RNG, and returns the alignment
// path in forward order with its score.
func (p *matrices) traceback() ([]direction, float64) {
	i, j := p.rows-1, p.cols-1
	score, set := minDirs(p.m[i][j], p.x[i][j], p.y[i][j])
	layer := p.choose(set)
	var path []direction
	for i > 0 || j > 0 {
		path = append(path, layer)
		var t direction
		switch layer {
		case matched:
			t = p.tm[i][j]
			i--
			j--
		case gapInY:
			t = p.tx[i][j]
			i--
		case gapInX:
			t = p.ty[i][j]
			j--
		}
		if i == 0 && j == 0 {
			break
		}
		layer = p.choose(t)
	}
	for l, r := 0, len(path)-1; l < r; l, r = l+1, r-1 {
		path[l], path[r] = path[r], path[l]
	}
	return path, score
}

// choose selects a layer from the tie set, uniformly at random when more
// than one layer ties.
func (p *matrices) choose(set direction) direction {
	cand := make([]direction, 0, 3)
	for _, d := range order {
		if set&d != 0 {
			cand = append(cand, d)
		}
	}
	switch len(cand) {
	case 0:
		panic("parsimony: no traceback path")
	case 1:
		return cand[0]
	}
	return cand[p.rng(len(cand))]
}
