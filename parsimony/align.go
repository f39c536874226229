// Copyright ©2023 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package parsimony

import "math/rand"

// Gap marks a column of a Mapping that does not consume a profile position.
const Gap = -1

// Mapping records, per alignment column, the consumed position of one of
// the aligned profiles, or Gap for a column padded on that side. The
// non-Gap entries are strictly increasing and cover the profile exactly.
type Mapping []int

// Alignment is a pairwise alignment of two profiles expressed as a pair of
// equal-length column mappings. In every column at least one side consumes
// a position.
type Alignment struct {
	MapX, MapY Mapping
}

// Len returns the number of columns of the alignment.
func (a Alignment) Len() int { return len(a.MapX) }

// Align aligns the profiles x and y, charging events on each side to that
// side's branch costs. Traceback ties are broken with the default PRNG.
// It returns the merged profile, the column mappings and the alignment
// score.
func Align(x Profile, cx BranchCosts, y Profile, cy BranchCosts) (Profile, Alignment, float64) {
	return AlignRNG(x, cx, y, cy, rand.Intn)
}

// AlignRNG is Align with an injected tie-breaking RNG.
func AlignRNG(x Profile, cx BranchCosts, y Profile, cy BranchCosts, rng RNG) (Profile, Alignment, float64) {
	p := newMatrices(len(x)+1, len(y)+1, rng)
	p.fill(x, cx, y, cy)
	path, score := p.traceback()
	prof, aln := merge(x, y, path)
	return prof, aln, score
}

// merge builds the parent profile and column mappings from an alignment
// path. A match column keeps the intersection of the child sets when it is
// non-empty and their union otherwise. A gap column over a site that is
// already part of a gap freezes it; over a fresh site it opens or extends
// an indel according to its position in the run.
func merge(x, y Profile, path []direction) (Profile, Alignment) {
	prof := make(Profile, 0, len(path))
	mapx := make(Mapping, 0, len(path))
	mapy := make(Mapping, 0, len(path))
	var i, j int
	for k, d := range path {
		switch d {
		case matched:
			set := x[i].Set.Intersect(y[j].Set)
			if set.IsEmpty() {
				set = x[i].Set.Union(y[j].Set)
			}
			prof = append(prof, Site{Set: set, Flag: NoGap})
			mapx = append(mapx, i)
			mapy = append(mapy, j)
			i++
			j++
		case gapInY:
			prof = append(prof, Site{Set: x[i].Set, Flag: gapFlag(x, i, path, k)})
			mapx = append(mapx, i)
			mapy = append(mapy, Gap)
			i++
		case gapInX:
			prof = append(prof, Site{Set: y[j].Set, Flag: gapFlag(y, j, path, k)})
			mapx = append(mapx, Gap)
			mapy = append(mapy, j)
			j++
		}
	}
	return prof, Alignment{MapX: mapx, MapY: mapy}
}

// gapFlag returns the flag of the gap column at path position k consuming
// site s of pr.
func gapFlag(pr Profile, s int, path []direction, k int) Flag {
	if pr[s].gapped() {
		return GapFixed
	}
	if k > 0 && path[k-1] == path[k] && !pr[s-1].gapped() {
		return GapExt
	}
	return GapOpen
}
