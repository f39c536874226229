// Copyright ©2023 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package parsimony

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// first and last pin traceback tie-breaking to the first or last tied
// candidate.
func first(n int) int { return 0 }
func last(n int) int  { return n - 1 }

// checkMapping verifies the structural invariants of a column mapping over
// profiles of length nx and ny: equal mapping lengths, no empty columns,
// strictly increasing consumption covering both profiles exactly, and the
// alignment length bounds.
func checkMapping(t *testing.T, aln Alignment, nx, ny int) {
	t.Helper()
	require.Equal(t, len(aln.MapX), len(aln.MapY))
	require.GreaterOrEqual(t, aln.Len(), max(nx, ny))
	require.LessOrEqual(t, aln.Len(), nx+ny)
	var ix, iy int
	for k := range aln.MapX {
		require.False(t, aln.MapX[k] == Gap && aln.MapY[k] == Gap, "empty column %d", k)
		if aln.MapX[k] != Gap {
			require.Equal(t, ix, aln.MapX[k], "column %d", k)
			ix++
		}
		if aln.MapY[k] != Gap {
			require.Equal(t, iy, aln.MapY[k], "column %d", k)
			iy++
		}
	}
	require.Equal(t, nx, ix)
	require.Equal(t, ny, iy)
}

func TestAlignTwoLastOutcome(t *testing.T) {
	x := LeafProfile([]byte("AACT"), DNA)
	y := LeafProfile([]byte("AC"), DNA)
	b := simple.Branch(1)

	prof, aln, score := AlignRNG(x, b, y, b, last)
	require.Equal(t, 3.5, score)
	require.Equal(t, Mapping{0, 1, 2, 3}, aln.MapX)
	require.Equal(t, Mapping{0, 1, Gap, Gap}, aln.MapY)
	checkMapping(t, aln, len(x), len(y))

	require.Equal(t, Profile{
		{Set: set("A"), Flag: NoGap},
		{Set: set("AC"), Flag: NoGap},
		{Set: set("C"), Flag: GapOpen},
		{Set: set("T"), Flag: GapExt},
	}, prof)
}

func TestAlignTwoFirstOutcome(t *testing.T) {
	x := LeafProfile([]byte("AACT"), DNA)
	y := LeafProfile([]byte("AC"), DNA)
	b := simple.Branch(1)

	prof, aln, score := AlignRNG(x, b, y, b, first)
	require.Equal(t, 3.5, score)
	require.Equal(t, Mapping{0, 1, 2, 3}, aln.MapX)
	require.Equal(t, Mapping{0, Gap, Gap, 1}, aln.MapY)
	checkMapping(t, aln, len(x), len(y))

	require.Equal(t, Profile{
		{Set: set("A"), Flag: NoGap},
		{Set: set("A"), Flag: GapOpen},
		{Set: set("C"), Flag: GapExt},
		{Set: set("TC"), Flag: NoGap},
	}, prof)
}

func TestAlignInternalFirstOutcome(t *testing.T) {
	x := Profile{
		{Set: set("A"), Flag: NoGap},
		{Set: set("CA"), Flag: NoGap},
		{Set: set("C"), Flag: GapOpen},
		{Set: set("T"), Flag: GapOpen},
	}
	y := Profile{
		{Set: set("G"), Flag: GapOpen},
		{Set: set("A"), Flag: NoGap},
	}
	b := simple.Branch(1)

	prof, aln, score := AlignRNG(x, b, y, b, first)
	require.Equal(t, 1.0, score)
	require.Equal(t, Mapping{0, 1, 2, 3}, aln.MapX)
	require.Equal(t, Mapping{0, 1, Gap, Gap}, aln.MapY)
	checkMapping(t, aln, len(x), len(y))

	// Committed child gaps freeze; matched columns carry content.
	require.Equal(t, Profile{
		{Set: set("AG"), Flag: NoGap},
		{Set: set("A"), Flag: NoGap},
		{Set: set("C"), Flag: GapFixed},
		{Set: set("T"), Flag: GapFixed},
	}, prof)
}

func TestAlignInternalSecondOutcome(t *testing.T) {
	x := Profile{
		{Set: set("A"), Flag: NoGap},
		{Set: set("A"), Flag: GapOpen},
		{Set: set("C"), Flag: GapOpen},
		{Set: set("TC"), Flag: NoGap},
	}
	y := Profile{
		{Set: set("G"), Flag: GapOpen},
		{Set: set("A"), Flag: NoGap},
	}
	b := simple.Branch(1)

	_, aln, score := AlignRNG(x, b, y, b, first)
	require.Equal(t, 2.0, score)
	require.Equal(t, Mapping{0, 1, 2, 3}, aln.MapX)
	require.Equal(t, Mapping{0, Gap, Gap, 1}, aln.MapY)
	checkMapping(t, aln, len(x), len(y))
}

func TestAlignInternalThirdOutcome(t *testing.T) {
	x := Profile{
		{Set: set("A"), Flag: NoGap},
		{Set: set("A"), Flag: GapOpen},
		{Set: set("C"), Flag: GapOpen},
		{Set: set("CT"), Flag: NoGap},
	}
	y := Profile{
		{Set: set("G"), Flag: GapOpen},
		{Set: set("A"), Flag: NoGap},
	}
	b := simple.Branch(1)

	prof, aln, score := AlignRNG(x, b, y, b, last)
	require.Equal(t, 2.0, score)
	require.Equal(t, Mapping{Gap, 0, 1, 2, 3}, aln.MapX)
	require.Equal(t, Mapping{0, 1, Gap, Gap, Gap}, aln.MapY)
	checkMapping(t, aln, len(x), len(y))

	// A fresh gap resuming after frozen sites opens a new indel.
	require.Equal(t, Profile{
		{Set: set("G"), Flag: GapFixed},
		{Set: set("A"), Flag: NoGap},
		{Set: set("A"), Flag: GapFixed},
		{Set: set("C"), Flag: GapFixed},
		{Set: set("CT"), Flag: GapOpen},
	}, prof)
}

func TestAlignEmptyAgainstSequence(t *testing.T) {
	x := LeafProfile([]byte("ACGT"), DNA)
	b := simple.Branch(1)

	_, aln, score := AlignRNG(x, b, nil, b, first)
	require.Equal(t, 2+3*0.5, score)
	require.Equal(t, Mapping{0, 1, 2, 3}, aln.MapX)
	require.Equal(t, Mapping{Gap, Gap, Gap, Gap}, aln.MapY)
	checkMapping(t, aln, len(x), 0)
}

func TestAlignScoreNonNegative(t *testing.T) {
	b := simple.Branch(1)
	for _, c := range [][2]string{
		{"A", "A"},
		{"ACGT", "TGCA"},
		{"AAAA", "A"},
		{"GATTACA", "GCAT"},
	} {
		x := LeafProfile([]byte(c[0]), DNA)
		y := LeafProfile([]byte(c[1]), DNA)
		_, aln, score := AlignRNG(x, b, y, b, first)
		require.GreaterOrEqual(t, score, 0.0)
		checkMapping(t, aln, len(x), len(y))
	}
}

func TestAlignReproducible(t *testing.T) {
	x := Profile{
		{Set: set("A"), Flag: NoGap},
		{Set: set("CA"), Flag: NoGap},
		{Set: set("C"), Flag: GapOpen},
		{Set: set("T"), Flag: GapExt},
	}
	y := LeafProfile([]byte("GACT"), DNA)
	b := simple.Branch(1)

	for _, rng := range []RNG{first, last} {
		p1, a1, s1 := AlignRNG(x, b, y, b, rng)
		p2, a2, s2 := AlignRNG(x, b, y, b, rng)
		require.Equal(t, p1, p2)
		require.Equal(t, a1, a2)
		require.Equal(t, s1, s2)
	}
}
