// Copyright ©2023 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package subst

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

var gm = GapMultipliers{Open: 2.5, Ext: 0.5}

func TestJC69Transition(t *testing.T) {
	const bt = 0.1
	costs, err := NewDNA("JC69", nil, gm, []float64{bt}, false, Rounding{})
	require.NoError(t, err)
	b := costs.Branch(bt)
	require.Equal(t, dnaStates, b.States())

	// Against the closed form of the JC69 transition probabilities.
	e := math.Exp(-4 * bt / 3)
	same := -math.Log(0.25 + 0.75*e)
	diff := -math.Log(0.25 - 0.25*e)
	for i := 0; i < dnaStates; i++ {
		for j := 0; j < dnaStates; j++ {
			want := diff
			if i == j {
				want = same
			}
			require.InDelta(t, want, b.Match(i, j), 1e-10)
		}
	}
}

func TestJC69RoundedAverages(t *testing.T) {
	costs, err := NewDNA("JC69", nil, gm, []float64{0.1, 0.7}, false, Round(0))
	require.NoError(t, err)

	b := costs.Branch(0.1)
	require.Equal(t, 2.25, b.Avg())
	require.Equal(t, 2.5*2.25, b.GapOpen())
	require.Equal(t, 0.5*2.25, b.GapExt())

	b = costs.Branch(0.7)
	require.Equal(t, 1.75, b.Avg())
	require.Equal(t, 2.5*1.75, b.GapOpen())
	require.Equal(t, 0.5*1.75, b.GapExt())
}

func TestZeroDiagonal(t *testing.T) {
	costs, err := NewDNA("JC69", nil, gm, []float64{0.7}, true, Round(0))
	require.NoError(t, err)
	b := costs.Branch(0.7)
	for i := 0; i < dnaStates; i++ {
		require.Equal(t, 0.0, b.Match(i, i))
	}
	// Rounded off-diagonal entries are 2; the mean reflects the zeroing.
	require.Equal(t, 1.5, b.Avg())
}

func TestNearestClass(t *testing.T) {
	costs, err := NewDNA("JC69", nil, gm, []float64{0.1, 0.7}, false, Round(0))
	require.NoError(t, err)
	for _, c := range []struct {
		length float64
		avg    float64
	}{
		{0.05, 2.25},
		{0.1, 2.25},
		{0.15, 2.25},
		{0.2, 2.25},
		{0.39, 2.25},
		{0.41, 1.75},
		{0.8, 1.75},
		{100, 1.75},
	} {
		require.Equal(t, c.avg, costs.Branch(c.length).Avg(), "length %v", c.length)
	}
}

func TestTimesSorted(t *testing.T) {
	costs, err := NewDNA("JC69", nil, gm, []float64{0.7, 0.1, 0.3}, false, Rounding{})
	require.NoError(t, err)
	require.Equal(t, []float64{0.1, 0.3, 0.7}, costs.Times())
}

func TestGTRReducesToJC69(t *testing.T) {
	jc, err := NewDNA("JC69", nil, gm, []float64{0.5}, false, Rounding{})
	require.NoError(t, err)
	gtr, err := NewDNA("GTR",
		[]float64{0.25, 0.25, 0.25, 0.25, 1, 1, 1, 1, 1, 1},
		gm, []float64{0.5}, false, Rounding{})
	require.NoError(t, err)

	bj := jc.Branch(0.5)
	bg := gtr.Branch(0.5)
	for i := 0; i < dnaStates; i++ {
		for j := 0; j < dnaStates; j++ {
			require.InDelta(t, bj.Match(i, j), bg.Match(i, j), 1e-10)
		}
	}
	require.InDelta(t, bj.Avg(), bg.Avg(), 1e-10)
}

func TestK80MoreTransitions(t *testing.T) {
	costs, err := NewDNA("K80", []float64{4, 1}, gm, []float64{0.2}, false, Rounding{})
	require.NoError(t, err)
	b := costs.Branch(0.2)
	// Transitions (T<->C, A<->G) are more likely, so cheaper, than
	// transversions.
	require.Less(t, b.Match(nT, nC), b.Match(nT, nA))
	require.Less(t, b.Match(nA, nG), b.Match(nA, nC))
}

func TestDNAModelErrors(t *testing.T) {
	for _, c := range []struct {
		model  string
		params []float64
	}{
		{"NOPE", nil},
		{"JC69", []float64{1}},
		{"K80", []float64{1}},
		{"HKY", []float64{0.25, 0.25, 0.25, 0.25}},
		{"TN93", []float64{0.25, 0.25, 0.25, 0.25, 1, 1}},
		{"GTR", []float64{0.25, 0.25, 0.25, 0.25, 1, 1, 1, 1, 1}},
		// Frequencies must be positive and sum to one.
		{"GTR", []float64{0.5, 0.25, 0.25, 0.25, 1, 1, 1, 1, 1, 1}},
		{"HKY", []float64{0.5, 0.5, 0.5, -0.5, 2}},
	} {
		_, err := NewDNA(c.model, c.params, gm, []float64{0.1}, false, Rounding{})
		require.Error(t, err, "model %s params %v", c.model, c.params)
	}
}

func TestProteinModels(t *testing.T) {
	costs, err := NewProtein("blosum", gm, []float64{0.1, 0.7}, false, Rounding{})
	require.NoError(t, err)

	b1 := costs.Branch(0.1)
	b2 := costs.Branch(0.7)
	require.Equal(t, proteinStates, b1.States())
	// The table does not vary between classes.
	require.Equal(t, b1.Avg(), b2.Avg())

	// Costs are non-negative, symmetric and cheapest on the diagonal
	// identity (W against W scores the table maximum).
	for i := 0; i < proteinStates; i++ {
		for j := 0; j < proteinStates; j++ {
			require.GreaterOrEqual(t, b1.Match(i, j), 0.0)
			require.Equal(t, b1.Match(i, j), b1.Match(j, i))
		}
	}
	const iW = 17 // index of W in ARNDCQEGHILKMFPSTWYV
	require.Equal(t, 0.0, b1.Match(iW, iW))

	_, err = NewProtein("WAG", gm, []float64{0.1}, false, Rounding{})
	require.Error(t, err)
	_, err = NewProtein("HIVB", gm, []float64{0.1}, false, Rounding{})
	require.Error(t, err)
	_, err = NewProtein("NOPE", gm, []float64{0.1}, false, Rounding{})
	require.Error(t, err)
}
