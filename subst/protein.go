// Copyright ©2023 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package subst

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// Amino acid state order is ARNDCQEGHILKMFPSTWYV.
const proteinStates = 20

// blosum62Upper is the upper triangle, diagonal included, of the BLOSUM62
// substitution score matrix in the state order above.
var blosum62Upper = [210]int{
	4, -1, -2, -2, 0, -1, -1, 0, -2, -1, -1, -1, -1, -2, -1, 1, 0, -3, -2, 0,
	5, 0, -2, -3, 1, 0, -2, 0, -3, -2, 2, -1, -3, -2, -1, -1, -3, -2, -3,
	6, 1, -3, 0, 0, 0, 1, -3, -3, 0, -2, -3, -2, 1, 0, -4, -2, -3,
	6, -3, 0, 2, -1, -1, -3, -4, -1, -3, -3, -1, 0, -1, -4, -3, -3,
	9, -3, -4, -3, -3, -1, -1, -3, -1, -2, -3, -1, -1, -2, -2, -1,
	5, 2, -2, 0, -3, -2, 1, 0, -3, -1, 0, -1, -2, -1, -2,
	5, -2, 0, -3, -3, 1, -2, -3, -1, 0, -1, -3, -2, -2,
	6, -2, -4, -4, -2, -3, -3, -2, 0, -2, -2, -3, -3,
	8, -3, -3, -1, -2, -1, -2, -1, -2, -2, 2, -3,
	4, 2, -3, 1, 0, -3, -2, -1, -3, -1, 3,
	4, -2, 2, 0, -3, -2, -1, -2, -1, 1,
	5, -1, -3, -1, 0, -1, -3, -2, -2,
	5, 0, -2, -1, -1, -1, -1, 1,
	6, -4, -2, -2, 1, 3, -1,
	7, -1, -1, -4, -3, -2,
	4, 1, -3, -2, -2,
	5, -2, -2, 0,
	11, 2, -3,
	7, -1,
	4,
}

// blosum62Max is the largest score of the matrix (W against W).
const blosum62Max = 11

// blosum62Costs converts the scores into a cost matrix, highest-scoring
// pairs cheapest.
func blosum62Costs() *mat.Dense {
	d := mat.NewDense(proteinStates, proteinStates, nil)
	k := 0
	for i := 0; i < proteinStates; i++ {
		for j := i; j < proteinStates; j++ {
			v := float64(blosum62Max - blosum62Upper[k])
			d.Set(i, j, v)
			d.Set(j, i, v)
			k++
		}
	}
	return d
}

// NewProtein returns the per-class costs for the named protein
// substitution model. BLOSUM costs derive from the BLOSUM62 score table
// and do not vary between branch-length classes; the gap costs follow the
// table's average as for the nucleotide models. The WAG and HIVB rate
// tables are not bundled with this tool.
func NewProtein(model string, gm GapMultipliers, times []float64, zeroDiag bool, round Rounding) (*Costs, error) {
	switch name := strings.ToUpper(model); name {
	case "BLOSUM":
		return static(blosum62Costs(), times, gm, zeroDiag, round), nil
	case "WAG", "HIVB":
		return nil, fmt.Errorf("subst: no rate table bundled for protein model %q", name)
	default:
		return nil, fmt.Errorf("subst: unknown protein model %q", model)
	}
}
