// Copyright ©2023 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package msa aligns sequences over a guide tree and composes the per-node
// pairwise alignments into a multiple sequence alignment.
package msa

import (
	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/seq/linear"

	"github.com/kortschak/indelmsa/parsimony"
	"github.com/kortschak/indelmsa/phylo"
)

// AlignTree walks t post-order, aligning each internal node's child
// profiles with the costs of the children's branch lengths. Sequences are
// indexed by leaf index. It returns the pairwise alignment and score of
// each internal node, indexed as t.Internals. A nil rng uses the default
// PRNG for traceback tie-breaking.
func AlignTree(costs parsimony.Costs, t *phylo.Tree, seqs []*linear.Seq, a *parsimony.Alphabet, rng parsimony.RNG) ([]parsimony.Alignment, []float64) {
	internal := make([]parsimony.Profile, len(t.Internals))
	leaf := make([]parsimony.Profile, len(t.Leaves))
	alns := make([]parsimony.Alignment, len(t.Internals))
	scores := make([]float64, len(t.Internals))

	profile := func(n phylo.NodeIdx) (parsimony.Profile, float64) {
		if n.Kind == phylo.Leaf {
			return leaf[n.Idx], t.Leaves[n.Idx].BranchLen
		}
		return internal[n.Idx], t.Internals[n.Idx].BranchLen
	}

	for _, n := range t.Postorder() {
		switch n.Kind {
		case phylo.Leaf:
			leaf[n.Idx] = parsimony.LeafProfile(alphabet.LettersToBytes(seqs[n.Idx].Seq), a)
		case phylo.Internal:
			node := t.Internals[n.Idx]
			xp, xb := profile(node.Children[0])
			yp, yb := profile(node.Children[1])
			cx := costs.Branch(xb)
			cy := costs.Branch(yb)
			var prof parsimony.Profile
			if rng == nil {
				prof, alns[n.Idx], scores[n.Idx] = parsimony.Align(xp, cx, yp, cy)
			} else {
				prof, alns[n.Idx], scores[n.Idx] = parsimony.AlignRNG(xp, cx, yp, cy, rng)
			}
			internal[n.Idx] = prof
		}
	}
	return alns, scores
}
