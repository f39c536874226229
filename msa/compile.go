// Copyright ©2023 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package msa

import (
	"sort"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/seq/linear"

	"github.com/kortschak/indelmsa/parsimony"
	"github.com/kortschak/indelmsa/phylo"
)

// GapByte is the padding byte of emitted alignment records.
const GapByte = '-'

// Compile converts the per-node pairwise alignments into gap-padded
// records, one per leaf of the subtree rooted at subroot, in input record
// order. Alignment columns inherited from above that a subtree does not
// reach become gap bytes. A leaf subroot yields a copy of its input
// record.
func Compile(t *phylo.Tree, seqs []*linear.Seq, alns []parsimony.Alignment, subroot phylo.NodeIdx) []*linear.Seq {
	if subroot.Kind == phylo.Leaf {
		s := *seqs[subroot.Idx]
		return []*linear.Seq{&s}
	}

	stackI := make([][]int, len(t.Internals))
	stackL := make([][]int, len(t.Leaves))
	cols := alns[subroot.Idx].Len()
	stackI[subroot.Idx] = make([]int, cols)
	for k := range stackI[subroot.Idx] {
		stackI[subroot.Idx][k] = k
	}

	type record struct {
		idx int
		seq *linear.Seq
	}
	var out []record
	for _, n := range t.Preorder(subroot) {
		switch n.Kind {
		case phylo.Internal:
			cur := stackI[n.Idx]
			aln := alns[n.Idx]
			px := make([]int, len(cur))
			py := make([]int, len(cur))
			for k, s := range cur {
				if s == parsimony.Gap {
					px[k], py[k] = parsimony.Gap, parsimony.Gap
					continue
				}
				px[k], py[k] = aln.MapX[s], aln.MapY[s]
			}
			assign := func(c phylo.NodeIdx, m []int) {
				if c.Kind == phylo.Internal {
					stackI[c.Idx] = m
				} else {
					stackL[c.Idx] = m
				}
			}
			assign(t.Internals[n.Idx].Children[0], px)
			assign(t.Internals[n.Idx].Children[1], py)
		case phylo.Leaf:
			src := seqs[n.Idx]
			b := alphabet.LettersToBytes(src.Seq)
			padded := make([]byte, len(stackL[n.Idx]))
			for k, s := range stackL[n.Idx] {
				if s == parsimony.Gap {
					padded[k] = GapByte
					continue
				}
				padded[k] = b[s]
			}
			ns := linear.NewSeq(src.ID, alphabet.BytesToLetters(padded), src.Alpha)
			ns.Desc = src.Desc
			out = append(out, record{idx: n.Idx, seq: ns})
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].idx < out[j].idx })
	res := make([]*linear.Seq, len(out))
	for i, r := range out {
		res[i] = r.seq
	}
	return res
}
