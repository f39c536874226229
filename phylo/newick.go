// Copyright ©2023 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package phylo

import (
	"errors"
	"fmt"
	"io"

	"github.com/evolbioinfo/gotree/io/newick"
	"github.com/evolbioinfo/gotree/tree"
)

// ReadNewick reads a rooted binary tree with branch lengths on all edges
// from the Newick data in r. Leaf labels must match ids exactly, and
// leaves are indexed by their label's position in ids so that leaf indices
// agree with sequence record order. A nil ids indexes leaves in the order
// they are encountered.
func ReadNewick(r io.Reader, ids []string) (*Tree, error) {
	nt, err := newick.NewParser(r).Parse()
	if err != nil {
		return nil, fmt.Errorf("phylo: failed to parse newick: %v", err)
	}
	root := nt.Root()
	if root == nil {
		return nil, errors.New("phylo: tree has no root")
	}

	b := treeBuilder{free: ids == nil}
	if ids != nil {
		b.pos = make(map[string]int, len(ids))
		for i, id := range ids {
			if _, ok := b.pos[id]; ok {
				return nil, fmt.Errorf("phylo: duplicate sequence id %q", id)
			}
			b.pos[id] = i
		}
		b.leaves = make([]LeafNode, len(ids))
		b.used = make([]bool, len(ids))
	}

	rootIdx, err := b.node(root, nil, 0)
	if err != nil {
		return nil, err
	}
	for i, ok := range b.used {
		if !ok {
			return nil, fmt.Errorf("phylo: no tree leaf for sequence %q", ids[i])
		}
	}
	return New(b.internals, b.leaves, rootIdx)
}

type treeBuilder struct {
	internals []InternalNode
	leaves    []LeafNode
	pos       map[string]int
	used      []bool
	free      bool
}

func (b *treeBuilder) node(n, parent *tree.Node, blen float64) (NodeIdx, error) {
	var (
		kids []*tree.Node
		lens []float64
	)
	for i, nb := range n.Neigh() {
		if nb == parent {
			continue
		}
		l := n.Edges()[i].Length()
		if l < 0 {
			return NodeIdx{}, fmt.Errorf("phylo: missing branch length on edge below %q", name(n))
		}
		kids = append(kids, nb)
		lens = append(lens, l)
	}

	if len(kids) == 0 {
		id := n.Name()
		if id == "" {
			return NodeIdx{}, errors.New("phylo: unnamed leaf")
		}
		if b.free {
			b.leaves = append(b.leaves, LeafNode{ID: id, BranchLen: blen})
			return NodeIdx{Leaf, len(b.leaves) - 1}, nil
		}
		i, ok := b.pos[id]
		if !ok {
			return NodeIdx{}, fmt.Errorf("phylo: no sequence for tree leaf %q", id)
		}
		if b.used[i] {
			return NodeIdx{}, fmt.Errorf("phylo: duplicate tree leaf %q", id)
		}
		b.used[i] = true
		b.leaves[i] = LeafNode{ID: id, BranchLen: blen}
		return NodeIdx{Leaf, i}, nil
	}

	if len(kids) != 2 {
		return NodeIdx{}, fmt.Errorf("phylo: node %q has %d children, want 2", name(n), len(kids))
	}
	c0, err := b.node(kids[0], n, lens[0])
	if err != nil {
		return NodeIdx{}, err
	}
	c1, err := b.node(kids[1], n, lens[1])
	if err != nil {
		return NodeIdx{}, err
	}
	b.internals = append(b.internals, InternalNode{
		ID:        n.Name(),
		Children:  [2]NodeIdx{c0, c1},
		BranchLen: blen,
	})
	return NodeIdx{Internal, len(b.internals) - 1}, nil
}

func name(n *tree.Node) string {
	if n.Name() == "" {
		return "(unnamed)"
	}
	return n.Name()
}
