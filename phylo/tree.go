// Copyright ©2023 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package phylo provides the rooted binary tree representation that guides
// profile alignment.
package phylo

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Kind discriminates a Tree's two node record arrays.
type Kind uint8

const (
	Internal Kind = iota
	Leaf
)

// NodeIdx is a tagged index into a Tree's node arrays.
type NodeIdx struct {
	Kind Kind
	Idx  int
}

func (n NodeIdx) String() string {
	if n.Kind == Leaf {
		return fmt.Sprintf("leaf %d", n.Idx)
	}
	return fmt.Sprintf("internal %d", n.Idx)
}

// InternalNode is an internal node of a rooted binary tree. BranchLen is
// the length of the edge to the node's parent; it is zero at the root.
type InternalNode struct {
	ID        string
	Children  [2]NodeIdx
	BranchLen float64
}

// LeafNode is a leaf of the tree. Leaves are indexed to match the input
// sequence records. BranchLen is the length of the edge to the parent.
type LeafNode struct {
	ID        string
	BranchLen float64
}

// Tree is a rooted binary tree held as parallel record arrays with tagged
// index references, avoiding pointer cycles and making traversal order
// explicit.
type Tree struct {
	Internals []InternalNode
	Leaves    []LeafNode
	Root      NodeIdx

	postorder []NodeIdx
}

// New returns a tree over the given records rooted at root. Every record
// must be reachable from the root exactly once.
func New(internals []InternalNode, leaves []LeafNode, root NodeIdx) (*Tree, error) {
	t := &Tree{Internals: internals, Leaves: leaves, Root: root}
	t.postorder = make([]NodeIdx, 0, len(internals)+len(leaves))
	seen := make(map[NodeIdx]bool)
	var walk func(n NodeIdx) error
	walk = func(n NodeIdx) error {
		if seen[n] {
			return fmt.Errorf("phylo: %v reached twice", n)
		}
		seen[n] = true
		switch n.Kind {
		case Internal:
			if n.Idx < 0 || n.Idx >= len(internals) {
				return fmt.Errorf("phylo: internal index %d out of range", n.Idx)
			}
			for _, c := range internals[n.Idx].Children {
				err := walk(c)
				if err != nil {
					return err
				}
			}
		case Leaf:
			if n.Idx < 0 || n.Idx >= len(leaves) {
				return fmt.Errorf("phylo: leaf index %d out of range", n.Idx)
			}
		}
		t.postorder = append(t.postorder, n)
		return nil
	}
	err := walk(root)
	if err != nil {
		return nil, err
	}
	if len(t.postorder) != len(internals)+len(leaves) {
		return nil, fmt.Errorf("phylo: %d of %d nodes unreachable from the root",
			len(internals)+len(leaves)-len(t.postorder), len(internals)+len(leaves))
	}
	return t, nil
}

// Postorder returns the tree's nodes children-first. The returned slice is
// shared and must not be mutated.
func (t *Tree) Postorder() []NodeIdx { return t.postorder }

// Preorder returns the nodes of the subtree rooted at sub, parents-first
// and left child before right child.
func (t *Tree) Preorder(sub NodeIdx) []NodeIdx {
	var order []NodeIdx
	var walk func(n NodeIdx)
	walk = func(n NodeIdx) {
		order = append(order, n)
		if n.Kind == Internal {
			for _, c := range t.Internals[n.Idx].Children {
				walk(c)
			}
		}
	}
	walk(sub)
	return order
}

// BranchLengths returns the lengths of all edges of the tree.
func (t *Tree) BranchLengths() []float64 {
	l := make([]float64, 0, len(t.Internals)+len(t.Leaves)-1)
	for i, n := range t.Internals {
		if (NodeIdx{Internal, i}) == t.Root {
			continue
		}
		l = append(l, n.BranchLen)
	}
	for _, n := range t.Leaves {
		l = append(l, n.BranchLen)
	}
	return l
}

// Percentiles returns the cats interior percentile values of lengths, at
// probabilities i/(cats+1) for i in 1..cats, in ascending order. These are
// the branch-length class values used for scoring.
func Percentiles(lengths []float64, cats int) []float64 {
	s := append([]float64(nil), lengths...)
	sort.Float64s(s)
	p := make([]float64, cats)
	for i := 1; i <= cats; i++ {
		p[i-1] = stat.Quantile(float64(i)/float64(cats+1), stat.Empirical, s, nil)
	}
	return p
}
