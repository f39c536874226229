// Copyright ©2023 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package parsimony provides indel-aware parsimony alignment of site
// profiles over a residue alphabet.
package parsimony

import "math/bits"

// Set is a bit-packed character set over the letters of an Alphabet.
// Bit i corresponds to the alphabet's letter at index i.
type Set uint32

// Intersect returns the intersection of s and t.
func (s Set) Intersect(t Set) Set { return s & t }

// Union returns the union of s and t.
func (s Set) Union(t Set) Set { return s | t }

// IsEmpty returns whether s holds no letters.
func (s Set) IsEmpty() bool { return s == 0 }

// Has returns whether letter index i is in s.
func (s Set) Has(i int) bool { return s&(1<<uint(i)) != 0 }

// Len returns the number of letters in s.
func (s Set) Len() int { return bits.OnesCount32(uint32(s)) }

// Alphabet is a residue alphabet with IUPAC ambiguity expansion. The zero
// Alphabet is not usable; use DNA or Protein.
type Alphabet struct {
	letters []byte
	index   [256]int8
	ambig   [256]Set
	full    Set
}

func newAlphabet(letters string, ambig map[byte]string) *Alphabet {
	a := &Alphabet{letters: []byte(letters)}
	for i := range a.index {
		a.index[i] = -1
	}
	for i, l := range a.letters {
		a.index[l] = int8(i)
		a.index[l|0x20] = int8(i)
		a.full |= 1 << uint(i)
	}
	for b, exp := range ambig {
		var s Set
		for _, l := range []byte(exp) {
			s |= 1 << uint(a.index[l])
		}
		a.ambig[b] = s
		a.ambig[b|0x20] = s
	}
	return a
}

var (
	// DNA is the nucleotide alphabet in the order T, C, A, G.
	DNA = newAlphabet("TCAG", map[byte]string{
		'U': "T",
		'R': "AG", 'Y': "CT", 'S': "GC", 'W': "AT", 'K': "GT", 'M': "AC",
		'B': "CGT", 'D': "AGT", 'H': "ACT", 'V': "ACG",
		'N': "TCAG",
	})

	// Protein is the amino acid alphabet in the order ARNDCQEGHILKMFPSTWYV.
	Protein = newAlphabet("ARNDCQEGHILKMFPSTWYV", map[byte]string{
		'B': "DN", 'Z': "EQ", 'J': "IL",
		'X': "ARNDCQEGHILKMFPSTWYV",
	})
)

// Len returns the number of letters in the alphabet.
func (a *Alphabet) Len() int { return len(a.letters) }

// Letter returns the letter at index i.
func (a *Alphabet) Letter(i int) byte { return a.letters[i] }

// Index returns the index of the letter b, or -1 if b is not a primary
// letter of the alphabet.
func (a *Alphabet) Index(b byte) int { return int(a.index[b]) }

// Full returns the set holding the complete alphabet.
func (a *Alphabet) Full() Set { return a.full }

// SetOf returns the parsimony set of the residue b: a singleton for a
// primary letter, the expansion for an IUPAC ambiguity code, and the full
// alphabet for anything else.
func (a *Alphabet) SetOf(b byte) Set {
	if i := a.index[b]; i >= 0 {
		return 1 << uint(i)
	}
	if s := a.ambig[b]; s != 0 {
		return s
	}
	return a.full
}

func (a *Alphabet) known(b byte) bool {
	return a.index[b] >= 0 || a.ambig[b] != 0
}

// Sets returns the parsimony set for each residue of seq.
func Sets(seq []byte, a *Alphabet) []Set {
	s := make([]Set, len(seq))
	for i, b := range seq {
		s[i] = a.SetOf(b)
	}
	return s
}

// Detect returns the alphabet implied by the given sequences: DNA if every
// residue is a nucleotide or nucleotide ambiguity code, Protein otherwise.
func Detect(seqs [][]byte) *Alphabet {
	for _, s := range seqs {
		for _, b := range s {
			if !DNA.known(b) {
				return Protein
			}
		}
	}
	return DNA
}
