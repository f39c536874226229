// Copyright ©2023 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package parsimony

// Flag records the gap history of a profile site.
type Flag uint8

const (
	// NoGap marks a site carrying real residue content.
	NoGap Flag = iota
	// GapOpen marks the first site of an indel opened by the most recent
	// alignment.
	GapOpen
	// GapExt marks a site extending an indel opened by the most recent
	// alignment.
	GapExt
	// GapFixed marks a gap site whose indel event was committed by an
	// earlier alignment; later alignments traverse it without charge.
	GapFixed
)

func (f Flag) String() string {
	switch f {
	case NoGap:
		return "NoGap"
	case GapOpen:
		return "GapOpen"
	case GapExt:
		return "GapExt"
	case GapFixed:
		return "GapFixed"
	}
	return "invalid"
}

// Site is a single column of a profile: the character set consistent with
// the site and the site's gap history.
type Site struct {
	Set  Set
	Flag Flag
}

// gapped returns whether the site is part of a gap opened at or below the
// node that produced it.
func (s Site) gapped() bool { return s.Flag != NoGap }

// Profile is an ordered sequence of sites. Profiles flow from the leaves
// toward the root of the guide tree and are not mutated after emission.
type Profile []Site

// LeafProfile returns the profile of an input sequence. Each residue
// becomes its parsimony set with no gap history.
func LeafProfile(seq []byte, a *Alphabet) Profile {
	p := make(Profile, len(seq))
	for i, s := range Sets(seq, a) {
		p[i] = Site{Set: s, Flag: NoGap}
	}
	return p
}
