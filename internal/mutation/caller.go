// Package mutation calls amino-acid substitutions from a global
// alignment.
//
// Positions are tracked with a residue counter that walks the aligned
// reference and only advances on non-gap reference columns, so every
// emitted position indexes the ungapped reference sequence, never the
// alignment column or the query.
package mutation

import (
	"fmt"

	"github.com/bactwatch/amrpipe/internal/align"
)

// Substitution is a single amino-acid difference against the
// reference. Position is 1-based in ungapped reference coordinates.
type Substitution struct {
	Position int
	WildType byte
	Mutant   byte
}

// Token renders the canonical mutation token, e.g. "S83L".
func (s Substitution) Token() string {
	return fmt.Sprintf("%c%d%c", s.WildType, s.Position, s.Mutant)
}

// Call walks an aligned pair column by column and emits one
// Substitution per mismatch between two residues. Columns with a gap
// on either side are skipped: insertions relative to the reference do
// not advance the counter, and deletions are out of scope for a
// substitution-only caller.
//
// Unequal aligned lengths cannot come out of a correct aligner; they
// are reported as a structural error with zero records rather than
// risking misassigned positions.
func Call(pair align.Pair) ([]Substitution, error) {
	if len(pair.Ref) != len(pair.Query) {
		return nil, fmt.Errorf("mutation: aligned lengths differ (%d reference vs %d query)",
			len(pair.Ref), len(pair.Query))
	}

	var subs []Substitution
	refPos := 0
	for i := 0; i < len(pair.Ref); i++ {
		r, q := pair.Ref[i], pair.Query[i]
		if r == align.GapChar {
			continue
		}
		refPos++
		if q == align.GapChar || r == q {
			continue
		}
		subs = append(subs, Substitution{Position: refPos, WildType: r, Mutant: q})
	}
	return subs, nil
}
