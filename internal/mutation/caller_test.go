package mutation

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bactwatch/amrpipe/internal/align"
	"github.com/bactwatch/amrpipe/internal/encode"
)

func TestCallSingleSubstitution(t *testing.T) {
	subs, err := Call(align.Pair{Ref: "MKTIAL", Query: "MRTIAL"})
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, Substitution{Position: 2, WildType: 'K', Mutant: 'R'}, subs[0])
	assert.Equal(t, "K2R", subs[0].Token())
}

func TestCallIdentityYieldsNothing(t *testing.T) {
	subs, err := Call(align.Pair{Ref: "MKTIAL", Query: "MKTIAL"})
	require.NoError(t, err)
	assert.Empty(t, subs)
}

func TestCallInsertionIsInvisible(t *testing.T) {
	// Query carries an extra residue, aligned as a reference gap.
	subs, err := Call(align.Pair{Ref: "MKT-IA", Query: "MKTVIA"})
	require.NoError(t, err)
	assert.Empty(t, subs)
}

func TestCallDeletionIsSkipped(t *testing.T) {
	subs, err := Call(align.Pair{Ref: "MKTVIA", Query: "MKT-IA"})
	require.NoError(t, err)
	assert.Empty(t, subs)
}

func TestCallPositionSkipsReferenceGaps(t *testing.T) {
	// The gap column must not advance the counter: the L/V mismatch
	// sits at reference position 4, not alignment column 5.
	subs, err := Call(align.Pair{Ref: "MKT-LA", Query: "MKTVVA"})
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, Substitution{Position: 4, WildType: 'L', Mutant: 'V'}, subs[0])
}

func TestCallMismatchAfterDeletion(t *testing.T) {
	// Deletion consumes reference positions even though it emits
	// nothing, so the trailing mismatch is at position 6.
	subs, err := Call(align.Pair{Ref: "MKTVIA", Query: "MK--IG"})
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, Substitution{Position: 6, WildType: 'A', Mutant: 'G'}, subs[0])
}

func TestCallLengthMismatch(t *testing.T) {
	subs, err := Call(align.Pair{Ref: "MKTIA", Query: "MKT"})
	assert.Error(t, err)
	assert.Empty(t, subs)
}

// TestCallPositionInvariant checks the residue-counter property on
// randomized alignments: emitted positions are a strictly increasing
// subset of {1..k} for a reference with k non-gap residues, and each
// position matches the ungapped reference residue it names.
func TestCallPositionInvariant(t *testing.T) {
	const residues = "ARNDCQEGHILKMFPSTWYV"
	rng := rand.New(rand.NewSource(7))

	for trial := 0; trial < 200; trial++ {
		n := 5 + rng.Intn(60)
		ref := make([]byte, n)
		query := make([]byte, n)
		for i := range ref {
			switch rng.Intn(10) {
			case 0:
				ref[i] = align.GapChar
				query[i] = residues[rng.Intn(20)]
			case 1:
				ref[i] = residues[rng.Intn(20)]
				query[i] = align.GapChar
			default:
				ref[i] = residues[rng.Intn(20)]
				query[i] = residues[rng.Intn(20)]
			}
		}

		pair := align.Pair{Ref: string(ref), Query: string(query)}
		subs, err := Call(pair)
		require.NoError(t, err)

		ungapped := strings.ReplaceAll(pair.Ref, "-", "")
		k := len(ungapped)

		prev := 0
		for _, s := range subs {
			assert.Greater(t, s.Position, prev, "positions must strictly increase")
			assert.LessOrEqual(t, s.Position, k)
			assert.Equal(t, ungapped[s.Position-1], s.WildType,
				"position must index the ungapped reference")
			assert.NotEqual(t, s.WildType, s.Mutant)
			prev = s.Position
		}
	}
}

// TestTokenRoundTrip checks that formatted tokens parse back to the
// exact substitution they came from.
func TestTokenRoundTrip(t *testing.T) {
	subs := []Substitution{
		{Position: 2, WildType: 'K', Mutant: 'R'},
		{Position: 83, WildType: 'S', Mutant: 'L'},
		{Position: 2576, WildType: 'G', Mutant: 'T'},
	}
	for _, s := range subs {
		parsed, err := encode.ParseToken(s.Token())
		require.NoError(t, err, s.Token())
		assert.Equal(t, s.WildType, parsed.WildType)
		assert.Equal(t, s.Position, parsed.Position)
		assert.Equal(t, s.Mutant, parsed.Mutant)
	}
}

// TestCallAfterAligner runs the full aligner-to-caller path.
func TestCallAfterAligner(t *testing.T) {
	pair, err := align.Align("MKTIAL", "MRTIAL")
	require.NoError(t, err)
	subs, err := Call(pair)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "K2R", subs[0].Token())

	// Scenario from gyrA quinolone-resistance calling.
	pair, err = align.Align("MKTIA", "MKTVIA")
	require.NoError(t, err)
	subs, err = Call(pair)
	require.NoError(t, err)
	assert.Empty(t, subs)
}
