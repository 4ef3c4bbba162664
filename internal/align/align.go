// Package align implements global protein sequence alignment.
//
// The aligner is a Needleman-Wunsch variant with affine gap penalties
// (Gotoh's three-layer recurrence) over BLOSUM62. The gap-open penalty
// is an order of magnitude larger than gap-extend so that a single
// residue difference aligns as a substitution rather than a gap pair.
package align

import (
	"errors"
	"math"
)

// Gap penalties, in BLOSUM62 score units.
const (
	GapOpen   = 10.0
	GapExtend = 0.5
)

// GapChar marks a gap column in an aligned string.
const GapChar = '-'

// Pair is the gap-padded result of a global alignment. Ref and Query
// always have equal length.
type Pair struct {
	Ref   string
	Query string
	Score float64
}

// ErrEmptySequence is returned when either input sequence is empty.
// Callers treat this as a reportable per-unit condition.
var ErrEmptySequence = errors.New("align: empty input sequence")

// Traceback states for the three DP layers.
const (
	fromSub = 0 // substitution layer
	fromRef = 1 // gap in query, reference residue consumed
	fromQry = 2 // gap in reference, query residue consumed
)

// Align globally aligns a reference against a query sequence. The
// reference is always the first output row so downstream position
// tracking stays reference-relative.
//
// When several alignments score equally the traceback prefers a
// substitution over a gap in the query over a gap in the reference,
// making the result deterministic.
func Align(ref, query string) (Pair, error) {
	if len(ref) == 0 || len(query) == 0 {
		return Pair{}, ErrEmptySequence
	}

	n, m := len(ref), len(query)
	w := m + 1
	negInf := math.Inf(-1)

	// Three score layers: sub (diagonal), refGap (gap in query) and
	// qryGap (gap in reference), flattened row-major.
	sub := make([]float64, (n+1)*w)
	refGap := make([]float64, (n+1)*w)
	qryGap := make([]float64, (n+1)*w)
	tbSub := make([]uint8, (n+1)*w)
	tbRef := make([]uint8, (n+1)*w)
	tbQry := make([]uint8, (n+1)*w)

	sub[0] = 0
	refGap[0] = negInf
	qryGap[0] = negInf
	for i := 1; i <= n; i++ {
		sub[i*w] = negInf
		qryGap[i*w] = negInf
		refGap[i*w] = -GapOpen - float64(i-1)*GapExtend
		if i == 1 {
			tbRef[i*w] = fromSub
		} else {
			tbRef[i*w] = fromRef
		}
	}
	for j := 1; j <= m; j++ {
		sub[j] = negInf
		refGap[j] = negInf
		qryGap[j] = -GapOpen - float64(j-1)*GapExtend
		if j == 1 {
			tbQry[j] = fromSub
		} else {
			tbQry[j] = fromQry
		}
	}

	for i := 1; i <= n; i++ {
		for j := 1; j <= m; j++ {
			cur := i*w + j
			diag := (i-1)*w + (j - 1)
			up := (i-1)*w + j
			left := i*w + (j - 1)

			// Substitution layer: best predecessor on the diagonal.
			best, src := sub[diag], uint8(fromSub)
			if refGap[diag] > best {
				best, src = refGap[diag], fromRef
			}
			if qryGap[diag] > best {
				best, src = qryGap[diag], fromQry
			}
			sub[cur] = best + Score(ref[i-1], query[j-1])
			tbSub[cur] = src

			// Gap in query: consume a reference residue.
			open := sub[up] - GapOpen
			extend := refGap[up] - GapExtend
			if open >= extend {
				refGap[cur], tbRef[cur] = open, fromSub
			} else {
				refGap[cur], tbRef[cur] = extend, fromRef
			}

			// Gap in reference: consume a query residue.
			open = sub[left] - GapOpen
			extend = qryGap[left] - GapExtend
			if open >= extend {
				qryGap[cur], tbQry[cur] = open, fromSub
			} else {
				qryGap[cur], tbQry[cur] = extend, fromQry
			}
		}
	}

	end := n*w + m
	score, state := sub[end], uint8(fromSub)
	if refGap[end] > score {
		score, state = refGap[end], fromRef
	}
	if qryGap[end] > score {
		score, state = qryGap[end], fromQry
	}

	// Traceback, building the alignment back to front.
	refAln := make([]byte, 0, n+m)
	qryAln := make([]byte, 0, n+m)
	i, j := n, m
	for i > 0 || j > 0 {
		cur := i*w + j
		switch state {
		case fromSub:
			refAln = append(refAln, ref[i-1])
			qryAln = append(qryAln, query[j-1])
			state = tbSub[cur]
			i--
			j--
		case fromRef:
			refAln = append(refAln, ref[i-1])
			qryAln = append(qryAln, GapChar)
			state = tbRef[cur]
			i--
		default:
			refAln = append(refAln, GapChar)
			qryAln = append(qryAln, query[j-1])
			state = tbQry[cur]
			j--
		}
	}

	reverse(refAln)
	reverse(qryAln)

	return Pair{Ref: string(refAln), Query: string(qryAln), Score: score}, nil
}

func reverse(b []byte) {
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
}
