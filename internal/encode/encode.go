// Package encode converts mutation tokens into biophysical feature vectors.
package encode

import (
	"fmt"
	"strconv"
	"strings"
)

// Kyte-Doolittle hydrophobicity index (Kyte & Doolittle 1982).
// Trained models depend on these exact published values.
var hydrophobicity = map[byte]float64{
	'A': 1.8, 'R': -4.5, 'N': -3.5, 'D': -3.5, 'C': 2.5,
	'Q': -3.5, 'E': -3.5, 'G': -0.4, 'H': -3.2, 'I': 4.5,
	'L': 3.8, 'K': -3.9, 'M': 1.9, 'F': 2.8, 'P': -1.6,
	'S': -0.8, 'T': -0.7, 'W': -0.9, 'Y': -1.3, 'V': 4.2,
}

// Net side-chain charge at physiological pH. Histidine is partially
// protonated at pH 7.4, hence the fractional value.
var charge = map[byte]float64{
	'A': 0, 'R': 1, 'N': 0, 'D': -1, 'C': 0,
	'Q': 0, 'E': -1, 'G': 0, 'H': 0.1, 'I': 0,
	'L': 0, 'K': 1, 'M': 0, 'F': 0, 'P': 0,
	'S': 0, 'T': 0, 'W': 0, 'Y': 0, 'V': 0,
}

// Molecular weight of the free amino acid in Da.
var molecularWeight = map[byte]float64{
	'A': 89.1, 'R': 174.2, 'N': 132.1, 'D': 133.1, 'C': 121.2,
	'Q': 146.2, 'E': 147.1, 'G': 75.1, 'H': 155.2, 'I': 131.2,
	'L': 131.2, 'K': 146.2, 'M': 149.2, 'F': 165.2, 'P': 115.1,
	'S': 105.1, 'T': 119.1, 'W': 204.2, 'Y': 181.2, 'V': 117.1,
}

var aromatic = map[byte]bool{'F': true, 'W': true, 'Y': true}

// IsStandardAA reports whether b is one of the 20 standard amino acids.
func IsStandardAA(b byte) bool {
	_, ok := hydrophobicity[b]
	return ok
}

// ParseError describes why a mutation token could not be parsed.
// Malformed tokens are an expected input in batch runs, so parse
// failures are values, never panics.
type ParseError struct {
	Token  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse mutation token %q: %s", e.Token, e.Reason)
}

// Parsed is a structurally valid mutation token.
type Parsed struct {
	WildType byte
	Position int
	Mutant   byte
}

// ParseToken parses a mutation label of the form <WT><Position><Mut>,
// e.g. "S83L". A "gene_" prefix is stripped (text through the last
// underscore), surrounding whitespace is trimmed and the token is
// uppercased before parsing.
func ParseToken(token string) (Parsed, error) {
	t := token
	if i := strings.LastIndexByte(t, '_'); i >= 0 {
		t = t[i+1:]
	}
	t = strings.ToUpper(strings.TrimSpace(t))

	if len(t) < 3 {
		return Parsed{}, &ParseError{Token: token, Reason: "too short"}
	}

	wt := t[0]
	mut := t[len(t)-1]
	pos, err := strconv.Atoi(t[1 : len(t)-1])
	if err != nil || pos < 0 {
		return Parsed{}, &ParseError{Token: token, Reason: "position is not a non-negative integer"}
	}
	if !IsStandardAA(wt) {
		return Parsed{}, &ParseError{Token: token, Reason: fmt.Sprintf("non-standard wild-type residue %q", wt)}
	}
	if !IsStandardAA(mut) {
		return Parsed{}, &ParseError{Token: token, Reason: fmt.Sprintf("non-standard mutant residue %q", mut)}
	}
	if wt == mut {
		return Parsed{}, &ParseError{Token: token, Reason: "wild-type and mutant residues are identical"}
	}

	return Parsed{WildType: wt, Position: pos, Mutant: mut}, nil
}

// Vector is the 5-dimensional physicochemical change of a substitution.
type Vector struct {
	DeltaHydrophobicity float64
	DeltaCharge         float64
	DeltaWeight         float64
	AromaticChange      float64 // 1 if exactly one residue is aromatic
	ProlineInvolved     float64 // 1 if either residue is proline
}

// Values returns the vector in the fixed feature order expected by
// trained classifiers.
func (v Vector) Values() [5]float64 {
	return [5]float64{
		v.DeltaHydrophobicity,
		v.DeltaCharge,
		v.DeltaWeight,
		v.AromaticChange,
		v.ProlineInvolved,
	}
}

// Features parses token and computes its feature vector. Each numeric
// dimension is table[mutant] - table[wildtype].
func Features(token string) (Vector, error) {
	p, err := ParseToken(token)
	if err != nil {
		return Vector{}, err
	}

	v := Vector{
		DeltaHydrophobicity: hydrophobicity[p.Mutant] - hydrophobicity[p.WildType],
		DeltaCharge:         charge[p.Mutant] - charge[p.WildType],
		DeltaWeight:         molecularWeight[p.Mutant] - molecularWeight[p.WildType],
	}
	if aromatic[p.Mutant] != aromatic[p.WildType] {
		v.AromaticChange = 1
	}
	if p.WildType == 'P' || p.Mutant == 'P' {
		v.ProlineInvolved = 1
	}
	return v, nil
}
