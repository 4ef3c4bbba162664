package encode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseToken(t *testing.T) {
	tests := []struct {
		name    string
		token   string
		want    Parsed
		wantErr bool
	}{
		{"simple", "S83L", Parsed{'S', 83, 'L'}, false},
		{"gene prefix stripped", "gyrA_S83L", Parsed{'S', 83, 'L'}, false},
		{"only text after last underscore", "ecoli_gyrA_D87N", Parsed{'D', 87, 'N'}, false},
		{"lowercase and whitespace", "  s83l ", Parsed{'S', 83, 'L'}, false},
		{"multi-digit position", "G2576T", Parsed{'G', 2576, 'T'}, false},
		{"too short", "AL", Parsed{}, true},
		{"empty", "", Parsed{}, true},
		{"non-integer position", "SxL", Parsed{}, true},
		{"non-standard wild-type", "X5L", Parsed{}, true},
		{"non-standard mutant", "S5Z", Parsed{}, true},
		{"synonymous", "A83A", Parsed{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseToken(tt.token)
			if tt.wantErr {
				require.Error(t, err)
				var perr *ParseError
				assert.ErrorAs(t, err, &perr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFeaturesS83L(t *testing.T) {
	v, err := Features("S83L")
	require.NoError(t, err)

	// Kyte-Doolittle: L=3.8, S=-0.8
	assert.InDelta(t, 4.6, v.DeltaHydrophobicity, 1e-9)
	assert.InDelta(t, 0.0, v.DeltaCharge, 1e-9)
	// MW: L=131.2, S=105.1
	assert.InDelta(t, 26.1, v.DeltaWeight, 1e-9)
	assert.Equal(t, 0.0, v.AromaticChange)
	assert.Equal(t, 0.0, v.ProlineInvolved)
}

func TestFeaturesIndicators(t *testing.T) {
	// S -> F gains an aromatic ring.
	v, err := Features("S83F")
	require.NoError(t, err)
	assert.Equal(t, 1.0, v.AromaticChange)
	assert.Equal(t, 0.0, v.ProlineInvolved)

	// F -> W stays aromatic.
	v, err = Features("F10W")
	require.NoError(t, err)
	assert.Equal(t, 0.0, v.AromaticChange)

	// Proline on either side of the substitution.
	v, err = Features("P12A")
	require.NoError(t, err)
	assert.Equal(t, 1.0, v.ProlineInvolved)
	v, err = Features("A12P")
	require.NoError(t, err)
	assert.Equal(t, 1.0, v.ProlineInvolved)
}

func TestFeaturesCharge(t *testing.T) {
	// D (-1) -> K (+1)
	v, err := Features("D87K")
	require.NoError(t, err)
	assert.InDelta(t, 2.0, v.DeltaCharge, 1e-9)
}

func TestFeaturesRejectsInvalid(t *testing.T) {
	for _, token := range []string{"A83A", "X5Z", "AL"} {
		_, err := Features(token)
		assert.Error(t, err, token)
	}
}

func TestVectorValuesOrder(t *testing.T) {
	v := Vector{1, 2, 3, 4, 5}
	assert.Equal(t, [5]float64{1, 2, 3, 4, 5}, v.Values())
}
