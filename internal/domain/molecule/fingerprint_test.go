package molecule

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fingerprintOf(t *testing.T, smiles string) *Fingerprint {
	t.Helper()
	m, err := ParseAndPerceive(context.Background(), smiles)
	require.NoError(t, err)
	fp, err := m.PathFingerprint(DefaultFingerprintPathLen, DefaultFingerprintBits)
	require.NoError(t, err)
	return fp
}

func TestFingerprint_Bits(t *testing.T) {
	fp := NewFingerprint(make([]byte, 16), 128)
	assert.Equal(t, 0, fp.NumOnBits)
	fp.SetBit(7)
	fp.SetBit(7)
	fp.SetBit(100)
	assert.Equal(t, 2, fp.NumOnBits)
	assert.True(t, fp.GetBit(7))
	assert.True(t, fp.GetBit(100))
	assert.False(t, fp.GetBit(8))
	assert.False(t, fp.GetBit(1000))
}

func TestPathFingerprint_Deterministic(t *testing.T) {
	fp1 := fingerprintOf(t, "CCO")
	fp2 := fingerprintOf(t, "CCO")
	assert.Equal(t, fp1.Bits, fp2.Bits)
	assert.Greater(t, fp1.NumOnBits, 0)
}

func TestPathFingerprint_InvalidWidth(t *testing.T) {
	m, err := Parse("C")
	require.NoError(t, err)
	_, err = m.PathFingerprint(7, 100)
	assert.Error(t, err)
}

func TestTanimoto_IdenticalMolecules(t *testing.T) {
	sim, err := TanimotoSimilarity(fingerprintOf(t, "c1ccccc1"), fingerprintOf(t, "c1ccccc1"))
	require.NoError(t, err)
	assert.Equal(t, 1.0, sim)
}

func TestTanimoto_RelatedBeatsUnrelated(t *testing.T) {
	benzene := fingerprintOf(t, "c1ccccc1")
	toluene := fingerprintOf(t, "Cc1ccccc1")
	water := fingerprintOf(t, "O")

	related, err := TanimotoSimilarity(benzene, toluene)
	require.NoError(t, err)
	unrelated, err := TanimotoSimilarity(benzene, water)
	require.NoError(t, err)
	assert.Greater(t, related, unrelated)
}

func TestTanimoto_DimensionMismatch(t *testing.T) {
	a := NewFingerprint(make([]byte, 16), 128)
	b := NewFingerprint(make([]byte, 32), 256)
	_, err := TanimotoSimilarity(a, b)
	assert.Error(t, err)
}

func TestSimilarity_Convenience(t *testing.T) {
	m1, err := ParseAndPerceive(context.Background(), "CCO")
	require.NoError(t, err)
	m2, err := ParseAndPerceive(context.Background(), "CCO")
	require.NoError(t, err)
	sim, err := Similarity(m1, m2)
	require.NoError(t, err)
	assert.Equal(t, 1.0, sim)
}
