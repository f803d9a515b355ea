package molecule

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/molgraph/pkg/errors"
)

func perceiveRings(t *testing.T, smiles string) *Molecule {
	t.Helper()
	m, err := Parse(smiles)
	require.NoError(t, err)
	m.PerceiveDefaultBonds()
	require.NoError(t, m.PerceiveRings(context.Background()))
	return m
}

func TestPerceiveRings_Acyclic(t *testing.T) {
	m := perceiveRings(t, "CCO")
	rings, err := m.Rings()
	require.NoError(t, err)
	assert.Empty(t, rings)
}

func TestPerceiveRings_Triangle(t *testing.T) {
	m := perceiveRings(t, "C1CC1")
	rings, err := m.Rings()
	require.NoError(t, err)
	require.Len(t, rings, 1)
	assert.Equal(t, []int{0, 1, 2}, rings[0])
}

func TestPerceiveRings_Benzene(t *testing.T) {
	m := perceiveRings(t, "c1ccccc1")
	rings, err := m.Rings()
	require.NoError(t, err)
	require.Len(t, rings, 1)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5}, rings[0])
}

func TestPerceiveRings_Naphthalene(t *testing.T) {
	// Fused bicyclic: two six-rings plus the ten-ring envelope, largest
	// first.
	m := perceiveRings(t, "c1ccc2ccccc2c1")
	rings, err := m.Rings()
	require.NoError(t, err)
	require.Len(t, rings, 3)
	assert.Len(t, rings[0], 10)
	assert.Len(t, rings[1], 6)
	assert.Len(t, rings[2], 6)
}

func TestPerceiveRings_RingBondsExist(t *testing.T) {
	m := perceiveRings(t, "c1ccc2ccccc2c1")
	rings, _ := m.Rings()
	for _, ring := range rings {
		for i := range ring {
			j := (i + 1) % len(ring)
			assert.NotNil(t, m.BondBetween(ring[i], ring[j]),
				"ring pair (%d,%d) must be bonded", ring[i], ring[j])
		}
	}
}

func TestPerceiveRings_NoDuplicatesUnderRotation(t *testing.T) {
	m := perceiveRings(t, "C1CCCCC1")
	rings, _ := m.Rings()
	require.Len(t, rings, 1)
}

func TestPerceiveRings_Cancellation(t *testing.T) {
	m, err := Parse("c1ccc2ccccc2c1")
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = m.PerceiveRings(ctx)
	require.Error(t, err)
	// Molecule left in its pre-call state.
	_, err = m.Rings()
	assert.True(t, errors.IsCode(err, errors.ErrCodePerceptionMissingRings))
}

func TestRings_BeforePerceptionIsError(t *testing.T) {
	m, err := Parse("C1CC1")
	require.NoError(t, err)
	_, err = m.Rings()
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodePerceptionMissingRings))
}

func TestPerceiveRings_EmptyMolecule(t *testing.T) {
	m := New()
	require.NoError(t, m.PerceiveRings(context.Background()))
	rings, err := m.Rings()
	require.NoError(t, err)
	assert.Empty(t, rings)
}
