package molecule

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/molgraph/pkg/errors"
)

func perceived(t *testing.T, smiles string) *Molecule {
	t.Helper()
	m, err := ParseAndPerceive(context.Background(), smiles)
	require.NoError(t, err)
	return m
}

func implicitH(t *testing.T, m *Molecule, i int) int {
	t.Helper()
	a, err := m.Atom(i)
	require.NoError(t, err)
	require.NotNil(t, a.ImplicitH, "atom %d not perceived", i)
	return *a.ImplicitH
}

func TestPerceiveImplicitH_Methane(t *testing.T) {
	m := perceived(t, "C")
	assert.Equal(t, 4, implicitH(t, m, 0))
	assert.Equal(t, 0, *m.Atoms()[0].Radicals)
}

func TestPerceiveImplicitH_Propene(t *testing.T) {
	m := perceived(t, "CC=C")
	assert.Equal(t, 3, implicitH(t, m, 0))
	assert.Equal(t, 1, implicitH(t, m, 1))
	assert.Equal(t, 2, implicitH(t, m, 2))
}

func TestPerceiveImplicitH_Benzene(t *testing.T) {
	m := perceived(t, "c1ccccc1")
	for i := 0; i < 6; i++ {
		assert.Equal(t, 1, implicitH(t, m, i), "atom %d", i)
	}
	// Original bonds stay delocalized; only the internal copy is kekulized.
	for _, b := range m.Bonds() {
		assert.True(t, b.Type.Order() == 1)
	}
}

func TestPerceiveImplicitH_Hydroxide(t *testing.T) {
	m := perceived(t, "[OH-]")
	a := m.Atoms()[0]
	assert.Equal(t, -1, a.Charge)
	assert.Equal(t, 1, *a.ImplicitH)
	assert.Equal(t, 0, *a.Radicals)
}

func TestPerceiveImplicitH_HeavyHydroxide(t *testing.T) {
	m := perceived(t, "[18OH-]")
	a := m.Atoms()[0]
	assert.Equal(t, 18, a.Isotope)
	assert.Equal(t, -1, a.Charge)
	assert.Equal(t, 1, *a.ImplicitH)
}

func TestPerceiveImplicitH_RadicalFromExplicitH(t *testing.T) {
	// [CH2] pins the hydrogen count below the valence-derived default; the
	// two missing bonds become radical electrons.
	m := perceived(t, "[CH2]")
	a := m.Atoms()[0]
	assert.Equal(t, 2, *a.ImplicitH)
	assert.Equal(t, 2, *a.Radicals)
}

func TestPerceiveImplicitH_Hypervalent(t *testing.T) {
	m := perceived(t, "FS(F)(F)(F)(F)F")
	assert.Equal(t, 0, implicitH(t, m, 1), "sulfur is saturated at valence six")
	for _, i := range []int{0, 2, 3, 4, 5, 6} {
		assert.Equal(t, 0, implicitH(t, m, i), "fluorine %d", i)
	}
}

func TestPerceiveImplicitH_Wildcard(t *testing.T) {
	m := perceived(t, "*")
	assert.Equal(t, 0, implicitH(t, m, 0))
}

func TestPerceiveImplicitH_ExplicitHTooHigh(t *testing.T) {
	m, err := Parse("[CH5]")
	require.NoError(t, err)
	err = m.Perceive(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodePerceptionBondOrder))
}

func TestPerceive_InvariantHoldsAcrossInputs(t *testing.T) {
	// explicitValence + implicitH + radicals = maxValence for every atom.
	for _, s := range []string{"C", "CC=C", "c1ccccc1", "c1[nH]ccc1", "CC(C(F)F)C", "[OH-]", "FS(F)(F)(F)(F)F"} {
		m := perceived(t, s)
		k, err := m.Kekulize()
		require.NoError(t, err, s)
		for i := range k.Atoms() {
			ev, err := k.ExplicitValence(i)
			require.NoError(t, err)
			mv, err := k.MaxValence(i)
			require.NoError(t, err)
			a := m.Atoms()[i]
			assert.Equal(t, mv, ev+*a.ImplicitH+*a.Radicals,
				"%s atom %d: valence balance", s, i)
		}
	}
}

func TestPerceive_KekulizationFailurePropagates(t *testing.T) {
	m, err := Parse("c1cc1")
	require.NoError(t, err)
	err = m.Perceive(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodePerceptionKekulization))
}

func TestPerceive_NoDefaultBondsRemain(t *testing.T) {
	m := perceived(t, "CC(C(F)F)C")
	for _, b := range m.Bonds() {
		assert.NotEqual(t, "default", b.Type.String())
	}
}
