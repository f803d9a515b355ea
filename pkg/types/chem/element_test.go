package chem

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestElement_Symbol(t *testing.T) {
	assert.Equal(t, "C", C.Symbol())
	assert.Equal(t, "Cl", Cl.Symbol())
	assert.Equal(t, "*", Wildcard.Symbol())
	assert.Equal(t, "?", Element(200).Symbol())
}

func TestFromSymbol(t *testing.T) {
	e, ok := FromSymbol("Br")
	assert.True(t, ok)
	assert.Equal(t, Br, e)

	_, ok = FromSymbol("Xx")
	assert.False(t, ok)
}

func TestFromSMILESSymbol(t *testing.T) {
	e, deloc, ok := FromSMILESSymbol("c")
	assert.True(t, ok)
	assert.True(t, deloc)
	assert.Equal(t, C, e)

	e, deloc, ok = FromSMILESSymbol("Cl")
	assert.True(t, ok)
	assert.False(t, deloc)
	assert.Equal(t, Cl, e)

	// Only the aromatic subset has lowercase forms.
	_, _, ok = FromSMILESSymbol("f")
	assert.False(t, ok)

	_, _, ok = FromSMILESSymbol("")
	assert.False(t, ok)
}

func TestElement_Subsets(t *testing.T) {
	assert.True(t, C.InOrganicSubset())
	assert.True(t, Br.InOrganicSubset())
	assert.True(t, Wildcard.InOrganicSubset())
	assert.False(t, Na.InOrganicSubset())

	assert.True(t, N.CanDelocalize())
	assert.False(t, F.CanDelocalize())
}

func TestElement_Tables(t *testing.T) {
	assert.InDelta(t, 12.011, C.Mass(), 1e-9)
	assert.Equal(t, 4, C.ValenceElectrons())
	assert.Equal(t, 7, Cl.ValenceElectrons())
	assert.Equal(t, 0, Wildcard.ValenceElectrons())
}
