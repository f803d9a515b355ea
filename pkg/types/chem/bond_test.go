package chem

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBondTypeFromChar(t *testing.T) {
	tests := []struct {
		c    byte
		want BondType
	}{
		{'-', BondSingle},
		{'=', BondDouble},
		{'#', BondTriple},
		{'$', BondQuadruple},
		{':', BondDelocalized},
		{'/', BondUp},
		{'\\', BondDown},
	}
	for _, tt := range tests {
		got, ok := BondTypeFromChar(tt.c)
		assert.True(t, ok)
		assert.Equal(t, tt.want, got)
	}

	_, ok := BondTypeFromChar('x')
	assert.False(t, ok)
}

func TestBondType_Order(t *testing.T) {
	assert.Equal(t, 1, BondSingle.Order())
	assert.Equal(t, 2, BondDouble.Order())
	assert.Equal(t, 3, BondTriple.Order())
	assert.Equal(t, 4, BondQuadruple.Order())
	assert.Equal(t, 1, BondDelocalized.Order())
	assert.Equal(t, 1, BondDefault.Order())
	assert.Equal(t, 1, BondUp.Order())
}

func TestBondType_Char(t *testing.T) {
	c, ok := BondDouble.Char()
	assert.True(t, ok)
	assert.Equal(t, byte('='), c)

	_, ok = BondDefault.Char()
	assert.False(t, ok)
}

func TestChirality_SMILES(t *testing.T) {
	assert.Equal(t, "@", ChiralityCounterClockwise.SMILES())
	assert.Equal(t, "@@", ChiralityClockwise.SMILES())
	assert.Equal(t, "", ChiralityUndefined.SMILES())
}
