// Package molecule implements the molgraph core: the in-memory molecular
// graph, the SMILES reader and writer, and the perception passes (default
// bonds, rings, kekulization, delocalization, implicit hydrogens) that
// resolve the chemistry SMILES leaves implicit.
//
// A Molecule owns a dense ordered atom sequence and a bond set stored as
// index pairs into that sequence; there are no back-pointers.  Atoms are
// appended in encounter order by the parser and their indices stay stable
// for the lifetime of the molecule.  Perception mutates atoms and bonds in
// place; no entity is ever deleted.
package molecule

import (
	"fmt"

	"github.com/turtacn/molgraph/pkg/errors"
	"github.com/turtacn/molgraph/pkg/types/chem"
)

// ─────────────────────────────────────────────────────────────────────────────
// Atom
// ─────────────────────────────────────────────────────────────────────────────

// Atom is a node of the molecular graph.  ImplicitH and Radicals are nil
// after parsing (unless the SMILES set an explicit hydrogen count) and are
// filled by perception; after a full Perceive both are non-nil for every
// atom.
type Atom struct {
	// Element is the element tag; chem.Wildcard represents the `*` atom.
	Element chem.Element

	// Isotope is the mass number; 0 means natural abundance.
	Isotope int

	// Charge is the formal charge in [-8, +8].
	Charge int

	// Delocalized is true iff the atom participates in a delocalized ring
	// system (the lowercase SMILES form).
	Delocalized bool

	// ImplicitH is the implicit hydrogen count; nil means not yet perceived.
	ImplicitH *int

	// Radicals is the radical electron count; nil means not yet perceived.
	Radicals *int

	// Chirality is the tetrahedral point-chirality tag.
	Chirality chem.Chirality
}

// implicitHOrZero returns the implicit hydrogen count, treating "not yet
// perceived" as zero.  Kekulization uses this form of the predicate.
func (a *Atom) implicitHOrZero() int {
	if a.ImplicitH == nil {
		return 0
	}
	return *a.ImplicitH
}

// ─────────────────────────────────────────────────────────────────────────────
// Bond
// ─────────────────────────────────────────────────────────────────────────────

// Bond is an unordered pair of atom indices plus a bond-type tag.
type Bond struct {
	A, B int
	Type chem.BondType
}

// Other returns the endpoint opposite to the given atom index.
func (b *Bond) Other(i int) int {
	if b.A == i {
		return b.B
	}
	return b.A
}

// Joins reports whether the bond connects i and j (in either order).
func (b *Bond) Joins(i, j int) bool {
	return (b.A == i && b.B == j) || (b.A == j && b.B == i)
}

// Has reports whether i is one of the bond's endpoints.
func (b *Bond) Has(i int) bool {
	return b.A == i || b.B == i
}

// ─────────────────────────────────────────────────────────────────────────────
// Molecule
// ─────────────────────────────────────────────────────────────────────────────

// Molecule is the molecular graph.  The zero value is not usable; construct
// with New or Parse.
type Molecule struct {
	atoms []Atom
	bonds []Bond

	// rings holds every simple cycle once it has been perceived; each ring is
	// an ordered atom-index traversal where the first and last entries are
	// adjacent.  ringsPerceived distinguishes "no rings" from "not yet run".
	rings          [][]int
	ringsPerceived bool
}

// New returns an empty molecule.
func New() *Molecule {
	return &Molecule{}
}

// NumAtoms returns the number of atoms.
func (m *Molecule) NumAtoms() int { return len(m.atoms) }

// NumBonds returns the number of bonds.
func (m *Molecule) NumBonds() int { return len(m.bonds) }

// AddAtom appends an atom and returns its index.
func (m *Molecule) AddAtom(a Atom) int {
	m.atoms = append(m.atoms, a)
	return len(m.atoms) - 1
}

// AddBond appends a bond between atoms i and j.  It rejects out-of-range
// indices, self-bonds, and duplicates of an existing unordered pair.
func (m *Molecule) AddBond(i, j int, t chem.BondType) error {
	if i < 0 || i >= len(m.atoms) {
		return errors.New(errors.ErrCodeGraphNoSuchAtom, "bond endpoint out of range").
			WithDetail(fmt.Sprintf("index=%d n_atoms=%d", i, len(m.atoms)))
	}
	if j < 0 || j >= len(m.atoms) {
		return errors.New(errors.ErrCodeGraphNoSuchAtom, "bond endpoint out of range").
			WithDetail(fmt.Sprintf("index=%d n_atoms=%d", j, len(m.atoms)))
	}
	if i == j {
		return errors.New(errors.ErrCodeSMILESRingBond, "bond endpoints identical").
			WithDetail(fmt.Sprintf("index=%d", i))
	}
	for k := range m.bonds {
		if m.bonds[k].Joins(i, j) {
			return errors.New(errors.ErrCodeSMILESRingBond, "duplicate bond").
				WithDetail(fmt.Sprintf("pair=(%d,%d)", i, j))
		}
	}
	m.bonds = append(m.bonds, Bond{A: i, B: j, Type: t})
	return nil
}

// Atom returns a pointer to the atom at index i.
func (m *Molecule) Atom(i int) (*Atom, error) {
	if i < 0 || i >= len(m.atoms) {
		return nil, errors.New(errors.ErrCodeGraphNoSuchAtom, "atom index out of range").
			WithDetail(fmt.Sprintf("index=%d n_atoms=%d", i, len(m.atoms)))
	}
	return &m.atoms[i], nil
}

// Bond returns a pointer to the bond at index i.
func (m *Molecule) Bond(i int) (*Bond, error) {
	if i < 0 || i >= len(m.bonds) {
		return nil, errors.New(errors.ErrCodeGraphNoSuchBond, "bond index out of range").
			WithDetail(fmt.Sprintf("index=%d n_bonds=%d", i, len(m.bonds)))
	}
	return &m.bonds[i], nil
}

// Atoms returns the atom sequence.  The slice is a view; callers must not
// append to or reorder it.
func (m *Molecule) Atoms() []Atom { return m.atoms }

// Bonds returns the bond set.  The slice is a view; callers must not append
// to or reorder it.
func (m *Molecule) Bonds() []Bond { return m.bonds }

// Rings returns the perceived simple cycles, sorted by descending length.
// It fails with a perception error when PerceiveRings has not run.
func (m *Molecule) Rings() ([][]int, error) {
	if !m.ringsPerceived {
		return nil, errors.New(errors.ErrCodePerceptionMissingRings,
			"rings requested before ring perception")
	}
	return m.rings, nil
}

// Neighbors returns the indices of atoms bonded to atom i, in bond-list
// order.
func (m *Molecule) Neighbors(i int) ([]int, error) {
	if i < 0 || i >= len(m.atoms) {
		return nil, errors.New(errors.ErrCodeGraphNoSuchAtom, "atom index out of range").
			WithDetail(fmt.Sprintf("index=%d n_atoms=%d", i, len(m.atoms)))
	}
	return m.neighbors(i), nil
}

// neighbors is the unchecked form used internally.
func (m *Molecule) neighbors(i int) []int {
	var ns []int
	for k := range m.bonds {
		if m.bonds[k].Has(i) {
			ns = append(ns, m.bonds[k].Other(i))
		}
	}
	return ns
}

// BondBetween returns the bond connecting atoms i and j, or nil when no
// such bond exists.
func (m *Molecule) BondBetween(i, j int) *Bond {
	for k := range m.bonds {
		if m.bonds[k].Joins(i, j) {
			return &m.bonds[k]
		}
	}
	return nil
}

// ExplicitValence returns the sum of bond orders incident to atom i, where
// delocalized (and default, up, down) bonds contribute order 1.
func (m *Molecule) ExplicitValence(i int) (int, error) {
	if i < 0 || i >= len(m.atoms) {
		return 0, errors.New(errors.ErrCodeGraphNoSuchAtom, "atom index out of range").
			WithDetail(fmt.Sprintf("index=%d n_atoms=%d", i, len(m.atoms)))
	}
	return m.explicitValence(i), nil
}

// explicitValence is the unchecked form used internally.
func (m *Molecule) explicitValence(i int) int {
	v := 0
	for k := range m.bonds {
		if m.bonds[k].Has(i) {
			v += m.bonds[k].Type.Order()
		}
	}
	return v
}

// doubleBondCount returns the number of double bonds incident to atom i.
func (m *Molecule) doubleBondCount(i int) int {
	n := 0
	for k := range m.bonds {
		if m.bonds[k].Has(i) && m.bonds[k].Type == chem.BondDouble {
			n++
		}
	}
	return n
}

// Clone returns a deep copy of the molecule, including any perceived rings.
func (m *Molecule) Clone() *Molecule {
	c := &Molecule{
		atoms:          make([]Atom, len(m.atoms)),
		bonds:          make([]Bond, len(m.bonds)),
		ringsPerceived: m.ringsPerceived,
	}
	for i := range m.atoms {
		a := m.atoms[i]
		if a.ImplicitH != nil {
			h := *a.ImplicitH
			a.ImplicitH = &h
		}
		if a.Radicals != nil {
			r := *a.Radicals
			a.Radicals = &r
		}
		c.atoms[i] = a
	}
	copy(c.bonds, m.bonds)
	if m.rings != nil {
		c.rings = make([][]int, len(m.rings))
		for i, r := range m.rings {
			ring := make([]int, len(r))
			copy(ring, r)
			c.rings[i] = ring
		}
	}
	return c
}
