package molecule

import (
	"context"
	"fmt"

	"github.com/turtacn/molgraph/pkg/errors"
	"github.com/turtacn/molgraph/pkg/types/chem"
)

// PerceiveDefaultBonds resolves every parser-placeholder bond: between two
// delocalized atoms it becomes delocalized, everywhere else single.  The
// pass is idempotent.
func (m *Molecule) PerceiveDefaultBonds() {
	for k := range m.bonds {
		if m.bonds[k].Type != chem.BondDefault {
			continue
		}
		if m.atoms[m.bonds[k].A].Delocalized && m.atoms[m.bonds[k].B].Delocalized {
			m.bonds[k].Type = chem.BondDelocalized
		} else {
			m.bonds[k].Type = chem.BondSingle
		}
	}
}

// PerceiveImplicitH fills in every atom's implicit hydrogen and radical
// electron counts.  The arithmetic runs over a kekulized copy so that
// delocalized systems contribute their true bond orders; the copy itself is
// discarded.
//
// An atom whose SMILES set an explicit hydrogen count keeps it; the gap to
// the valence-derived count becomes radical electrons.
func (m *Molecule) PerceiveImplicitH() error {
	kek, err := m.Kekulize()
	if err != nil {
		return err
	}
	for i := range m.atoms {
		bo := kek.explicitValence(i)
		mv := kek.maxValence(i)
		if bo > mv {
			return errors.New(errors.ErrCodePerceptionBondOrder,
				"explicit bond order exceeds maximum valence").
				WithDetail(fmt.Sprintf("atom=%d element=%s order=%d max=%d",
					i, m.atoms[i].Element, bo, mv))
		}
		h := mv - bo
		a := &m.atoms[i]
		if a.ImplicitH == nil {
			hh := h
			zero := 0
			a.ImplicitH = &hh
			a.Radicals = &zero
		} else {
			r := h - *a.ImplicitH
			if r < 0 {
				return errors.New(errors.ErrCodePerceptionBondOrder,
					"explicit hydrogen count exceeds maximum valence").
					WithDetail(fmt.Sprintf("atom=%d element=%s order=%d hcount=%d max=%d",
						i, a.Element, bo, *a.ImplicitH, mv))
			}
			a.Radicals = &r
		}
	}
	return nil
}

// Perceive runs the full perception pipeline on a freshly parsed molecule:
// default-bond resolution, ring perception, then implicit-hydrogen
// perception (which kekulizes internally).  After a successful Perceive no
// bond has the default type and every atom has definite hydrogen and
// radical counts.
func (m *Molecule) Perceive(ctx context.Context) error {
	m.PerceiveDefaultBonds()
	if err := m.PerceiveRings(ctx); err != nil {
		return err
	}
	return m.PerceiveImplicitH()
}

// ParseAndPerceive is the common read path: parse the SMILES string and run
// the full perception pipeline on the result.
func ParseAndPerceive(ctx context.Context, s string) (*Molecule, error) {
	m, err := Parse(s)
	if err != nil {
		return nil, err
	}
	if err := m.Perceive(ctx); err != nil {
		return nil, err
	}
	return m, nil
}
