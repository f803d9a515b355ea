package molecule

import (
	"github.com/turtacn/molgraph/pkg/errors"
	"github.com/turtacn/molgraph/pkg/types/chem"
)

// needsDelocalization reports whether atom i of the given ring can join a
// delocalized system: it is already delocalized, or it carries exactly one
// double bond whose other endpoint lies inside the same ring.
func (m *Molecule) needsDelocalization(i int, inRing map[int]bool) bool {
	if m.atoms[i].Delocalized {
		return true
	}
	if !m.atoms[i].Element.CanDelocalize() {
		return false
	}
	ringDoubles := 0
	for b := range m.bonds {
		if m.bonds[b].Has(i) && m.bonds[b].Type == chem.BondDouble && inRing[m.bonds[b].Other(i)] {
			ringDoubles++
		}
	}
	return ringDoubles == 1
}

// Delocalize is the inverse of Kekulize: every ring whose atoms all qualify
// for delocalization is collapsed onto the flat delocalized bond type, and
// its atoms are flagged.  The molecule is mutated in place; rings that do
// not fully qualify are left untouched, which makes the pass idempotent.
func (m *Molecule) Delocalize() error {
	if !m.ringsPerceived {
		return errors.New(errors.ErrCodePerceptionMissingRings,
			"delocalization requires perceived rings")
	}
	for _, ring := range m.rings {
		inRing := make(map[int]bool, len(ring))
		for _, ai := range ring {
			inRing[ai] = true
		}
		qualifies := true
		for _, ai := range ring {
			if !m.needsDelocalization(ai, inRing) {
				qualifies = false
				break
			}
		}
		if !qualifies {
			continue
		}
		for _, ai := range ring {
			m.atoms[ai].Delocalized = true
		}
		for i := range ring {
			if b := m.BondBetween(ring[i], ring[(i+1)%len(ring)]); b != nil {
				b.Type = chem.BondDelocalized
			}
		}
	}
	return nil
}
