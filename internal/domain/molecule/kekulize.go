package molecule

import (
	"fmt"

	"github.com/turtacn/molgraph/pkg/errors"
	"github.com/turtacn/molgraph/pkg/types/chem"
)

// needsKekulization reports whether atom i still has to receive a double
// bond: it is delocalized, carries no double bond yet, and has valence
// capacity left.
func (m *Molecule) needsKekulization(i int) bool {
	a := &m.atoms[i]
	return a.Delocalized &&
		m.doubleBondCount(i) == 0 &&
		m.explicitValence(i)+a.implicitHOrZero() < m.maxValence(i)
}

// Kekulize returns a clone in which every delocalized bond has been resolved
// into an alternating single/double pattern and no atom keeps its
// delocalized flag.  The receiver is not modified.
//
// Rings are processed shortest-first (the stored list, which is sorted by
// descending length, iterated in reverse) with no backtracking; segments of
// odd length are deferred in the hope that an overlapping ring resolves
// them.  Some inputs (an odd ring with no path break, such as c1cc1) are
// legitimately un-kekulizable and fail with a kekulization error whose
// detail carries the partially kekulized molecule's SMILES rendering.
func (m *Molecule) Kekulize() (*Molecule, error) {
	if !m.ringsPerceived {
		return nil, errors.New(errors.ErrCodePerceptionMissingRings,
			"kekulization requires perceived rings")
	}
	k := m.Clone()
	for i := len(k.rings) - 1; i >= 0; i-- {
		k.kekulizeRing(k.rings[i])
	}

	for i := range k.atoms {
		if k.atoms[i].Delocalized {
			return nil, k.kekulizationFailure(fmt.Sprintf("atom %d still delocalized", i))
		}
	}
	for i := range k.bonds {
		if k.bonds[i].Type == chem.BondDelocalized {
			return nil, k.kekulizationFailure(
				fmt.Sprintf("bond (%d,%d) still delocalized", k.bonds[i].A, k.bonds[i].B))
		}
	}
	return k, nil
}

// kekulizationFailure builds the error for an incomplete pass, attaching the
// partial molecule's SMILES for diagnosis when it can be rendered.
func (k *Molecule) kekulizationFailure(msg string) *errors.AppError {
	e := errors.New(errors.ErrCodePerceptionKekulization, msg)
	if s, err := k.SMILES(); err == nil {
		return e.WithDetail("partial result: " + s)
	}
	return e
}

// kekulizeRing resolves one ring: break atoms split the cyclic sequence into
// runs that each admit a unique alternating assignment.
func (k *Molecule) kekulizeRing(ring []int) {
	n := len(ring)

	// Positions whose atom cannot take part in kekulization are breaks; the
	// atoms are finalized immediately.
	var breaks []int
	for pos := 0; pos < n; pos++ {
		if !k.needsKekulization(ring[pos]) {
			breaks = append(breaks, pos)
		}
	}
	for _, pos := range breaks {
		ai := ring[pos]
		k.atoms[ai].Delocalized = false
		for b := range k.bonds {
			if k.bonds[b].Has(ai) && k.bonds[b].Type == chem.BondDelocalized {
				k.bonds[b].Type = chem.BondSingle
			}
		}
	}

	var segments [][]int
	switch len(breaks) {
	case 0:
		// No break: the whole ring is one cyclic segment, resolvable only
		// when its length is even; odd rings are deferred to other rings.
		if n%2 == 0 {
			segments = append(segments, ring)
		}
	case 1:
		seg := make([]int, 0, n-1)
		for i := 1; i < n; i++ {
			seg = append(seg, ring[(breaks[0]+i)%n])
		}
		segments = append(segments, seg)
	default:
		for bi := 0; bi < len(breaks); bi++ {
			from := breaks[bi]
			to := breaks[(bi+1)%len(breaks)]
			var seg []int
			for p := (from + 1) % n; p != to; p = (p + 1) % n {
				seg = append(seg, ring[p])
			}
			if len(seg) > 0 {
				segments = append(segments, seg)
			}
		}
	}

	for _, seg := range segments {
		k.kekulizeSegment(seg)
	}
}

// kekulizeSegment assigns alternating bond orders along a run of atoms that
// must each contribute to exactly one double bond.  Odd runs are
// unsatisfiable in isolation and are skipped.
func (k *Molecule) kekulizeSegment(seg []int) {
	if len(seg)%2 == 1 {
		return
	}
	for i := 0; i+1 < len(seg); i++ {
		b := k.BondBetween(seg[i], seg[i+1])
		if b == nil {
			continue
		}
		if i%2 == 0 {
			b.Type = chem.BondDouble
		} else {
			b.Type = chem.BondSingle
		}
	}
	if len(seg) > 2 {
		if b := k.BondBetween(seg[0], seg[len(seg)-1]); b != nil {
			b.Type = chem.BondSingle
		}
	}
	for _, ai := range seg {
		k.atoms[ai].Delocalized = false
	}
}
