package molecule

import "github.com/turtacn/molgraph/pkg/types/chem"

// standardValences lists the allowed valence states per element, lowest
// first.  Elements absent from the table fall back to their current explicit
// valence, which makes MaxValence permissive for metals and other atoms the
// octet arithmetic does not cover.
//
// Hypervalent main-group states (S, P, Cl, Br, I) are included so that SF6 or
// perchlorate perceive without error; the table is deliberately substitutable
// without touching any other contract.
var standardValences = map[chem.Element][]int{
	chem.H:  {1},
	chem.B:  {3},
	chem.C:  {4},
	chem.N:  {3, 5},
	chem.O:  {2},
	chem.F:  {1},
	chem.Si: {4},
	chem.P:  {3, 5},
	chem.S:  {2, 4, 6},
	chem.Cl: {1, 3, 5, 7},
	chem.Br: {1, 3, 5, 7},
	chem.I:  {1, 3, 5, 7},
	chem.As: {3, 5},
	chem.Se: {2, 4, 6},
	chem.Te: {2, 4, 6},
}

// MaxValence is the maximum-allowed-valence oracle for atom i: the smallest
// standard valence state that accommodates the atom's current explicit
// valence, adjusted for formal charge.
//
// Charge adjustment: boron and carbon lose capacity with charge of either
// sign except borate-style anions (B⁻ gains a bond, as in BH4⁻), so both use
// base − charge with carbon taking base − |charge|; nitrogen-family,
// oxygen-family, and halogens shift capacity by the signed charge (O⁻ → 1,
// N⁺ → 4, F⁻ → 0).
func (m *Molecule) MaxValence(i int) (int, error) {
	if i < 0 || i >= len(m.atoms) {
		_, err := m.Atom(i)
		return 0, err
	}
	return m.maxValence(i), nil
}

// maxValence is the unchecked form used by the perception passes.
func (m *Molecule) maxValence(i int) int {
	a := &m.atoms[i]
	ev := m.explicitValence(i)

	states, ok := standardValences[a.Element]
	if !ok {
		// Wildcards and uncovered elements absorb exactly what is drawn.
		return ev
	}

	adjust := 0
	switch a.Element {
	case chem.C:
		if a.Charge < 0 {
			adjust = a.Charge
		} else {
			adjust = -a.Charge
		}
	case chem.B:
		adjust = -a.Charge
	default:
		adjust = a.Charge
	}

	mv := states[0] + adjust
	for _, s := range states {
		if s+adjust >= ev {
			mv = s + adjust
			break
		}
		mv = s + adjust
	}
	if mv < 0 {
		mv = 0
	}
	return mv
}
