package molecule

import (
	"fmt"
	"sort"
	"strings"

	"github.com/turtacn/molgraph/pkg/errors"
	"github.com/turtacn/molgraph/pkg/types/chem"
)

// SMILES serializes the molecule back to SMILES notation.  Atoms are written
// in index order (the depth-first order the parser produced), which keeps
// ring closures finite-lookahead and parenthesizes the minimal spanning tree
// implied by that order; serial branches come out flat
// (FS(F)(F)(F)(F)F, not FS((((F)F)F)F)F).
//
// Parsing the result yields a molecule graph-isomorphic to the receiver (up
// to perception).
func (m *Molecule) SMILES() (string, error) {
	n := len(m.atoms)
	if n == 0 {
		return "", nil
	}

	stubs := make([]string, n)
	for i := 0; i < n; i++ {
		stubs[i] = m.atomStub(i)
	}

	// Backward-neighbor table: for each atom, its already-written neighbors
	// in ascending order.  The last one is the linear predecessor; the rest
	// close rings.
	back := make([][]int, n)
	for k := range m.bonds {
		lo, hi := m.bonds[k].A, m.bonds[k].B
		if lo > hi {
			lo, hi = hi, lo
		}
		back[hi] = append(back[hi], lo)
	}
	for i := range back {
		sort.Ints(back[i])
	}
	for i := 1; i < n; i++ {
		if len(back[i]) == 0 {
			return "", errors.New(errors.ErrCodeValidation,
				"molecule is not connected").
				WithDetail(fmt.Sprintf("atom %d has no bond to an earlier atom", i))
		}
	}

	// Bond annotations and ring-closure labels.
	labelCounter := 0
	for i := 0; i < n; i++ {
		bn := back[i]
		if len(bn) == 0 {
			continue
		}
		pred := bn[len(bn)-1]
		if c, ok := writtenBondChar(m.BondBetween(pred, i).Type); ok {
			stubs[i] = string(c) + stubs[i]
		}
		for _, nb := range bn[:len(bn)-1] {
			labelCounter++
			if labelCounter > 99 {
				return "", errors.New(errors.ErrCodeSMILESRingLabelOverflow,
					"more than 99 ring closures")
			}
			if c, ok := writtenBondChar(m.BondBetween(nb, i).Type); ok {
				stubs[i] += string(c)
			}
			label := fmt.Sprintf("%d", labelCounter)
			if labelCounter > 9 {
				label = fmt.Sprintf("%%%02d", labelCounter)
			}
			stubs[i] += label
			stubs[nb] += label
		}
	}

	// Branch parentheses: an atom whose linear predecessor is not its
	// immediate index predecessor opens a branch at that atom.  The opening
	// parenthesis is placed after the predecessor's stub, advanced past any
	// complete sibling branches already laid down there.
	for i := 1; i < n; i++ {
		pred := back[i][len(back[i])-1]
		if pred == i-1 {
			continue
		}
		insAtom, insOff := pred, len(stubs[pred])
		lin, linAtIns := 0, 0
		depth := 0
		siblingOpen := false
		for a := pred + 1; a < i; a++ {
			for k := 0; k < len(stubs[a]); k++ {
				switch stubs[a][k] {
				case '(':
					if lin == linAtIns {
						siblingOpen = true
					}
					depth++
				case ')':
					if depth == 0 {
						insAtom, insOff = a, k+1
						linAtIns = lin + 1
					} else {
						depth--
						if depth == 0 && siblingOpen {
							insAtom, insOff = a, k+1
							linAtIns = lin + 1
							siblingOpen = false
						}
					}
				}
				lin++
			}
		}
		stubs[insAtom] = stubs[insAtom][:insOff] + "(" + stubs[insAtom][insOff:]
		stubs[i] = ")" + stubs[i]
	}

	var sb strings.Builder
	for i := 0; i < n; i++ {
		sb.WriteString(stubs[i])
	}
	return sb.String(), nil
}

// writtenBondChar returns the SMILES character for bond types that must be
// written explicitly.  Single, delocalized, and default bonds are implied by
// context and render as nothing.
func writtenBondChar(t chem.BondType) (byte, bool) {
	switch t {
	case chem.BondSingle, chem.BondDelocalized, chem.BondDefault:
		return 0, false
	default:
		return t.Char()
	}
}

// atomStub renders a single atom, choosing the bare organic-subset letter
// when the atom carries no information the bare form would lose, and the
// bracket form otherwise.  A delocalized nitrogen with exactly one implicit
// hydrogen is always bracketed as [nH]: the bare form would read back as a
// pyridine-type nitrogen with no hydrogen.
func (m *Molecule) atomStub(i int) string {
	a := &m.atoms[i]

	sym := a.Element.Symbol()
	if a.Delocalized {
		sym = strings.ToLower(sym)
	}

	if m.bareWritable(i) {
		return sym
	}

	var sb strings.Builder
	sb.WriteByte('[')
	if a.Isotope > 0 {
		fmt.Fprintf(&sb, "%d", a.Isotope)
	}
	sb.WriteString(sym)
	sb.WriteString(a.Chirality.SMILES())
	if a.ImplicitH != nil && *a.ImplicitH > 0 {
		sb.WriteByte('H')
		if *a.ImplicitH != 1 {
			fmt.Fprintf(&sb, "%d", *a.ImplicitH)
		}
	}
	if a.Charge != 0 {
		if a.Charge > 0 {
			sb.WriteByte('+')
		} else {
			sb.WriteByte('-')
		}
		if mag := abs(a.Charge); mag > 1 {
			fmt.Fprintf(&sb, "%d", mag)
		}
	}
	sb.WriteByte(']')
	return sb.String()
}

// bareWritable reports whether atom i round-trips as a bare organic-subset
// letter.
func (m *Molecule) bareWritable(i int) bool {
	a := &m.atoms[i]
	if !a.Element.InOrganicSubset() ||
		a.Isotope != 0 ||
		a.Charge != 0 ||
		a.Chirality != chem.ChiralityUndefined ||
		(a.Radicals != nil && *a.Radicals > 0) {
		return false
	}
	if a.Delocalized {
		// The delocalized default hydrogen count is only recoverable through
		// kekulization; the one ambiguous case is nitrogen.
		return !(a.Element == chem.N && a.ImplicitH != nil && *a.ImplicitH == 1)
	}
	if a.ImplicitH == nil {
		return true
	}
	return *a.ImplicitH == m.maxValence(i)-m.explicitValence(i)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
