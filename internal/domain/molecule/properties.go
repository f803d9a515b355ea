package molecule

import (
	"fmt"
	"sort"
	"strings"

	"github.com/turtacn/molgraph/pkg/types/chem"
)

// Formula returns the molecular formula in Hill order: carbon first,
// hydrogen second, every other element alphabetically.  Implicit hydrogens
// are included when they have been perceived; wildcard atoms are omitted.
func (m *Molecule) Formula() string {
	counts := make(map[chem.Element]int)
	hydrogens := 0
	for i := range m.atoms {
		a := &m.atoms[i]
		if a.Element == chem.Wildcard {
			continue
		}
		counts[a.Element]++
		hydrogens += a.implicitHOrZero()
	}
	hydrogens += counts[chem.H]
	delete(counts, chem.H)

	carbon := counts[chem.C]
	delete(counts, chem.C)

	rest := make([]chem.Element, 0, len(counts))
	for e := range counts {
		rest = append(rest, e)
	}
	sort.Slice(rest, func(i, j int) bool {
		return rest[i].Symbol() < rest[j].Symbol()
	})

	var sb strings.Builder
	writePart := func(sym string, n int) {
		if n == 0 {
			return
		}
		sb.WriteString(sym)
		if n > 1 {
			fmt.Fprintf(&sb, "%d", n)
		}
	}
	writePart("C", carbon)
	writePart("H", hydrogens)
	for _, e := range rest {
		writePart(e.Symbol(), counts[e])
	}
	return sb.String()
}

// MolecularWeight returns the average molecular weight in unified atomic
// mass units, counting perceived implicit hydrogens.
func (m *Molecule) MolecularWeight() float64 {
	w := 0.0
	for i := range m.atoms {
		a := &m.atoms[i]
		w += a.Element.Mass()
		w += float64(a.implicitHOrZero()) * chem.H.Mass()
	}
	return w
}
