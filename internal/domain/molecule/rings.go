package molecule

import (
	"context"
	"fmt"
	"sort"

	"github.com/turtacn/molgraph/pkg/errors"
)

// PerceiveRings enumerates every simple cycle of the molecular graph by path
// expansion and stores the result, sorted by descending length, on the
// molecule.  Each ring is stored once in canonical orientation (rotated to
// its smallest atom index, direction chosen by the smaller successor).
//
// The search is seeded from atom 0 only; because paths extend along every
// bond, every cycle of a connected graph is reached during expansion.  The
// worst case is exponential for dense graphs, so the pass honours ctx
// cancellation; on cancellation the molecule is left untouched (results are
// committed only at the end).
func (m *Molecule) PerceiveRings(ctx context.Context) error {
	if len(m.atoms) == 0 {
		m.rings = nil
		m.ringsPerceived = true
		return nil
	}

	var active [][]int
	for _, v := range m.neighbors(0) {
		active = append(active, []int{0, v})
	}

	var closed [][]int
	for len(active) > 0 {
		if err := ctx.Err(); err != nil {
			return errors.Wrap(err, errors.ErrCodeTimeout, "ring perception cancelled")
		}

		// Extend: fork each live path along every neighbor of its terminal
		// atom except the one it just came from.
		var extended [][]int
		for _, p := range active {
			t, prev := p[len(p)-1], p[len(p)-2]
			first := true
			for _, v := range m.neighbors(t) {
				if v == prev {
					continue
				}
				if first {
					extended = append(extended, append(p, v))
					first = false
				} else {
					fork := make([]int, len(p)+1)
					copy(fork, p)
					fork[len(p)] = v
					extended = append(extended, fork)
				}
			}
			// A terminal with no onward neighbors is a dead end; the path
			// is simply dropped.
		}

		// Close: a path whose new terminal revisits an earlier atom yields
		// the cycle between the two occurrences and dies.
		active = active[:0]
		for _, p := range extended {
			t := p[len(p)-1]
			k := -1
			for i := 0; i < len(p)-1; i++ {
				if p[i] == t {
					k = i
					break
				}
			}
			if k < 0 {
				active = append(active, p)
				continue
			}
			if ring := p[k : len(p)-1]; len(ring) >= 3 {
				r := make([]int, len(ring))
				copy(r, ring)
				closed = append(closed, r)
			}
		}
	}

	// Deduplicate up to rotation and reversal, then order by descending
	// length (ties broken lexicographically for determinism).
	seen := make(map[string]bool)
	var rings [][]int
	for _, r := range closed {
		c := canonicalRing(r)
		key := fmt.Sprint(c)
		if !seen[key] {
			seen[key] = true
			rings = append(rings, c)
		}
	}
	sort.Slice(rings, func(i, j int) bool {
		if len(rings[i]) != len(rings[j]) {
			return len(rings[i]) > len(rings[j])
		}
		a, b := rings[i], rings[j]
		for k := range a {
			if a[k] != b[k] {
				return a[k] < b[k]
			}
		}
		return false
	})

	m.rings = rings
	m.ringsPerceived = true
	return nil
}

// canonicalRing normalizes a ring traversal: rotate so the smallest atom
// index leads, and walk in the direction whose second element is smaller.
func canonicalRing(r []int) []int {
	n := len(r)
	minAt := 0
	for i := 1; i < n; i++ {
		if r[i] < r[minAt] {
			minAt = i
		}
	}
	fwd := make([]int, n)
	rev := make([]int, n)
	for i := 0; i < n; i++ {
		fwd[i] = r[(minAt+i)%n]
		rev[i] = r[(minAt-i+n)%n]
	}
	for i := 0; i < n; i++ {
		if fwd[i] != rev[i] {
			if fwd[i] < rev[i] {
				return fwd
			}
			return rev
		}
	}
	return fwd
}
