package molecule

import (
	"crypto/sha256"
	"encoding/binary"
	"math/bits"
	"strings"

	"github.com/turtacn/molgraph/pkg/errors"
)

// DefaultFingerprintBits is the bit-vector width used by the service layer.
const DefaultFingerprintBits = 2048

// DefaultFingerprintPathLen is the maximum path length (in atoms) hashed
// into the fingerprint.
const DefaultFingerprintPathLen = 7

// Fingerprint is a molecular fingerprint as a packed bit vector: bit i lives
// in byte i/8 at position i%8.  Fingerprints feed Tanimoto similarity and
// are persisted alongside registered molecules.
type Fingerprint struct {
	Bits      []byte `json:"bits"`
	Length    int    `json:"length"`
	NumOnBits int    `json:"num_on_bits"`
}

// NewFingerprint constructs a Fingerprint from raw bit data.
func NewFingerprint(data []byte, length int) *Fingerprint {
	on := 0
	for _, b := range data {
		on += bits.OnesCount8(b)
	}
	return &Fingerprint{Bits: data, Length: length, NumOnBits: on}
}

// GetBit returns true if the bit at the given index is set.
func (fp *Fingerprint) GetBit(index int) bool {
	if index < 0 || index >= fp.Length {
		return false
	}
	return fp.Bits[index/8]&(1<<uint(index%8)) != 0
}

// SetBit sets the bit at the given index.
func (fp *Fingerprint) SetBit(index int) {
	if index < 0 || index >= fp.Length {
		return
	}
	old := fp.Bits[index/8]
	fp.Bits[index/8] |= 1 << uint(index%8)
	if old != fp.Bits[index/8] {
		fp.NumOnBits++
	}
}

// ToBytes returns the packed bit vector for storage.
func (fp *Fingerprint) ToBytes() []byte { return fp.Bits }

// FingerprintFromBytes reconstructs a fingerprint from stored bytes.
func FingerprintFromBytes(data []byte, length int) *Fingerprint {
	return NewFingerprint(data, length)
}

// PathFingerprint computes a topological (linear-path) fingerprint over the
// molecular graph: every simple path of up to maxPathLen atoms is rendered
// as an element/bond-order string and hashed into an nBits-wide vector.
// Every path is enumerated from both of its ends; the two descriptor
// strings generally differ, and each sets its own bit.
func (m *Molecule) PathFingerprint(maxPathLen, nBits int) (*Fingerprint, error) {
	if nBits <= 0 || nBits%8 != 0 {
		return nil, errors.New(errors.ErrCodeValidation,
			"fingerprint width must be a positive multiple of 8")
	}
	if maxPathLen < 1 {
		maxPathLen = DefaultFingerprintPathLen
	}
	fp := NewFingerprint(make([]byte, nBits/8), nBits)

	visited := make([]bool, len(m.atoms))
	var walk func(path []int, desc *strings.Builder)
	walk = func(path []int, desc *strings.Builder) {
		fp.SetBit(hashPathKey(desc.String(), nBits))
		if len(path) >= maxPathLen {
			return
		}
		t := path[len(path)-1]
		for _, v := range m.neighbors(t) {
			if visited[v] {
				continue
			}
			b := m.BondBetween(t, v)
			mark := desc.Len()
			desc.WriteByte(byte('0' + b.Type.Order()))
			desc.WriteString(m.atoms[v].Element.Symbol())
			visited[v] = true
			walk(append(path, v), desc)
			visited[v] = false
			// Truncate back to this frame's prefix before the next branch.
			truncated := desc.String()[:mark]
			desc.Reset()
			desc.WriteString(truncated)
		}
	}

	for i := range m.atoms {
		var desc strings.Builder
		desc.WriteString(m.atoms[i].Element.Symbol())
		visited[i] = true
		walk([]int{i}, &desc)
		visited[i] = false
	}
	return fp, nil
}

// hashPathKey maps a path descriptor to a bit index.
func hashPathKey(key string, nBits int) int {
	sum := sha256.Sum256([]byte(key))
	return int(binary.BigEndian.Uint32(sum[:4]) % uint32(nBits))
}
