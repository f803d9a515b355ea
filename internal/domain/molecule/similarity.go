package molecule

import (
	"math/bits"

	"github.com/turtacn/molgraph/pkg/errors"
)

// TanimotoSimilarity computes the Tanimoto coefficient (Jaccard index) of
// two bit-vector fingerprints: |A∩B| / |A∪B|, in [0.0, 1.0].  Two empty
// fingerprints score 0.
func TanimotoSimilarity(fp1, fp2 *Fingerprint) (float64, error) {
	if fp1 == nil || fp2 == nil {
		return 0, errors.New(errors.ErrCodeValidation, "fingerprint is nil")
	}
	if fp1.Length != fp2.Length {
		return 0, errors.New(errors.ErrCodeValidation,
			"fingerprints must have the same dimension")
	}
	intersection, union := 0, 0
	for i := range fp1.Bits {
		intersection += bits.OnesCount8(fp1.Bits[i] & fp2.Bits[i])
		union += bits.OnesCount8(fp1.Bits[i] | fp2.Bits[i])
	}
	if union == 0 {
		return 0, nil
	}
	return float64(intersection) / float64(union), nil
}

// Similarity is the one-shot convenience: fingerprint both molecules with
// the default parameters and return their Tanimoto coefficient.
func Similarity(a, b *Molecule) (float64, error) {
	fpA, err := a.PathFingerprint(DefaultFingerprintPathLen, DefaultFingerprintBits)
	if err != nil {
		return 0, err
	}
	fpB, err := b.PathFingerprint(DefaultFingerprintPathLen, DefaultFingerprintBits)
	if err != nil {
		return 0, err
	}
	return TanimotoSimilarity(fpA, fpB)
}
