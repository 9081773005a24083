package valuation

import "errors"

var ErrLengthMismatch = errors.New("strategy value length mismatch")

// Value prices a voting power breakdown: the dot product of per-strategy
// voting power and per-strategy unit values. Both slices must have the same
// length; two empty slices price at 0.
func Value(vpByStrategy, vpValueByStrategy []float64) (float64, error) {
	if len(vpByStrategy) != len(vpValueByStrategy) {
		return 0, ErrLengthMismatch
	}
	total := float64(0)
	for i, vp := range vpByStrategy {
		total += vp * vpValueByStrategy[i]
	}
	return total, nil
}
