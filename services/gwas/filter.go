package gwasService

import (
	"math"

	"hfgwas/api/models/constants/chromosome"
	"hfgwas/api/models/indexes"
)

const DefaultPValueThreshold = 5e-8

// FilterSignificantVariants keeps the genome-wide significant variants,
// i.e. those with a p-value at or below the threshold, in their original order.
func FilterSignificantVariants(variants []indexes.Variant, threshold float64) []indexes.Variant {
	filtered := make([]indexes.Variant, 0)
	for _, v := range variants {
		if v.PValue <= threshold {
			filtered = append(filtered, v)
		}
	}
	return filtered
}

// FilterVariantsInWindow keeps significant variants on the given chromosome
// whose position lies within +/- windowSize of position (bounds inclusive).
func FilterVariantsInWindow(variants []indexes.Variant, chrom string, position int, windowSize int, threshold float64) []indexes.Variant {
	var (
		target                 = chromosome.Normalize(chrom)
		lowerBound, upperBound = WindowBounds(position, windowSize)
	)

	filtered := make([]indexes.Variant, 0)
	for _, v := range variants {
		if v.PValue > threshold {
			continue
		}
		if chromosome.Normalize(v.Chromosome) != target {
			continue
		}
		if v.BasePairLocation < lowerBound || v.BasePairLocation > upperBound {
			continue
		}
		filtered = append(filtered, v)
	}
	return filtered
}

// WindowBounds returns [position - windowSize, position + windowSize],
// floored at zero and saturating instead of wrapping around.
func WindowBounds(position int, windowSize int) (int, int) {
	if windowSize < 0 {
		windowSize = 0
	}

	lowerBound := 0
	if position > windowSize {
		lowerBound = position - windowSize
	}

	upperBound := math.MaxInt
	if position <= math.MaxInt-windowSize {
		upperBound = position + windowSize
	}
	return lowerBound, upperBound
}
