package gwasService

import (
	"sort"

	"hfgwas/api/models/constants/chromosome"
	"hfgwas/api/models/indexes"

	"github.com/biogo/store/llrb"
)

const DefaultWindowSize = 500_000

// position is a base-pair coordinate stored in a per-chromosome llrb.Tree
type position int

func (p position) Compare(c llrb.Comparable) int {
	return int(p) - int(c.(position))
}

// IdentifyIndependentLoci greedily collapses variants into loci. Variants are
// visited by chromosome, then ascending p-value, then input row; a variant is
// kept only if every locus already accepted on its chromosome lies strictly
// more than windowSize base pairs away. Loci are returned in acceptance order.
//
// Accepted positions live in an ordered tree, so the nearest neighbour of a
// candidate is one floor and one ceil lookup instead of a scan.
func IdentifyIndependentLoci(variants []indexes.Variant, windowSize int) []indexes.Variant {
	sorted := make([]indexes.Variant, len(variants))
	copy(sorted, variants)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if chromosome.Less(a.Chromosome, b.Chromosome) {
			return true
		}
		if chromosome.Less(b.Chromosome, a.Chromosome) {
			return false
		}
		if a.PValue != b.PValue {
			return a.PValue < b.PValue
		}
		return a.Row < b.Row
	})

	selectedPositions := map[string]*llrb.Tree{}
	loci := make([]indexes.Variant, 0)

	for _, v := range sorted {
		chrom := chromosome.Normalize(v.Chromosome)

		positions, ok := selectedPositions[chrom]
		if !ok {
			positions = &llrb.Tree{}
			selectedPositions[chrom] = positions
		}

		if tooClose(positions, v.BasePairLocation, windowSize) {
			continue
		}

		positions.Insert(position(v.BasePairLocation))
		loci = append(loci, v)
	}

	return loci
}

func tooClose(positions *llrb.Tree, pos int, windowSize int) bool {
	if positions.Len() == 0 {
		return false
	}

	q := position(pos)
	if floor := positions.Floor(q); floor != nil && pos-int(floor.(position)) <= windowSize {
		return true
	}
	if ceil := positions.Ceil(q); ceil != nil && int(ceil.(position))-pos <= windowSize {
		return true
	}
	return false
}
