package gwasService

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"testing"

	"hfgwas/api/models/constants/chromosome"
	"hfgwas/api/models/indexes"

	. "github.com/ahmetb/go-linq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// naiveIndependentLoci scans every accepted position for each candidate.
func naiveIndependentLoci(variants []indexes.Variant, windowSize int) []indexes.Variant {
	sorted := append([]indexes.Variant{}, variants...)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if chromosome.Rank(a.Chromosome) != chromosome.Rank(b.Chromosome) {
			return chromosome.Rank(a.Chromosome) < chromosome.Rank(b.Chromosome)
		}
		if a.PValue != b.PValue {
			return a.PValue < b.PValue
		}
		return a.Row < b.Row
	})

	selected := map[string][]int{}
	loci := []indexes.Variant{}
	for _, v := range sorted {
		chrom := chromosome.Normalize(v.Chromosome)
		tooClose := false
		for _, prev := range selected[chrom] {
			if int(math.Abs(float64(v.BasePairLocation-prev))) <= windowSize {
				tooClose = true
				break
			}
		}
		if !tooClose {
			loci = append(loci, v)
			selected[chrom] = append(selected[chrom], v.BasePairLocation)
		}
	}
	return loci
}

func variantIds(variants []indexes.Variant) []string {
	var ids []string
	From(variants).SelectT(func(v indexes.Variant) string { return v.VariantId }).ToSlice(&ids)
	return ids
}

func TestIdentifyIndependentLoci(t *testing.T) {
	t.Run("filter then collapse", func(t *testing.T) {
		input := []indexes.Variant{
			{Chromosome: "1", BasePairLocation: 1000, PValue: 1e-9, VariantId: "rs1"},
			{Chromosome: "1", BasePairLocation: 600_000, PValue: 1e-7, VariantId: "rs2"},
			{Chromosome: "1", BasePairLocation: 1_200_000, PValue: 1e-10, VariantId: "rs3"},
		}

		filtered := FilterSignificantVariants(input, 5e-8)
		require.Equal(t, []string{"rs1", "rs3"}, variantIds(filtered))

		loci := IdentifyIndependentLoci(filtered, 500_000)

		// the most significant variant is accepted first
		assert.Equal(t, []string{"rs3", "rs1"}, variantIds(loci))
	})

	t.Run("a neighbour exactly window size away is rejected", func(t *testing.T) {
		input := []indexes.Variant{
			{Chromosome: "5", BasePairLocation: 1_000_000, PValue: 1e-12, VariantId: "lead"},
			{Chromosome: "5", BasePairLocation: 1_500_000, PValue: 1e-10, VariantId: "at-window"},
			{Chromosome: "5", BasePairLocation: 499_999, PValue: 1e-9, VariantId: "just-outside"},
		}

		loci := IdentifyIndependentLoci(input, 500_000)
		assert.Equal(t, []string{"lead", "just-outside"}, variantIds(loci))
	})

	t.Run("shadowed variants are discarded", func(t *testing.T) {
		input := []indexes.Variant{
			{Chromosome: "2", BasePairLocation: 100_000, PValue: 1e-8, VariantId: "weaker"},
			{Chromosome: "2", BasePairLocation: 150_000, PValue: 1e-20, VariantId: "stronger"},
		}

		loci := IdentifyIndependentLoci(input, 500_000)
		assert.Equal(t, []string{"stronger"}, variantIds(loci))
	})

	t.Run("chromosomes are independent", func(t *testing.T) {
		input := []indexes.Variant{
			{Chromosome: "X", BasePairLocation: 100, PValue: 1e-9, VariantId: "x"},
			{Chromosome: "2", BasePairLocation: 100, PValue: 1e-9, VariantId: "two"},
			{Chromosome: "10", BasePairLocation: 100, PValue: 1e-9, VariantId: "ten"},
			{Chromosome: "chr2", BasePairLocation: 200, PValue: 1e-8, VariantId: "two-again"},
		}

		loci := IdentifyIndependentLoci(input, 500_000)
		assert.Equal(t, []string{"two", "ten", "x"}, variantIds(loci))
	})

	t.Run("equal p-values fall back to input row", func(t *testing.T) {
		input := []indexes.Variant{
			{Chromosome: "7", BasePairLocation: 300_000, PValue: 1e-9, VariantId: "second", Row: 2},
			{Chromosome: "7", BasePairLocation: 100_000, PValue: 1e-9, VariantId: "first", Row: 1},
		}

		loci := IdentifyIndependentLoci(input, 500_000)
		assert.Equal(t, []string{"first"}, variantIds(loci))
	})

	t.Run("empty input gives empty output", func(t *testing.T) {
		loci := IdentifyIndependentLoci([]indexes.Variant{}, 500_000)
		assert.NotNil(t, loci)
		assert.Empty(t, loci)
	})
}

func TestIdentifyIndependentLociProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	chroms := []string{"1", "2", "3", "X"}

	for round := 0; round < 25; round++ {
		n := rng.Intn(400)
		input := make([]indexes.Variant, 0, n)
		for i := 0; i < n; i++ {
			input = append(input, indexes.Variant{
				Chromosome:       chroms[rng.Intn(len(chroms))],
				BasePairLocation: rng.Intn(20_000_000),
				// coarse p-values so that ties are common
				PValue:    float64(rng.Intn(50)+1) * 1e-10,
				VariantId: fmt.Sprintf("rs%d", i),
				Row:       i,
			})
		}

		loci := IdentifyIndependentLoci(input, DefaultWindowSize)

		t.Run(fmt.Sprintf("round %d matches the exhaustive scan", round), func(t *testing.T) {
			assert.Equal(t, naiveIndependentLoci(input, DefaultWindowSize), loci)
		})

		t.Run(fmt.Sprintf("round %d keeps loci apart", round), func(t *testing.T) {
			for i := range loci {
				for j := i + 1; j < len(loci); j++ {
					if chromosome.Normalize(loci[i].Chromosome) != chromosome.Normalize(loci[j].Chromosome) {
						continue
					}
					distance := loci[i].BasePairLocation - loci[j].BasePairLocation
					if distance < 0 {
						distance = -distance
					}
					assert.Greater(t, distance, DefaultWindowSize)
				}
			}
		})

		t.Run(fmt.Sprintf("round %d is idempotent", round), func(t *testing.T) {
			assert.Equal(t, loci, IdentifyIndependentLoci(loci, DefaultWindowSize))
		})
	}
}
