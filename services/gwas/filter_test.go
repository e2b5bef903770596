package gwasService

import (
	"math"
	"testing"

	"hfgwas/api/models/indexes"

	. "github.com/ahmetb/go-linq"
	"github.com/stretchr/testify/assert"
)

func TestFilterSignificantVariants(t *testing.T) {
	variants := []indexes.Variant{
		{Chromosome: "1", BasePairLocation: 1000, PValue: 1e-9, VariantId: "rs1"},
		{Chromosome: "1", BasePairLocation: 600_000, PValue: 1e-7, VariantId: "rs2"},
		{Chromosome: "1", BasePairLocation: 1_200_000, PValue: 1e-10, VariantId: "rs3"},
		{Chromosome: "2", BasePairLocation: 50, PValue: 5e-8, VariantId: "rs4"},
		{Chromosome: "2", BasePairLocation: 60, PValue: 0.3, VariantId: "rs5"},
	}

	t.Run("keeps variants at or below the threshold in input order", func(t *testing.T) {
		filtered := FilterSignificantVariants(variants, DefaultPValueThreshold)

		var ids []string
		From(filtered).SelectT(func(v indexes.Variant) string { return v.VariantId }).ToSlice(&ids)
		assert.Equal(t, []string{"rs1", "rs3", "rs4"}, ids)

		assert.True(t, From(filtered).AllT(func(v indexes.Variant) bool {
			return v.PValue <= DefaultPValueThreshold
		}))
	})

	t.Run("a p-value equal to the threshold is retained", func(t *testing.T) {
		filtered := FilterSignificantVariants(variants[3:4], 5e-8)
		assert.Len(t, filtered, 1)
	})

	t.Run("does not modify its input", func(t *testing.T) {
		before := append([]indexes.Variant{}, variants...)
		_ = FilterSignificantVariants(variants, 1e-9)
		assert.Equal(t, before, variants)
	})

	t.Run("empty input gives empty output", func(t *testing.T) {
		filtered := FilterSignificantVariants(nil, DefaultPValueThreshold)
		assert.NotNil(t, filtered)
		assert.Empty(t, filtered)
	})
}

func TestFilterVariantsInWindow(t *testing.T) {
	variants := []indexes.Variant{
		{Chromosome: "3", BasePairLocation: 500_000, PValue: 1e-9, VariantId: "lower-edge"},
		{Chromosome: "3", BasePairLocation: 499_999, PValue: 1e-9, VariantId: "outside"},
		{Chromosome: "3", BasePairLocation: 1_500_000, PValue: 1e-9, VariantId: "upper-edge"},
		{Chromosome: "3", BasePairLocation: 1_000_000, PValue: 1e-6, VariantId: "not-significant"},
		{Chromosome: "chr3", BasePairLocation: 1_000_100, PValue: 3e-8, VariantId: "prefixed"},
		{Chromosome: "4", BasePairLocation: 1_000_000, PValue: 1e-12, VariantId: "other-chromosome"},
	}

	filtered := FilterVariantsInWindow(variants, "3", 1_000_000, 500_000, DefaultPValueThreshold)

	var ids []string
	From(filtered).SelectT(func(v indexes.Variant) string { return v.VariantId }).ToSlice(&ids)
	assert.Equal(t, []string{"lower-edge", "upper-edge", "prefixed"}, ids)

	assert.Empty(t, FilterVariantsInWindow(variants, "9", 1_000_000, 500_000, DefaultPValueThreshold))
}

func TestFilterVariantsInWindowWithHugeWindow(t *testing.T) {
	variants := []indexes.Variant{
		{Chromosome: "1", BasePairLocation: 5, PValue: 1e-9, VariantId: "near-start"},
		{Chromosome: "1", BasePairLocation: 248_000_000, PValue: 1e-9, VariantId: "near-end"},
	}

	filtered := FilterVariantsInWindow(variants, "1", 1_000, math.MaxInt, DefaultPValueThreshold)
	assert.Len(t, filtered, 2)
}

func TestWindowBounds(t *testing.T) {
	lower, upper := WindowBounds(1_000, 500)
	assert.Equal(t, 500, lower)
	assert.Equal(t, 1_500, upper)

	lower, upper = WindowBounds(100, 500)
	assert.Equal(t, 0, lower)
	assert.Equal(t, 600, upper)

	lower, upper = WindowBounds(1_000, math.MaxInt)
	assert.Equal(t, 0, lower)
	assert.Equal(t, math.MaxInt, upper)

	lower, upper = WindowBounds(1_000, -10)
	assert.Equal(t, 1_000, lower)
	assert.Equal(t, 1_000, upper)
}
