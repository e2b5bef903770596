package expressionService

import (
	"testing"

	"hfgwas/api/models/constants"
	cond "hfgwas/api/models/constants/condition"
	"hfgwas/api/models/constants/direction"
	g "hfgwas/api/models/constants/group"
	"hfgwas/api/models/indexes"

	. "github.com/ahmetb/go-linq"
	"github.com/stretchr/testify/assert"
	"gopkg.in/guregu/null.v3"
)

func locus(geneId string) indexes.Locus {
	return indexes.Locus{GeneId: geneId}
}

func record(geneId string, padjPef, padjRef null.Float, l2fcPef, l2fcRef float64) indexes.ExpressionRecord {
	return indexes.ExpressionRecord{
		GeneId:  geneId,
		PadjPef: padjPef,
		PadjRef: padjRef,
		L2fcPef: null.FloatFrom(l2fcPef),
		L2fcRef: null.FloatFrom(l2fcRef),
	}
}

func byGene(results []indexes.ExpressionResult) map[string]indexes.ExpressionResult {
	m := map[string]indexes.ExpressionResult{}
	for _, r := range results {
		m[r.GeneId] = r
	}
	return m
}

func TestCompare(t *testing.T) {
	es := NewExpressionService(DefaultPadjThreshold)

	loci := []indexes.Locus{
		locus("ENSG00000001"), locus("ensg00000002"), locus("ENSG00000003"),
		locus("ENSG00000004"), locus("ENSG00000005"),
	}
	records := []indexes.ExpressionRecord{
		// significant in both
		record("ENSG00000001", null.FloatFrom(0.01), null.FloatFrom(0.02), 1.5, -0.7),
		// HFpEF only
		record("ENSG00000002", null.FloatFrom(0.001), null.FloatFrom(0.5), -2, 3),
		// HFrEF only, with a missing HFpEF value
		record("ENSG00000003", null.Float{}, null.FloatFrom(0.049), 1, 0.2),
		// exact zero is maximally significant
		record("ENSG00000004", null.FloatFrom(0.0), null.FloatFrom(0.05), 0.4, 1),
		// not a risk gene
		record("ENSG00000099", null.FloatFrom(0.0001), null.FloatFrom(0.0001), 1, 1),
		// significant nowhere
		record("ENSG00000005", null.FloatFrom(0.2), null.FloatFrom(0.3), 1, 1),
	}

	hfpef, hfref := es.Compare(loci, records)

	t.Run("HFpEF table", func(t *testing.T) {
		var ids []string
		From(hfpef).SelectT(func(r indexes.ExpressionResult) string { return r.GeneId }).ToSlice(&ids)
		assert.Equal(t, []string{"ENSG00000001", "ENSG00000002", "ENSG00000004"}, ids)

		m := byGene(hfpef)
		assert.Equal(t, g.Shared, m["ENSG00000001"].Group)
		assert.Equal(t, direction.Up, m["ENSG00000001"].Direction)
		assert.Equal(t, g.ExclusiveToHFpEF, m["ENSG00000002"].Group)
		assert.Equal(t, direction.Down, m["ENSG00000002"].Direction)
		assert.Equal(t, g.ExclusiveToHFpEF, m["ENSG00000004"].Group)
		assert.True(t, From(hfpef).AllT(func(r indexes.ExpressionResult) bool { return r.Condition == cond.HFpEF }))
	})

	t.Run("HFrEF table", func(t *testing.T) {
		var ids []string
		From(hfref).SelectT(func(r indexes.ExpressionResult) string { return r.GeneId }).ToSlice(&ids)
		assert.Equal(t, []string{"ENSG00000001", "ENSG00000003"}, ids)

		m := byGene(hfref)
		assert.Equal(t, g.Shared, m["ENSG00000001"].Group)
		assert.Equal(t, direction.Down, m["ENSG00000001"].Direction)
		assert.Equal(t, g.ExclusiveToHFrEF, m["ENSG00000003"].Group)
		assert.Equal(t, direction.Up, m["ENSG00000003"].Direction)
	})

	t.Run("each gene carries one group per table", func(t *testing.T) {
		for _, table := range [][]indexes.ExpressionResult{hfpef, hfref} {
			groups := map[string]map[constants.Group]bool{}
			for _, r := range table {
				if groups[r.GeneId] == nil {
					groups[r.GeneId] = map[constants.Group]bool{}
				}
				groups[r.GeneId][r.Group] = true
			}
			for gene, gs := range groups {
				assert.Len(t, gs, 1, gene)
			}
		}
	})

	t.Run("empty inputs give empty tables", func(t *testing.T) {
		pef, ref := es.Compare(nil, records)
		assert.Empty(t, pef)
		assert.Empty(t, ref)

		pef, ref = es.Compare(loci, nil)
		assert.NotNil(t, pef)
		assert.Empty(t, pef)
		assert.Empty(t, ref)
	})
}

func TestZeroFoldChangeIsLabelledDown(t *testing.T) {
	es := NewExpressionService(DefaultPadjThreshold)

	hfpef, hfref := es.Compare(
		[]indexes.Locus{locus("ENSG00000010")},
		[]indexes.ExpressionRecord{record("ENSG00000010", null.FloatFrom(0.01), null.FloatFrom(0.01), 0, 0)})

	assert.Equal(t, direction.Down, hfpef[0].Direction)
	assert.Equal(t, direction.Down, hfref[0].Direction)
}

func TestQueryGene(t *testing.T) {
	es := NewExpressionService(DefaultPadjThreshold)
	records := []indexes.ExpressionRecord{
		record("NPPA", null.FloatFrom(0.001), null.FloatFrom(0.9), 2, 1),
		record("ENSG00000175206", null.FloatFrom(0.9), null.FloatFrom(0.0), 1, -1),
		record("TTN", null.FloatFrom(0.001), null.FloatFrom(0.001), 1, 1),
	}

	t.Run("matches the symbol case-insensitively", func(t *testing.T) {
		hfpef, hfref := es.QueryGene(records, "nppa")
		assert.Len(t, hfpef, 1)
		assert.Equal(t, g.ExclusiveToHFpEF, hfpef[0].Group)
		assert.Empty(t, hfref)
	})

	t.Run("matches the resolved stable id", func(t *testing.T) {
		hfpef, hfref := es.QueryGene(records, "NPPA", "ENSG00000175206")
		assert.Len(t, hfpef, 1)
		assert.Len(t, hfref, 1)
		assert.Equal(t, "ENSG00000175206", hfref[0].GeneId)
		assert.Equal(t, direction.Down, hfref[0].Direction)
	})

	t.Run("unknown gene", func(t *testing.T) {
		hfpef, hfref := es.QueryGene(records, "NOPE", "")
		assert.Empty(t, hfpef)
		assert.Empty(t, hfref)
	})
}

func TestIsSignificant(t *testing.T) {
	es := NewExpressionService(0)

	assert.Equal(t, DefaultPadjThreshold, es.PadjThreshold)
	assert.True(t, es.IsSignificant(null.FloatFrom(0.0)))
	assert.True(t, es.IsSignificant(null.FloatFrom(0.0499)))
	assert.False(t, es.IsSignificant(null.FloatFrom(0.05)))
	assert.False(t, es.IsSignificant(null.Float{}))
}
