package expressionService

import (
	"strings"

	"hfgwas/api/models/constants"
	cond "hfgwas/api/models/constants/condition"
	"hfgwas/api/models/constants/direction"
	g "hfgwas/api/models/constants/group"
	"hfgwas/api/models/indexes"

	"gopkg.in/guregu/null.v3"
)

const DefaultPadjThreshold = 0.05

type (
	ExpressionService struct {
		PadjThreshold float64
	}
)

func NewExpressionService(padjThreshold float64) *ExpressionService {
	if padjThreshold <= 0 {
		padjThreshold = DefaultPadjThreshold
	}
	return &ExpressionService{
		PadjThreshold: padjThreshold,
	}
}

// IsSignificant: adjusted p-value below the threshold, or exactly zero.
// Missing values are never significant.
func (es *ExpressionService) IsSignificant(padj null.Float) bool {
	if !padj.Valid {
		return false
	}
	return padj.Float64 < es.PadjThreshold || padj.Float64 == 0.0
}

// Compare cross-references the genes annotated onto the loci with the
// expression dataset and returns one labelled table per condition. Each
// table keeps the expression dataset's row order.
func (es *ExpressionService) Compare(loci []indexes.Locus, records []indexes.ExpressionRecord) (hfpef []indexes.ExpressionResult, hfref []indexes.ExpressionResult) {
	riskGenes := make(map[string]bool, len(loci))
	for _, l := range loci {
		riskGenes[strings.ToUpper(l.GeneId)] = true
	}

	inRiskSet := func(r indexes.ExpressionRecord) bool {
		return riskGenes[strings.ToUpper(r.GeneId)]
	}

	return es.classify(records, inRiskSet)
}

// QueryGene labels the expression rows of a single gene. Any of the given
// identifiers (symbol or stable id) may match, case-insensitively.
func (es *ExpressionService) QueryGene(records []indexes.ExpressionRecord, geneIdentifiers ...string) (hfpef []indexes.ExpressionResult, hfref []indexes.ExpressionResult) {
	wanted := map[string]bool{}
	for _, id := range geneIdentifiers {
		if id = strings.TrimSpace(id); id != "" {
			wanted[strings.ToUpper(id)] = true
		}
	}

	matches := func(r indexes.ExpressionRecord) bool {
		return wanted[strings.ToUpper(r.GeneId)]
	}

	return es.classify(records, matches)
}

func (es *ExpressionService) classify(records []indexes.ExpressionRecord, include func(indexes.ExpressionRecord) bool) ([]indexes.ExpressionResult, []indexes.ExpressionResult) {
	var (
		significant = map[constants.Condition][]indexes.ExpressionRecord{}
		geneIds     = map[constants.Condition]map[string]bool{cond.HFpEF: {}, cond.HFrEF: {}}
	)

	for _, r := range records {
		if !include(r) {
			continue
		}
		geneId := strings.ToUpper(r.GeneId)

		for _, c := range cond.All {
			if es.IsSignificant(padj(r, c)) {
				significant[c] = append(significant[c], r)
				geneIds[c][geneId] = true
			}
		}
	}

	return label(significant[cond.HFpEF], cond.HFpEF, geneIds), label(significant[cond.HFrEF], cond.HFrEF, geneIds)
}

// label assigns Direction from the condition's own fold change and Group from
// membership in the other condition's significant set.
func label(records []indexes.ExpressionRecord, c constants.Condition, geneIds map[constants.Condition]map[string]bool) []indexes.ExpressionResult {
	otherSignificant := geneIds[cond.Other(c)]

	results := make([]indexes.ExpressionResult, 0, len(records))
	for _, r := range records {
		grp := cond.ExclusiveGroup(c)
		if otherSignificant[strings.ToUpper(r.GeneId)] {
			grp = g.Shared
		}

		results = append(results, indexes.ExpressionResult{
			ExpressionRecord: r,
			Condition:        c,
			Direction:        direction.FromFoldChange(l2fc(r, c)),
			Group:            grp,
		})
	}
	return results
}

func padj(r indexes.ExpressionRecord, c constants.Condition) null.Float {
	if c == cond.HFrEF {
		return r.PadjRef
	}
	return r.PadjPef
}

func l2fc(r indexes.ExpressionRecord, c constants.Condition) null.Float {
	if c == cond.HFrEF {
		return r.L2fcRef
	}
	return r.L2fcPef
}
