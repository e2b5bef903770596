package utils

import (
	"hfgwas/api/models/dtos"
	"hfgwas/api/models/indexes"
	"io"
	"strconv"

	"github.com/gocarina/gocsv"
	"gopkg.in/guregu/null.v3"
)

func WriteVariantsCsv(w io.Writer, variants []indexes.Variant) error {
	if variants == nil {
		variants = []indexes.Variant{}
	}
	return gocsv.Marshal(&variants, w)
}

func WriteLociCsv(w io.Writer, loci []indexes.Locus) error {
	if loci == nil {
		loci = []indexes.Locus{}
	}
	return gocsv.Marshal(&loci, w)
}

func WriteExpressionResultsCsv(w io.Writer, results []indexes.ExpressionResult) error {
	rows := ExpressionResultsToRows(results)
	return gocsv.Marshal(&rows, w)
}

func ExpressionResultsToRows(results []indexes.ExpressionResult) []dtos.ExpressionResultRow {
	rows := make([]dtos.ExpressionResultRow, 0, len(results))
	for _, r := range results {
		rows = append(rows, dtos.ExpressionResultRow{
			GeneId:    r.GeneId,
			PadjPef:   formatNullFloat(r.PadjPef),
			PadjRef:   formatNullFloat(r.PadjRef),
			L2fcPef:   formatNullFloat(r.L2fcPef),
			L2fcRef:   formatNullFloat(r.L2fcRef),
			Direction: string(r.Direction),
			Group:     string(r.Group),
		})
	}
	return rows
}

// missing values are written as empty cells
func formatNullFloat(f null.Float) string {
	if !f.Valid {
		return ""
	}
	return strconv.FormatFloat(f.Float64, 'g', -1, 64)
}
