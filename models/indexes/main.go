package indexes

import (
	c "hfgwas/api/models/constants"

	"gopkg.in/guregu/null.v3"
)

// Required columns of a GWAS summary-statistics table
var VariantColumns = []string{"chromosome", "base_pair_location", "p_value", "variant_id"}

// Required columns of the HFpEF/HFrEF differential-expression table
var ExpressionColumns = []string{"geneid", "padjpef", "padjref", "l2fcpef", "l2fcref"}

type Variant struct {
	Chromosome       string  `json:"chromosome" mapstructure:"chromosome" csv:"chromosome"`
	BasePairLocation int     `json:"base_pair_location" mapstructure:"base_pair_location" csv:"base_pair_location"`
	PValue           float64 `json:"p_value" mapstructure:"p_value" csv:"p_value"`
	VariantId        string  `json:"variant_id" mapstructure:"variant_id" csv:"variant_id"`

	// position in the source table, used as the final sort key
	Row int `json:"-" mapstructure:"-" csv:"-"`
}

type Locus struct {
	Variant `mapstructure:",squash"`

	GeneId   string `json:"gene_id" csv:"gene_id"`
	GeneName string `json:"external_name" csv:"external_name"`
}

type ExpressionRecord struct {
	GeneId  string     `json:"geneid"`
	PadjPef null.Float `json:"padjpef"`
	PadjRef null.Float `json:"padjref"`
	L2fcPef null.Float `json:"l2fcpef"`
	L2fcRef null.Float `json:"l2fcref"`
}

type ExpressionResult struct {
	ExpressionRecord

	Condition c.Condition `json:"condition"`
	Direction c.Direction `json:"direction"`
	Group     c.Group     `json:"group"`
}

type GeneHit struct {
	GeneId   string `json:"gene_id"`
	GeneName string `json:"external_name"`
}

type ChromosomeCount struct {
	Chromosome string `json:"chromosome" mapstructure:"key"`
	Count      int    `json:"count" mapstructure:"doc_count"`
}

type GeneLocation struct {
	Query      string `json:"query"`
	GeneId     string `json:"gene_id"`
	Chromosome string `json:"chromosome"`
	Start      int    `json:"start"`
}

var MAPPING_KEYWORD = map[string]interface{}{"type": "keyword"}
var MAPPING_LONG = map[string]interface{}{"type": "long"}
var MAPPING_FLOAT64 = map[string]interface{}{"type": "double"}

var VARIANT_INDEX_MAPPING = map[string]interface{}{
	"properties": map[string]interface{}{
		"chromosome":         MAPPING_KEYWORD,
		"base_pair_location": MAPPING_LONG,
		"p_value":            MAPPING_FLOAT64,
		"variant_id":         MAPPING_KEYWORD,
	},
}
