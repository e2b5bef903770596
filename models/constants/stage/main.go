package stage

import (
	"hfgwas/api/models/constants"
	"strings"
)

const (
	Unknown constants.Stage = "unknown"

	Filtered  constants.Stage = "filtered"
	Loci      constants.Stage = "loci"
	Annotated constants.Stage = "annotated"
	HFpEF     constants.Stage = "hfpef"
	HFrEF     constants.Stage = "hfref"
)

// stages in execution order
var Pipeline = []constants.Stage{Filtered, Loci, Annotated, HFpEF, HFrEF}

var downloadFileNames = map[constants.Stage]string{
	Filtered:  "filtered_gwas.csv",
	Loci:      "independent_loci.csv",
	Annotated: "annotated_genes.csv",
	HFpEF:     "hfpef_comparison.csv",
	HFrEF:     "hfref_comparison.csv",
}

func CastToStage(text string) constants.Stage {
	switch strings.ToLower(text) {
	case "filtered":
		return Filtered
	case "loci":
		return Loci
	case "annotated":
		return Annotated
	case "hfpef":
		return HFpEF
	case "hfref":
		return HFrEF
	default:
		return Unknown
	}
}

func IsKnownStage(text string) bool {
	return CastToStage(text) != Unknown
}

func DownloadFileName(s constants.Stage) string {
	return downloadFileNames[s]
}
