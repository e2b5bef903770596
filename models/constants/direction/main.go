package direction

import (
	"hfgwas/api/models/constants"

	"gopkg.in/guregu/null.v3"
)

const (
	Up   constants.Direction = "Up"
	Down constants.Direction = "Down"
)

// FromFoldChange labels a log2 fold change. Only a strictly positive change
// is Up; zero and missing values are Down.
func FromFoldChange(l2fc null.Float) constants.Direction {
	if l2fc.Valid && l2fc.Float64 > 0 {
		return Up
	}
	return Down
}
