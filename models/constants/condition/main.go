package condition

import (
	"hfgwas/api/models/constants"
	g "hfgwas/api/models/constants/group"
)

const (
	HFpEF constants.Condition = "HFpEF"
	HFrEF constants.Condition = "HFrEF"
)

var All = []constants.Condition{HFpEF, HFrEF}

func Other(c constants.Condition) constants.Condition {
	if c == HFpEF {
		return HFrEF
	}
	return HFpEF
}

func ExclusiveGroup(c constants.Condition) constants.Group {
	if c == HFpEF {
		return g.ExclusiveToHFpEF
	}
	return g.ExclusiveToHFrEF
}
