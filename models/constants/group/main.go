package group

import "hfgwas/api/models/constants"

const (
	ExclusiveToHFpEF constants.Group = "Exclusive to HFpEF"
	ExclusiveToHFrEF constants.Group = "Exclusive to HFrEF"
	Shared           constants.Group = "Shared"
)
