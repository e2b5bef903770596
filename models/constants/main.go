package constants

/*
	Defines a set of base level
	constants and enums to be used
	throughout the pipeline and its
	associated services.
*/
type Direction string
type Group string
type Condition string
type Stage string
