package pipelineErrors

import (
	"fmt"

	"hfgwas/api/models/constants"
)

/*
	Error taxonomy shared by the loaders, the pipeline
	stages and the gene query path. Callers match these
	with errors.As to decide how to surface them.
*/

// SchemaError: a required column is missing. Fatal for the stage.
type SchemaError struct {
	Dataset string
	Column  string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s: missing required column %s", e.Dataset, e.Column)
}

// ParseError: the input could not be read. Fatal for the load.
type ParseError struct {
	Path string
	Row  int // 1-based data row, 0 when the whole file is unreadable
	Err  error
}

func (e *ParseError) Error() string {
	if e.Row > 0 {
		return fmt.Sprintf("unable to parse %s (row %d): %v", e.Path, e.Row, e.Err)
	}
	return fmt.Sprintf("unable to parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ExternalServiceError: the external lookup service could not be reached or
// answered with a non-success status other than "not found".
type ExternalServiceError struct {
	Service    string
	Url        string
	StatusCode int
	Err        error
}

func (e *ExternalServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s unavailable (%s): %v", e.Service, e.Url, e.Err)
	}
	return fmt.Sprintf("%s responded with status %d (%s)", e.Service, e.StatusCode, e.Url)
}

func (e *ExternalServiceError) Unwrap() error { return e.Err }

// GeneNotFoundError: no usable location could be resolved for a gene.
type GeneNotFoundError struct {
	Gene string
}

func (e *GeneNotFoundError) Error() string {
	return fmt.Sprintf("no location found for gene '%s'", e.Gene)
}

// EmptyResultWarning: a stage produced zero rows. Never fatal.
type EmptyResultWarning struct {
	Stage constants.Stage
}

func (e *EmptyResultWarning) Error() string {
	return fmt.Sprintf("stage '%s' produced no rows", e.Stage)
}
