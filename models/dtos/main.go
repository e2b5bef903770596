package dtos

import (
	"hfgwas/api/models/indexes"
	"time"
)

type GeneralErrorResponseDto struct {
	Code      int            `json:"code"`
	Message   string         `json:"message"`
	Timestamp time.Time      `json:"timestamp"`
	Errors    []GeneralError `json:"errors"`
}
type GeneralError struct {
	Message string `json:"message"`
}

// -- Pipeline
type StageSummary struct {
	Count   int    `json:"count"`
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

type RunResponseDTO struct {
	Id              string                  `json:"id"`
	Filename        string                  `json:"filename"`
	State           string                  `json:"state"`
	Message         string                  `json:"message,omitempty"`
	PValueThreshold float64                 `json:"pValueThreshold"`
	WindowSize      int                     `json:"windowSize"`
	InputCount      int                     `json:"inputCount"`
	Stages          map[string]StageSummary `json:"stages"`
	Warnings        []string                `json:"warnings"`
	CreatedAt       string                  `json:"createdAt"`
	UpdatedAt       string                  `json:"updatedAt"`
}

// -- Genes
type GeneQueryResponseDTO struct {
	Status   int                        `json:"status"`
	Message  string                     `json:"message"`
	Term     string                     `json:"term"`
	Location indexes.GeneLocation       `json:"location"`
	HFpEF    []indexes.ExpressionResult `json:"hfpef"`
	HFrEF    []indexes.ExpressionResult `json:"hfref"`
	Count    int                        `json:"count"`
	Results  []indexes.Variant          `json:"results"`
}

// -- Variants
type VariantsResponseDTO struct {
	Status     int               `json:"status"`
	Message    string            `json:"message"`
	Chromosome string            `json:"chromosome"`
	LowerBound int               `json:"lowerBound"`
	UpperBound int               `json:"upperBound"`
	Count      int               `json:"count"`
	Results    []indexes.Variant `json:"results"`
}

// flat rendering of an expression result for csv downloads
type ExpressionResultRow struct {
	GeneId    string `csv:"geneid"`
	PadjPef   string `csv:"padjpef"`
	PadjRef   string `csv:"padjref"`
	L2fcPef   string `csv:"l2fcpef"`
	L2fcRef   string `csv:"l2fcref"`
	Direction string `csv:"Direction"`
	Group     string `csv:"Group"`
}
