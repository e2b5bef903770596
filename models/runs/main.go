package runs

import (
	"hfgwas/api/models/constants"
	"hfgwas/api/models/indexes"
	"time"

	"github.com/google/uuid"
)

type State string

const (
	Queued  State = "Queued"
	Running State = "Running"
	Done    State = "Done"
	Error   State = "Error"
)

type StageStatus string

const (
	StageOk      StageStatus = "Ok"
	StageEmpty   StageStatus = "Empty"
	StageFailed  StageStatus = "Failed"
	StageSkipped StageStatus = "Skipped"
)

type StageResult struct {
	Status  StageStatus
	Message string
}

// PipelineRun holds everything one invocation of the pipeline produced.
// Stage slices are never modified once the run is Done.
type PipelineRun struct {
	Id       uuid.UUID
	Filename string
	State    State
	Message  string

	PValueThreshold float64
	WindowSize      int

	InputCount int
	Filtered   []indexes.Variant
	Loci       []indexes.Variant
	Annotated  []indexes.Locus
	HFpEF      []indexes.ExpressionResult
	HFrEF      []indexes.ExpressionResult

	Stages   map[constants.Stage]StageResult
	Warnings []string

	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewPipelineRun(filename string, pValueThreshold float64, windowSize int) *PipelineRun {
	now := time.Now()
	return &PipelineRun{
		Id:              uuid.New(),
		Filename:        filename,
		State:           Queued,
		PValueThreshold: pValueThreshold,
		WindowSize:      windowSize,
		Stages:          map[constants.Stage]StageResult{},
		Warnings:        []string{},
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}
