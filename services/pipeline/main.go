package pipelineService

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"hfgwas/api/models"
	"hfgwas/api/models/constants"
	"hfgwas/api/models/constants/stage"
	"hfgwas/api/models/indexes"
	pe "hfgwas/api/models/pipeline-errors"
	"hfgwas/api/models/runs"
	"hfgwas/api/repositories"
	annotationService "hfgwas/api/services/annotation"
	expressionService "hfgwas/api/services/expression"
	gwasService "hfgwas/api/services/gwas"
	loaderService "hfgwas/api/services/loader"

	"github.com/sirupsen/logrus"
)

type (
	PipelineService struct {
		Config     *models.Config
		Lookup     annotationService.LocationToGene
		Expression *expressionService.ExpressionService
		Store      repositories.VariantStore

		RunMap    map[string]*runs.PipelineRun
		RunMapMux sync.RWMutex
	}
)

// NewPipelineService wires the stages together. store may be nil, in which
// case the significant set is not persisted.
func NewPipelineService(cfg *models.Config, lookup annotationService.LocationToGene, store repositories.VariantStore) *PipelineService {
	return &PipelineService{
		Config:     cfg,
		Lookup:     lookup,
		Expression: expressionService.NewExpressionService(cfg.Expression.PadjThreshold),
		Store:      store,
		RunMap:     map[string]*runs.PipelineRun{},
	}
}

// Run executes every stage against the GWAS table at path and registers the
// run. Schema and parse errors halt the run and are returned; stage-local
// failures further down are recorded in the run summary only.
func (p *PipelineService) Run(ctx context.Context, path string, filename string, pValueThreshold float64, windowSize int) (runs.PipelineRun, error) {
	run := runs.NewPipelineRun(filename, pValueThreshold, windowSize)
	p.register(run)

	log := logrus.WithFields(logrus.Fields{
		"run":  run.Id.String(),
		"file": filename,
	})
	log.Info("starting pipeline run")

	p.update(run, func(r *runs.PipelineRun) { r.State = runs.Running })

	// -- load + filter
	variants, err := loaderService.LoadVariants(path)
	if err != nil {
		log.WithError(err).Error("loading variants failed")
		p.update(run, func(r *runs.PipelineRun) {
			r.State = runs.Error
			r.Message = err.Error()
			r.Stages[stage.Filtered] = runs.StageResult{Status: runs.StageFailed, Message: err.Error()}
			for _, s := range stage.Pipeline[1:] {
				r.Stages[s] = runs.StageResult{Status: runs.StageSkipped}
			}
		})
		return p.snapshot(run), err
	}

	filtered := gwasService.FilterSignificantVariants(variants, pValueThreshold)
	p.update(run, func(r *runs.PipelineRun) {
		r.InputCount = len(variants)
		r.Filtered = filtered
		r.Stages[stage.Filtered] = stageResult(r, stage.Filtered, len(filtered))
	})
	log.WithFields(logrus.Fields{"stage": stage.Filtered, "input": len(variants), "count": len(filtered)}).Info("filtered significant variants")

	p.persist(ctx, run, filtered, log)

	// -- loci
	loci := gwasService.IdentifyIndependentLoci(filtered, windowSize)
	p.update(run, func(r *runs.PipelineRun) {
		r.Loci = loci
		r.Stages[stage.Loci] = stageResult(r, stage.Loci, len(loci))
	})
	log.WithFields(logrus.Fields{"stage": stage.Loci, "count": len(loci)}).Info("identified independent loci")

	// -- annotation
	annotator := annotationService.NewAnnotator(
		annotationService.NewCachedLookup(p.Lookup),
		p.Config.Ensembl.Concurrency)

	annotated, err := annotator.Annotate(ctx, loci)
	if err != nil {
		log.WithError(err).Error("annotation failed")
		p.update(run, func(r *runs.PipelineRun) {
			r.State = runs.Done
			r.Message = err.Error()
			r.Stages[stage.Annotated] = runs.StageResult{Status: runs.StageFailed, Message: err.Error()}
			r.Stages[stage.HFpEF] = runs.StageResult{Status: runs.StageSkipped}
			r.Stages[stage.HFrEF] = runs.StageResult{Status: runs.StageSkipped}
		})
		return p.snapshot(run), nil
	}
	p.update(run, func(r *runs.PipelineRun) {
		r.Annotated = annotated
		r.Stages[stage.Annotated] = stageResult(r, stage.Annotated, len(annotated))
	})
	log.WithFields(logrus.Fields{"stage": stage.Annotated, "count": len(annotated)}).Info("annotated loci")

	// -- expression comparison
	if p.Config.Api.ExpressionPath == "" {
		p.update(run, func(r *runs.PipelineRun) {
			r.State = runs.Done
			msg := "no expression dataset configured"
			r.Stages[stage.HFpEF] = runs.StageResult{Status: runs.StageSkipped, Message: msg}
			r.Stages[stage.HFrEF] = runs.StageResult{Status: runs.StageSkipped, Message: msg}
		})
		log.Warn("skipping expression comparison, no expression dataset configured")
		return p.snapshot(run), nil
	}

	records, err := loaderService.LoadExpression(p.Config.Api.ExpressionPath)
	if err != nil {
		log.WithError(err).Error("loading expression dataset failed")
		p.update(run, func(r *runs.PipelineRun) {
			r.State = runs.Error
			r.Message = err.Error()
			r.Stages[stage.HFpEF] = runs.StageResult{Status: runs.StageFailed, Message: err.Error()}
			r.Stages[stage.HFrEF] = runs.StageResult{Status: runs.StageFailed, Message: err.Error()}
		})
		return p.snapshot(run), err
	}

	hfpef, hfref := p.Expression.Compare(annotated, records)
	p.update(run, func(r *runs.PipelineRun) {
		r.HFpEF = hfpef
		r.HFrEF = hfref
		r.Stages[stage.HFpEF] = stageResult(r, stage.HFpEF, len(hfpef))
		r.Stages[stage.HFrEF] = stageResult(r, stage.HFrEF, len(hfref))
		r.State = runs.Done
	})
	log.WithFields(logrus.Fields{"hfpef": len(hfpef), "hfref": len(hfref)}).Info("pipeline run complete")

	return p.snapshot(run), nil
}

// persist replaces the stored significant set. Failure is a warning.
func (p *PipelineService) persist(ctx context.Context, run *runs.PipelineRun, filtered []indexes.Variant, log *logrus.Entry) {
	if p.Store == nil || !p.Config.Api.PersistSignificant {
		return
	}
	// an empty run keeps the previously persisted set
	if len(filtered) == 0 {
		log.Info("no significant variants to persist")
		return
	}
	if err := p.Store.Save(ctx, filtered); err != nil {
		log.WithError(err).Warn("persisting significant variants failed")
		p.update(run, func(r *runs.PipelineRun) {
			r.Warnings = append(r.Warnings, fmt.Sprintf("significant variants were not persisted: %s", err))
		})
	}
}

// stageResult records an empty stage as a warning; caller holds the lock
func stageResult(r *runs.PipelineRun, s constants.Stage, count int) runs.StageResult {
	if count > 0 {
		return runs.StageResult{Status: runs.StageOk}
	}
	warning := &pe.EmptyResultWarning{Stage: s}
	r.Warnings = append(r.Warnings, warning.Error())
	return runs.StageResult{Status: runs.StageEmpty, Message: warning.Error()}
}

func (p *PipelineService) register(run *runs.PipelineRun) {
	p.RunMapMux.Lock()
	defer p.RunMapMux.Unlock()
	p.RunMap[run.Id.String()] = run
}

func (p *PipelineService) update(run *runs.PipelineRun, f func(r *runs.PipelineRun)) {
	p.RunMapMux.Lock()
	defer p.RunMapMux.Unlock()
	f(run)
	run.UpdatedAt = time.Now()
}

// snapshot copies the run header under the lock; stage slices are shared
// since they are never modified after being assigned.
func (p *PipelineService) snapshot(run *runs.PipelineRun) runs.PipelineRun {
	p.RunMapMux.RLock()
	defer p.RunMapMux.RUnlock()
	return copyRun(run)
}

func copyRun(run *runs.PipelineRun) runs.PipelineRun {
	c := *run
	c.Stages = make(map[constants.Stage]runs.StageResult, len(run.Stages))
	for k, v := range run.Stages {
		c.Stages[k] = v
	}
	c.Warnings = append([]string{}, run.Warnings...)
	return c
}

func (p *PipelineService) GetRun(id string) (runs.PipelineRun, bool) {
	p.RunMapMux.RLock()
	defer p.RunMapMux.RUnlock()

	run, ok := p.RunMap[id]
	if !ok {
		return runs.PipelineRun{}, false
	}
	return copyRun(run), true
}

// GetAllRuns lists registered runs, oldest first.
func (p *PipelineService) GetAllRuns() []runs.PipelineRun {
	p.RunMapMux.RLock()
	defer p.RunMapMux.RUnlock()

	all := make([]runs.PipelineRun, 0, len(p.RunMap))
	for _, run := range p.RunMap {
		all = append(all, copyRun(run))
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedAt.Before(all[j].CreatedAt)
	})
	return all
}

// EvictRunsOlderThan drops finished runs last updated before cutoff and
// returns how many were removed. Runs still in progress are kept.
func (p *PipelineService) EvictRunsOlderThan(cutoff time.Time) int {
	p.RunMapMux.Lock()
	defer p.RunMapMux.Unlock()

	evicted := 0
	for id, run := range p.RunMap {
		if run.State == runs.Queued || run.State == runs.Running {
			continue
		}
		if run.UpdatedAt.Before(cutoff) {
			delete(p.RunMap, id)
			evicted++
		}
	}
	return evicted
}

// IsHaltingError reports whether err stops a run before any stage output.
func IsHaltingError(err error) bool {
	var schemaErr *pe.SchemaError
	var parseErr *pe.ParseError
	return errors.As(err, &schemaErr) || errors.As(err, &parseErr)
}
