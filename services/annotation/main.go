package annotationService

import (
	"context"
	"errors"
	"fmt"
	"sync"

	pe "hfgwas/api/models/pipeline-errors"
	"hfgwas/api/models/constants/chromosome"
	"hfgwas/api/models/indexes"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const (
	NoGeneFound = "No gene found"
	NoNameFound = "No name found"
)

// LocationToGene maps a genomic coordinate to the nearest gene.
// found=false with a nil error means the service answered but knows of no gene.
type LocationToGene interface {
	LocationToGene(ctx context.Context, chromosome string, position int) (hit indexes.GeneHit, found bool, err error)
}

type (
	Annotator struct {
		Lookup      LocationToGene
		Concurrency int
	}
)

func NewAnnotator(lookup LocationToGene, concurrency int) *Annotator {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Annotator{
		Lookup:      lookup,
		Concurrency: concurrency,
	}
}

// Annotate performs one lookup per locus, at most Concurrency at a time.
// Results are written back by index, so the output order always matches
// the input order. A failed lookup yields the sentinel values; only when
// every lookup of a non-empty batch fails is the service error returned.
func (a *Annotator) Annotate(ctx context.Context, loci []indexes.Variant) ([]indexes.Locus, error) {
	annotated := make([]indexes.Locus, len(loci))
	if len(loci) == 0 {
		return annotated, nil
	}

	var (
		failures     int
		firstFailure error
		failuresMux  sync.Mutex
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.Concurrency)

	for i := range loci {
		i := i
		g.Go(func() error {
			v := loci[i]
			annotated[i] = indexes.Locus{Variant: v, GeneId: NoGeneFound, GeneName: NoNameFound}

			hit, found, err := a.Lookup.LocationToGene(gctx, v.Chromosome, v.BasePairLocation)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}

				logrus.WithFields(logrus.Fields{
					"chromosome": v.Chromosome,
					"position":   v.BasePairLocation,
				}).Warnf("gene lookup failed: %v", err)

				failuresMux.Lock()
				failures++
				if firstFailure == nil {
					firstFailure = err
				}
				failuresMux.Unlock()
				return nil
			}

			if found {
				if hit.GeneId != "" {
					annotated[i].GeneId = hit.GeneId
				}
				if hit.GeneName != "" {
					annotated[i].GeneName = hit.GeneName
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if failures == len(loci) {
		var serviceErr *pe.ExternalServiceError
		if errors.As(firstFailure, &serviceErr) {
			return nil, serviceErr
		}
		return nil, &pe.ExternalServiceError{Service: "gene annotation", Err: firstFailure}
	}

	return annotated, nil
}

type cachedHit struct {
	hit   indexes.GeneHit
	found bool
}

// CachedLookup memoizes successful lookups by chromosome and position.
// Failures are not cached so that a later call may retry them.
type CachedLookup struct {
	next  LocationToGene
	cache map[string]cachedHit
	mux   sync.RWMutex
}

func NewCachedLookup(next LocationToGene) *CachedLookup {
	return &CachedLookup{
		next:  next,
		cache: map[string]cachedHit{},
	}
}

func (c *CachedLookup) LocationToGene(ctx context.Context, chrom string, position int) (indexes.GeneHit, bool, error) {
	key := fmt.Sprintf("%s:%d", chromosome.Normalize(chrom), position)

	c.mux.RLock()
	cached, ok := c.cache[key]
	c.mux.RUnlock()
	if ok {
		return cached.hit, cached.found, nil
	}

	hit, found, err := c.next.LocationToGene(ctx, chrom, position)
	if err != nil {
		return hit, found, err
	}

	c.mux.Lock()
	c.cache[key] = cachedHit{hit: hit, found: found}
	c.mux.Unlock()

	return hit, found, nil
}

func (c *CachedLookup) Len() int {
	c.mux.RLock()
	defer c.mux.RUnlock()
	return len(c.cache)
}
