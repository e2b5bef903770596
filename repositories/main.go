package repositories

import (
	"context"
	"hfgwas/api/models/indexes"
)

// VariantStore persists the most recent significant-variant set so the gene
// query path can search it without re-running the pipeline.
type VariantStore interface {
	// Save replaces the persisted set.
	Save(ctx context.Context, variants []indexes.Variant) error
	// Window returns persisted variants on chromosome within windowSize of
	// position (inclusive) whose p-value is at most threshold, in ascending
	// position order.
	Window(ctx context.Context, chromosome string, position int, windowSize int, threshold float64) ([]indexes.Variant, error)
	// Overview counts persisted variants per chromosome.
	Overview(ctx context.Context) ([]indexes.ChromosomeCount, error)
}
