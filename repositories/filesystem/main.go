package filesystem

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"hfgwas/api/models/constants/chromosome"
	"hfgwas/api/models/indexes"
	gwasService "hfgwas/api/services/gwas"
	loaderService "hfgwas/api/services/loader"
	"hfgwas/api/utils"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// VariantStore keeps the significant-variant set as a single CSV file,
// the same layout the pipeline offers for download.
type VariantStore struct {
	Path string

	mux sync.RWMutex
}

func NewVariantStore(path string) *VariantStore {
	return &VariantStore{Path: path}
}

func (s *VariantStore) Save(ctx context.Context, variants []indexes.Variant) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mux.Lock()
	defer s.mux.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.Path), 0755); err != nil {
		return errors.Wrapf(err, "creating directory for %s", s.Path)
	}

	// write next to the target and rename so readers never see a partial file
	tmp, err := os.CreateTemp(filepath.Dir(s.Path), ".significant-*.csv")
	if err != nil {
		return errors.Wrap(err, "creating temporary variants file")
	}
	defer os.Remove(tmp.Name())

	if err := utils.WriteVariantsCsv(tmp, variants); err != nil {
		tmp.Close()
		return errors.Wrap(err, "writing variants")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "closing temporary variants file")
	}
	if err := os.Rename(tmp.Name(), s.Path); err != nil {
		return errors.Wrapf(err, "replacing %s", s.Path)
	}

	logrus.WithFields(logrus.Fields{
		"path":     s.Path,
		"variants": len(variants),
	}).Info("persisted significant variants")
	return nil
}

func (s *VariantStore) Window(ctx context.Context, chrom string, position int, windowSize int, threshold float64) ([]indexes.Variant, error) {
	variants, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	hits := gwasService.FilterVariantsInWindow(variants, chrom, position, windowSize, threshold)
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].BasePairLocation < hits[j].BasePairLocation
	})
	return hits, nil
}

func (s *VariantStore) Overview(ctx context.Context) ([]indexes.ChromosomeCount, error) {
	variants, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	counts := map[string]int{}
	for _, v := range variants {
		counts[v.Chromosome]++
	}

	overview := make([]indexes.ChromosomeCount, 0, len(counts))
	for chrom, count := range counts {
		overview = append(overview, indexes.ChromosomeCount{Chromosome: chrom, Count: count})
	}
	sort.Slice(overview, func(i, j int) bool {
		return chromosome.Less(overview[i].Chromosome, overview[j].Chromosome)
	})
	return overview, nil
}

// nothing persisted yet reads as an empty set
func (s *VariantStore) load(ctx context.Context) ([]indexes.Variant, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mux.RLock()
	defer s.mux.RUnlock()

	if _, err := os.Stat(s.Path); os.IsNotExist(err) {
		return []indexes.Variant{}, nil
	}
	return loaderService.LoadVariants(s.Path)
}
