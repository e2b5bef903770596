package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"sync/atomic"

	"hfgwas/api/models/constants/chromosome"
	"hfgwas/api/models/indexes"
	gwasService "hfgwas/api/services/gwas"

	"github.com/elastic/go-elasticsearch/v7/esutil"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const maxWindowHits = 10000

// Save drops and recreates the index, then bulk indexes the variants.
func (s *VariantStore) Save(ctx context.Context, variants []indexes.Variant) error {
	if err := s.recreateIndex(ctx); err != nil {
		return err
	}

	bi, err := esutil.NewBulkIndexer(esutil.BulkIndexerConfig{
		Index:   s.Index,
		Client:  s.Client,
		Refresh: "true",
	})
	if err != nil {
		return errors.Wrap(err, "creating bulk indexer")
	}

	var countFailed uint64
	for _, v := range variants {
		variantData, marshallErr := json.Marshal(v)
		if marshallErr != nil {
			return errors.Wrapf(marshallErr, "encoding variant %s", v.VariantId)
		}

		addErr := bi.Add(ctx, esutil.BulkIndexerItem{
			Action: "index",
			Body:   bytes.NewReader(variantData),
			OnFailure: func(ctx context.Context, item esutil.BulkIndexerItem, res esutil.BulkIndexerResponseItem, err error) {
				atomic.AddUint64(&countFailed, 1)
				if err != nil {
					logrus.WithError(err).Warn("indexing variant failed")
				} else {
					logrus.Warnf("indexing variant failed: %s: %s", res.Error.Type, res.Error.Reason)
				}
			},
		})
		if addErr != nil {
			return errors.Wrap(addErr, "adding variant to bulk indexer")
		}
	}

	if err := bi.Close(ctx); err != nil {
		return errors.Wrap(err, "flushing bulk indexer")
	}

	stats := bi.Stats()
	logrus.WithFields(logrus.Fields{
		"index":   s.Index,
		"indexed": stats.NumIndexed,
		"failed":  countFailed,
	}).Info("persisted significant variants")

	if countFailed > 0 {
		return fmt.Errorf("failed to index %d of %d variants", countFailed, len(variants))
	}
	return nil
}

func (s *VariantStore) recreateIndex(ctx context.Context) error {
	res, err := s.Client.Indices.Delete([]string{s.Index}, s.Client.Indices.Delete.WithContext(ctx))
	if err != nil {
		return errors.Wrapf(err, "deleting index %s", s.Index)
	}
	res.Body.Close()
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return responseError(res, "deleting index "+s.Index)
	}

	body, _ := json.Marshal(map[string]interface{}{
		"mappings": indexes.VARIANT_INDEX_MAPPING,
	})
	res, err = s.Client.Indices.Create(s.Index,
		s.Client.Indices.Create.WithContext(ctx),
		s.Client.Indices.Create.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return errors.Wrapf(err, "creating index %s", s.Index)
	}
	defer res.Body.Close()
	if res.IsError() {
		return responseError(res, "creating index "+s.Index)
	}
	return nil
}

func (s *VariantStore) Window(ctx context.Context, chrom string, position int, windowSize int, threshold float64) ([]indexes.Variant, error) {
	lowerBound, upperBound := gwasService.WindowBounds(position, windowSize)

	filterMap := []map[string]interface{}{
		{"term": map[string]interface{}{
			"chromosome": chromosome.Normalize(chrom),
		}},
		{"range": map[string]interface{}{
			"base_pair_location": map[string]interface{}{
				"gte": lowerBound,
				"lte": upperBound,
			},
		}},
		{"range": map[string]interface{}{
			"p_value": map[string]interface{}{
				"lte": threshold,
			},
		}},
	}

	query := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"filter": filterMap,
			},
		},
		"size": maxWindowHits,
		"sort": []map[string]interface{}{
			{"base_pair_location": "asc"},
		},
	}

	docs, err := s.search(ctx, query)
	if err != nil {
		return nil, err
	}

	variants := make([]indexes.Variant, 0)
	if docs == nil {
		return variants, nil
	}

	// gather data from "hits"
	hits, _ := docs["hits"].(map[string]interface{})
	allDocHits := []map[string]interface{}{}
	mapstructure.Decode(hits["hits"], &allDocHits)

	for _, r := range allDocHits {
		source, ok := r["_source"].(map[string]interface{})
		if !ok {
			continue
		}

		// cast map[string]interface{} to struct
		var resultingVariant indexes.Variant
		if err := mapstructure.Decode(source, &resultingVariant); err != nil {
			return nil, errors.Wrap(err, "decoding variant")
		}
		variants = append(variants, resultingVariant)
	}

	return variants, nil
}

func (s *VariantStore) Overview(ctx context.Context) ([]indexes.ChromosomeCount, error) {
	query := map[string]interface{}{
		"size": 0,
		"aggs": map[string]interface{}{
			"chromosomes": map[string]interface{}{
				"terms": map[string]interface{}{
					"field": "chromosome",
					"size":  100,
				},
			},
		},
	}

	docs, err := s.search(ctx, query)
	if err != nil {
		return nil, err
	}

	overview := make([]indexes.ChromosomeCount, 0)
	if docs == nil {
		return overview, nil
	}

	// gather data from "aggregations"
	aggs, _ := docs["aggregations"].(map[string]interface{})
	chromosomes, _ := aggs["chromosomes"].(map[string]interface{})
	if err := mapstructure.Decode(chromosomes["buckets"], &overview); err != nil {
		return nil, errors.Wrap(err, "decoding chromosome buckets")
	}

	sort.Slice(overview, func(i, j int) bool {
		return chromosome.Less(overview[i].Chromosome, overview[j].Chromosome)
	})
	return overview, nil
}
