package queryService

import (
	"context"
	"strings"

	"hfgwas/api/models"
	"hfgwas/api/models/indexes"
	"hfgwas/api/repositories"
	expressionService "hfgwas/api/services/expression"
	loaderService "hfgwas/api/services/loader"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type (
	GeneLocator interface {
		LocateGene(ctx context.Context, gene string) (indexes.GeneLocation, error)
	}

	QueryService struct {
		Config     *models.Config
		Locator    GeneLocator
		Expression *expressionService.ExpressionService
		Store      repositories.VariantStore
	}

	GeneQueryResult struct {
		Location indexes.GeneLocation
		HFpEF    []indexes.ExpressionResult
		HFrEF    []indexes.ExpressionResult
		Variants []indexes.Variant
	}
)

func NewQueryService(cfg *models.Config, locator GeneLocator, store repositories.VariantStore) *QueryService {
	return &QueryService{
		Config:     cfg,
		Locator:    locator,
		Expression: expressionService.NewExpressionService(cfg.Expression.PadjThreshold),
		Store:      store,
	}
}

// QueryGene resolves the gene's location, labels its expression rows and
// collects persisted significant variants within windowSize of its start.
// An unresolvable gene is a GeneNotFoundError; finding no variants is not
// an error.
func (q *QueryService) QueryGene(ctx context.Context, gene string, windowSize int, threshold float64) (*GeneQueryResult, error) {
	gene = strings.TrimSpace(gene)

	location, err := q.Locator.LocateGene(ctx, gene)
	if err != nil {
		return nil, err
	}

	log := logrus.WithFields(logrus.Fields{
		"gene":       gene,
		"chromosome": location.Chromosome,
		"start":      location.Start,
	})

	result := &GeneQueryResult{
		Location: location,
		HFpEF:    []indexes.ExpressionResult{},
		HFrEF:    []indexes.ExpressionResult{},
	}

	if q.Config.Api.ExpressionPath != "" {
		records, err := loaderService.LoadExpression(q.Config.Api.ExpressionPath)
		if err != nil {
			return nil, err
		}
		result.HFpEF, result.HFrEF = q.Expression.QueryGene(records, gene, location.GeneId)
	}

	variants, err := q.Store.Window(ctx, location.Chromosome, location.Start, windowSize, threshold)
	if err != nil {
		return nil, errors.Wrapf(err, "reading significant variants near %s", gene)
	}
	result.Variants = variants

	log.WithFields(logrus.Fields{
		"hfpef":    len(result.HFpEF),
		"hfref":    len(result.HFrEF),
		"variants": len(variants),
	}).Info("gene query complete")

	return result, nil
}
