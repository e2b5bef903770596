package contexts

import (
	"hfgwas/api/models"
	"hfgwas/api/repositories"
	pipelineService "hfgwas/api/services/pipeline"
	queryService "hfgwas/api/services/query"

	"github.com/labstack/echo"
)

type (
	// "Helper" Context to pass into routes that need
	// the pipeline singletons and validated request parameters
	PipelineContext struct {
		echo.Context
		Config          *models.Config
		PipelineService *pipelineService.PipelineService
		QueryService    *queryService.QueryService
		VariantStore    repositories.VariantStore

		// set by middleware
		PValueThreshold float64
		WindowSize      int
		Chromosome      string
		Position        int
		Gene            string
	}
)
