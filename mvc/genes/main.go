package genes

import (
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"time"

	"hfgwas/api/contexts"
	"hfgwas/api/models/dtos"
	errorsDtos "hfgwas/api/models/dtos/errors"
	pe "hfgwas/api/models/pipeline-errors"
	queryService "hfgwas/api/services/query"
	"hfgwas/api/utils"

	"github.com/labstack/echo"
)

var unsafeFileNameChars = regexp.MustCompile(`[^A-Za-z0-9._-]`)

func GenesQuery(c echo.Context) error {
	fmt.Printf("[%s] - GenesQuery hit!\n", time.Now())
	gc := c.(*contexts.PipelineContext)

	result, errResponse := executeQuery(gc)
	if errResponse != nil {
		return errResponse()
	}

	message := "Success"
	if len(result.Variants) == 0 {
		message = fmt.Sprintf("No significant variants within %d bp of %s", gc.WindowSize, gc.Gene)
	}

	return c.JSON(http.StatusOK, dtos.GeneQueryResponseDTO{
		Status:   http.StatusOK,
		Message:  message,
		Term:     gc.Gene,
		Location: result.Location,
		HFpEF:    result.HFpEF,
		HFrEF:    result.HFrEF,
		Count:    len(result.Variants),
		Results:  result.Variants,
	})
}

// GenesQueryDownload returns the variants near the gene as CSV.
func GenesQueryDownload(c echo.Context) error {
	fmt.Printf("[%s] - GenesQueryDownload hit!\n", time.Now())
	gc := c.(*contexts.PipelineContext)

	result, errResponse := executeQuery(gc)
	if errResponse != nil {
		return errResponse()
	}

	filename := fmt.Sprintf("%s_filtered_variants.csv", unsafeFileNameChars.ReplaceAllString(gc.Gene, "_"))

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/csv")
	res.Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	res.WriteHeader(http.StatusOK)

	return utils.WriteVariantsCsv(res, result.Variants)
}

// executeQuery runs the gene query and maps failures to an error response
func executeQuery(gc *contexts.PipelineContext) (*queryService.GeneQueryResult, func() error) {
	result, err := gc.QueryService.QueryGene(gc.Request().Context(), gc.Gene, gc.WindowSize, gc.PValueThreshold)
	if err == nil {
		return result, nil
	}

	var (
		notFound   *pe.GeneNotFoundError
		serviceErr *pe.ExternalServiceError
	)
	switch {
	case errors.As(err, &notFound):
		return nil, func() error {
			return gc.JSON(http.StatusNotFound, errorsDtos.CreateSimpleNotFound(err.Error()))
		}
	case errors.As(err, &serviceErr):
		return nil, func() error {
			return gc.JSON(http.StatusBadGateway, errorsDtos.CreateSimpleBadGateway(err.Error()))
		}
	default:
		return nil, func() error {
			return gc.JSON(http.StatusInternalServerError, errorsDtos.CreateSimpleInternalServerError(err.Error()))
		}
	}
}
