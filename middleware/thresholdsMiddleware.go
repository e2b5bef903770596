package middleware

import (
	"fmt"
	"math"
	"net/http"
	"strconv"

	"hfgwas/api/contexts"
	"hfgwas/api/models/constants/chromosome"
	"hfgwas/api/models/dtos/errors"

	"github.com/labstack/echo"
)

/*
	Echo middleware to resolve the significance threshold and loci window,
	defaulting to the configured values when the query parameters are absent
*/
func ValidateOptionalThresholds(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		gc := c.(*contexts.PipelineContext)

		var (
			pValueThreshold = gc.Config.Gwas.PValueThreshold
			windowSize      = gc.Config.Gwas.WindowSize
		)

		// check for a 'pValueThreshold' query or form parameter
		if pQP := c.FormValue("pValueThreshold"); len(pQP) > 0 {
			p, conversionErr := strconv.ParseFloat(pQP, 64)
			if conversionErr != nil || math.IsNaN(p) || p <= 0 || p > 1 {
				return c.JSON(http.StatusBadRequest, errors.CreateSimpleBadRequest(
					fmt.Sprintf("Invalid 'pValueThreshold' %s - please provide a number in (0, 1]", pQP)))
			}
			pValueThreshold = p
		}

		// check for a 'windowSize' query or form parameter
		if wQP := c.FormValue("windowSize"); len(wQP) > 0 {
			w, conversionErr := strconv.Atoi(wQP)
			if conversionErr != nil || w < 0 || w > chromosome.MaxPosition {
				return c.JSON(http.StatusBadRequest, errors.CreateSimpleBadRequest(
					fmt.Sprintf("Invalid 'windowSize' %s - please provide an integer between 0 and %d", wQP, chromosome.MaxPosition)))
			}
			windowSize = w
		}

		gc.PValueThreshold = pValueThreshold
		gc.WindowSize = windowSize
		return next(c)
	}
}
