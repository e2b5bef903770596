package middleware

import (
	"fmt"
	"net/http"
	"strconv"

	"hfgwas/api/contexts"
	"hfgwas/api/models/constants/chromosome"
	"hfgwas/api/models/dtos/errors"

	"github.com/labstack/echo"
)

/*
	Echo middleware to ensure a valid `chromosome` HTTP query parameter was provided
*/
func MandateChromosomeAttribute(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		gc := c.(*contexts.PipelineContext)

		// check for chromosome query parameter
		chromQP := c.QueryParam("chromosome")
		if len(chromQP) == 0 {
			return c.JSON(http.StatusBadRequest, errors.CreateSimpleBadRequest("Missing 'chromosome' query parameter for querying!"))
		}

		// verify:
		if !chromosome.IsValidHumanChromosome(chromQP) {
			return c.JSON(http.StatusBadRequest, errors.CreateSimpleBadRequest(
				fmt.Sprintf("Invalid 'chromosome' %s - please provide one of 1-22, X, Y or MT", chromQP)))
		}

		gc.Chromosome = chromosome.Normalize(chromQP)
		return next(c)
	}
}

/*
	Echo middleware to ensure a valid `position` HTTP query parameter was provided
*/
func MandatePositionAttribute(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		gc := c.(*contexts.PipelineContext)

		positionQP := c.QueryParam("position")
		if len(positionQP) == 0 {
			return c.JSON(http.StatusBadRequest, errors.CreateSimpleBadRequest("Missing 'position' query parameter for querying!"))
		}

		p, conversionErr := strconv.Atoi(positionQP)
		if conversionErr != nil || p < 0 || p > chromosome.MaxPosition {
			return c.JSON(http.StatusBadRequest, errors.CreateSimpleBadRequest(
				fmt.Sprintf("Invalid 'position' %s - please provide an integer between 0 and %d", positionQP, chromosome.MaxPosition)))
		}

		gc.Position = p
		return next(c)
	}
}
