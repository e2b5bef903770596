package middleware

import (
	"net/http"
	"strings"

	"hfgwas/api/contexts"
	"hfgwas/api/models/dtos/errors"

	"github.com/labstack/echo"
)

/*
	Echo middleware to ensure a `gene` HTTP query parameter (symbol or Ensembl id) was provided
*/
func MandateGeneAttribute(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		gc := c.(*contexts.PipelineContext)

		gene := strings.TrimSpace(c.QueryParam("gene"))
		if len(gene) == 0 {
			return c.JSON(http.StatusBadRequest, errors.CreateSimpleBadRequest("Missing 'gene' query parameter for querying!"))
		}

		gc.Gene = gene
		return next(c)
	}
}
