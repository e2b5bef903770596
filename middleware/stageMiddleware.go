package middleware

import (
	"fmt"
	"net/http"

	"hfgwas/api/models/constants/stage"
	"hfgwas/api/models/dtos/errors"

	"github.com/labstack/echo"
)

/*
	Echo middleware to ensure the `:stage` path parameter names a pipeline stage
*/
func ValidateStageParam(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		stageParam := c.Param("stage")
		if !stage.IsKnownStage(stageParam) {
			return c.JSON(http.StatusBadRequest, errors.CreateSimpleBadRequest(
				fmt.Sprintf("Unknown stage '%s' - please provide one of filtered, loci, annotated, hfpef or hfref", stageParam)))
		}

		return next(c)
	}
}
