package variants

import (
	"fmt"
	"net/http"
	"time"

	"hfgwas/api/contexts"
	"hfgwas/api/models/dtos"
	errorsDtos "hfgwas/api/models/dtos/errors"
	gwasService "hfgwas/api/services/gwas"

	"github.com/labstack/echo"
)

func VariantsInWindow(c echo.Context) error {
	fmt.Printf("[%s] - VariantsInWindow hit!\n", time.Now())
	gc := c.(*contexts.PipelineContext)

	variants, err := gc.VariantStore.Window(c.Request().Context(), gc.Chromosome, gc.Position, gc.WindowSize, gc.PValueThreshold)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, errorsDtos.CreateSimpleInternalServerError(err.Error()))
	}

	lowerBound, upperBound := gwasService.WindowBounds(gc.Position, gc.WindowSize)

	return c.JSON(http.StatusOK, dtos.VariantsResponseDTO{
		Status:     http.StatusOK,
		Message:    "Success",
		Chromosome: gc.Chromosome,
		LowerBound: lowerBound,
		UpperBound: upperBound,
		Count:      len(variants),
		Results:    variants,
	})
}

func GetVariantsOverview(c echo.Context) error {
	fmt.Printf("[%s] - GetVariantsOverview hit!\n", time.Now())
	gc := c.(*contexts.PipelineContext)

	overview, err := gc.VariantStore.Overview(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, errorsDtos.CreateSimpleInternalServerError(err.Error()))
	}

	total := 0
	chromosomes := map[string]int{}
	for _, cc := range overview {
		chromosomes[cc.Chromosome] = cc.Count
		total += cc.Count
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"chromosomes": chromosomes,
		"count":       total,
	})
}
