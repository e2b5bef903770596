package serviceInfo

import (
	"fmt"
	"net/http"
	"time"

	"hfgwas/api/contexts"
	serviceInfo "hfgwas/api/models/constants/service-info"

	"github.com/labstack/echo"
)

func GetRoot(c echo.Context) error {
	fmt.Printf("[%s] - Root hit!\n", time.Now())
	return c.JSON(http.StatusOK, serviceInfo.SERVICE_WELCOME)
}

// Spec: https://github.com/ga4gh-discovery/ga4gh-service-info
func GetServiceInfo(c echo.Context) error {
	fmt.Printf("[%s] - GetServiceInfo hit!\n", time.Now())
	cfg := c.(*contexts.PipelineContext).Config

	return c.JSON(http.StatusOK, map[string]interface{}{
		"type": map[string]interface{}{
			"artifact": serviceInfo.SERVICE_ARTIFACT,
			"group":    serviceInfo.SERVICE_TYPE_NO_VER,
			"version":  cfg.SemVer,
		},
		"id":          serviceInfo.SERVICE_ID,
		"name":        serviceInfo.SERVICE_NAME,
		"description": serviceInfo.SERVICE_DESCRIPTION,
		"contactUrl":  cfg.ServiceContact,
		"version":     cfg.SemVer,
		"defaults": map[string]interface{}{
			"pValueThreshold": cfg.Gwas.PValueThreshold,
			"windowSize":      cfg.Gwas.WindowSize,
			"padjThreshold":   cfg.Expression.PadjThreshold,
		},
	})
}
