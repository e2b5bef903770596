package main

import (
	"fmt"
	"os"
	"path/filepath"

	"hfgwas/api/contexts"
	gam "hfgwas/api/middleware"
	"hfgwas/api/models"
	genesMvc "hfgwas/api/mvc/genes"
	pipelineMvc "hfgwas/api/mvc/pipeline"
	serviceInfoMvc "hfgwas/api/mvc/service-info"
	variantsMvc "hfgwas/api/mvc/variants"
	"hfgwas/api/repositories"
	esRepo "hfgwas/api/repositories/elasticsearch"
	"hfgwas/api/repositories/ensembl"
	"hfgwas/api/repositories/filesystem"
	pipelineService "hfgwas/api/services/pipeline"
	queryService "hfgwas/api/services/query"
	"hfgwas/api/services/sanitation"
	"hfgwas/api/utils"

	"github.com/kelseyhightower/envconfig"
	"github.com/labstack/echo"
	"github.com/labstack/echo/middleware"
	"github.com/sirupsen/logrus"
)

func main() {
	// Gather environment variables
	var cfg models.Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	if cfg.Debug {
		logrus.SetLevel(logrus.DebugLevel)
	}

	if cfg.Api.SignificantVariantsPath == "" {
		cfg.Api.SignificantVariantsPath = filepath.Join(cfg.Api.UploadDirectory, "hf_gwas_filtered.csv")
	}

	fmt.Printf("Using : \n"+

		"\tDebug : %t \n\n"+

		"\tUpload Directory : %s \n"+
		"\tExpression Dataset : %s \n"+
		"\tVariant Store : %s \n"+
		"\tSignificant Variants Path : %s \n"+
		"\tElasticsearch Url : %s \n\n"+

		"\tP-Value Threshold : %g \n"+
		"\tWindow Size : %d \n"+
		"\tPadj Threshold : %g \n\n"+

		"\tEnsembl Url : %s \n"+
		"\tEnsembl Concurrency : %d \n\n"+

		"Running on Port : %s\n",

		cfg.Debug,
		cfg.Api.UploadDirectory,
		cfg.Api.ExpressionPath,
		cfg.Api.VariantStore,
		cfg.Api.SignificantVariantsPath,
		cfg.Elasticsearch.Url,
		cfg.Gwas.PValueThreshold,
		cfg.Gwas.WindowSize,
		cfg.Expression.PadjThreshold,
		cfg.Ensembl.Url,
		cfg.Ensembl.Concurrency,
		cfg.Api.Port)
	// --

	// Instantiate Server
	e := echo.New()

	// Service Connections:
	// -- Persisted significant variants
	var store repositories.VariantStore
	switch cfg.Api.VariantStore {
	case "elasticsearch":
		es, esErr := utils.CreateEsConnection(cfg.Elasticsearch.Url, cfg.Elasticsearch.Username, cfg.Elasticsearch.Password)
		if esErr != nil {
			fmt.Println(esErr)
			os.Exit(2)
		}
		store = esRepo.NewVariantStore(es, cfg.Elasticsearch.Index, cfg.Debug)
	default:
		store = filesystem.NewVariantStore(cfg.Api.SignificantVariantsPath)
	}

	// -- Ensembl REST
	ensemblClient := ensembl.NewClient(&cfg)

	// Service Singletons
	pz := pipelineService.NewPipelineService(&cfg, ensemblClient, store)
	qz := queryService.NewQueryService(&cfg, ensemblClient, store)
	sanitation.NewSanitationService(pz, &cfg)

	// Configure Server
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{echo.GET, echo.PUT, echo.POST, echo.DELETE},
	}))

	// -- Override handlers with the custom pipeline context
	//		to be able to provide variables and global singletons
	e.Use(func(h echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cc := &contexts.PipelineContext{
				Context:         c,
				Config:          &cfg,
				PipelineService: pz,
				QueryService:    qz,
				VariantStore:    store,
			}
			return h(cc)
		}
	})

	// Begin MVC Routes
	// -- Root
	e.GET("/", serviceInfoMvc.GetRoot)

	// -- Service Info
	e.GET("/service-info", serviceInfoMvc.GetServiceInfo)

	// -- Pipeline
	e.POST("/pipeline/runs", pipelineMvc.CreateRun,
		// middleware
		gam.ValidateOptionalThresholds)
	e.GET("/pipeline/runs", pipelineMvc.GetAllRuns)
	e.GET("/pipeline/runs/:id", pipelineMvc.GetRun)
	e.GET("/pipeline/runs/:id/download/:stage", pipelineMvc.DownloadStage,
		// middleware
		gam.ValidateStageParam)

	// -- Genes
	e.GET("/genes/query", genesMvc.GenesQuery,
		// middleware
		gam.MandateGeneAttribute,
		gam.ValidateOptionalThresholds)
	e.GET("/genes/query/download", genesMvc.GenesQueryDownload,
		// middleware
		gam.MandateGeneAttribute,
		gam.ValidateOptionalThresholds)

	// -- Variants
	e.GET("/variants/window", variantsMvc.VariantsInWindow,
		// middleware
		gam.MandateChromosomeAttribute,
		gam.MandatePositionAttribute,
		gam.ValidateOptionalThresholds)
	e.GET("/variants/overview", variantsMvc.GetVariantsOverview)

	// Run
	e.Logger.Fatal(e.Start(":" + cfg.Api.Port))
}
