package pipeline

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"hfgwas/api/contexts"
	"hfgwas/api/models/constants/stage"
	"hfgwas/api/models/dtos"
	errorsDtos "hfgwas/api/models/dtos/errors"
	"hfgwas/api/models/runs"
	pipelineService "hfgwas/api/services/pipeline"
	"hfgwas/api/utils"

	"github.com/labstack/echo"
)

const uploadPrefix = "hf-gwas-upload-"

// CreateRun runs the pipeline over an uploaded GWAS table (multipart `file`)
// or a table already on the server (form value `path`).
func CreateRun(c echo.Context) error {
	fmt.Printf("[%s] - CreateRun hit!\n", time.Now())
	gc := c.(*contexts.PipelineContext)

	var (
		gwasPath string
		filename string
	)

	if fileHeader, formErr := c.FormFile("file"); formErr == nil {
		uploaded, saveErr := saveUpload(fileHeader.Filename, gc.Config.Api.UploadDirectory, func() (io.ReadCloser, error) {
			return fileHeader.Open()
		})
		if saveErr != nil {
			return c.JSON(http.StatusInternalServerError, errorsDtos.CreateSimpleInternalServerError(saveErr.Error()))
		}
		defer os.Remove(uploaded)

		gwasPath = uploaded
		filename = fileHeader.Filename
	} else if pathFV := strings.TrimSpace(c.FormValue("path")); len(pathFV) > 0 {
		if info, statErr := os.Stat(pathFV); statErr != nil || info.IsDir() {
			return c.JSON(http.StatusBadRequest, errorsDtos.CreateSimpleBadRequest(
				fmt.Sprintf("GWAS file %s not found", pathFV)))
		}
		gwasPath = pathFV
		filename = filepath.Base(pathFV)
	} else {
		return c.JSON(http.StatusBadRequest, errorsDtos.CreateSimpleBadRequest(
			"Missing GWAS dataset - upload a 'file' or provide a server-side 'path'"))
	}

	run, runErr := gc.PipelineService.Run(c.Request().Context(), gwasPath, filename, gc.PValueThreshold, gc.WindowSize)
	if runErr != nil {
		if pipelineService.IsHaltingError(runErr) {
			return c.JSON(http.StatusUnprocessableEntity, errorsDtos.CreateSimpleUnprocessableEntity(
				fmt.Sprintf("run %s: %s", run.Id, runErr)))
		}
		return c.JSON(http.StatusInternalServerError, errorsDtos.CreateSimpleInternalServerError(
			fmt.Sprintf("run %s: %s", run.Id, runErr)))
	}

	return c.JSON(http.StatusCreated, ToRunResponse(run))
}

// saveUpload copies the upload into dir, keeping its extension so that
// compressed tables are still recognized.
func saveUpload(name string, dir string, open func() (io.ReadCloser, error)) (string, error) {
	src, err := open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	ext := filepath.Ext(name)
	if strings.EqualFold(ext, ".gz") {
		ext = filepath.Ext(strings.TrimSuffix(name, ext)) + ext
	}

	dst, err := os.CreateTemp(dir, uploadPrefix+"*"+ext)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(dst.Name())
		return "", err
	}
	return dst.Name(), nil
}

func GetAllRuns(c echo.Context) error {
	fmt.Printf("[%s] - GetAllRuns hit!\n", time.Now())
	gc := c.(*contexts.PipelineContext)

	all := gc.PipelineService.GetAllRuns()
	responses := make([]dtos.RunResponseDTO, 0, len(all))
	for _, run := range all {
		responses = append(responses, ToRunResponse(run))
	}

	return c.JSON(http.StatusOK, responses)
}

func GetRun(c echo.Context) error {
	fmt.Printf("[%s] - GetRun hit!\n", time.Now())
	gc := c.(*contexts.PipelineContext)

	run, ok := gc.PipelineService.GetRun(c.Param("id"))
	if !ok {
		return c.JSON(http.StatusNotFound, errorsDtos.CreateSimpleNotFound(
			fmt.Sprintf("No pipeline run with id %s", c.Param("id"))))
	}

	return c.JSON(http.StatusOK, ToRunResponse(run))
}

// DownloadStage streams one stage's output as CSV.
func DownloadStage(c echo.Context) error {
	fmt.Printf("[%s] - DownloadStage hit!\n", time.Now())
	gc := c.(*contexts.PipelineContext)

	run, ok := gc.PipelineService.GetRun(c.Param("id"))
	if !ok {
		return c.JSON(http.StatusNotFound, errorsDtos.CreateSimpleNotFound(
			fmt.Sprintf("No pipeline run with id %s", c.Param("id"))))
	}

	s := stage.CastToStage(c.Param("stage"))

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/csv")
	res.Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", stage.DownloadFileName(s)))
	res.WriteHeader(http.StatusOK)

	var writeErr error
	switch s {
	case stage.Filtered:
		writeErr = utils.WriteVariantsCsv(res, run.Filtered)
	case stage.Loci:
		writeErr = utils.WriteVariantsCsv(res, run.Loci)
	case stage.Annotated:
		writeErr = utils.WriteLociCsv(res, run.Annotated)
	case stage.HFpEF:
		writeErr = utils.WriteExpressionResultsCsv(res, run.HFpEF)
	case stage.HFrEF:
		writeErr = utils.WriteExpressionResultsCsv(res, run.HFrEF)
	default:
		writeErr = errors.New("unknown stage")
	}
	return writeErr
}

func ToRunResponse(run runs.PipelineRun) dtos.RunResponseDTO {
	counts := map[string]int{
		string(stage.Filtered):  len(run.Filtered),
		string(stage.Loci):      len(run.Loci),
		string(stage.Annotated): len(run.Annotated),
		string(stage.HFpEF):     len(run.HFpEF),
		string(stage.HFrEF):     len(run.HFrEF),
	}

	stages := map[string]dtos.StageSummary{}
	for s, result := range run.Stages {
		stages[string(s)] = dtos.StageSummary{
			Count:   counts[string(s)],
			Status:  string(result.Status),
			Message: result.Message,
		}
	}

	return dtos.RunResponseDTO{
		Id:              run.Id.String(),
		Filename:        run.Filename,
		State:           string(run.State),
		Message:         run.Message,
		PValueThreshold: run.PValueThreshold,
		WindowSize:      run.WindowSize,
		InputCount:      run.InputCount,
		Stages:          stages,
		Warnings:        run.Warnings,
		CreatedAt:       run.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       run.UpdatedAt.Format(time.RFC3339),
	}
}
