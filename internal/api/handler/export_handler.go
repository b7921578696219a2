package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"go-ecommerce-analytics/internal/export"
	"go-ecommerce-analytics/internal/model"
	"go-ecommerce-analytics/internal/store"

	"github.com/google/uuid"
)

// ExportHandler serves the export-run API on top of the run store.
type ExportHandler struct {
	store    *store.Store
	defaults model.ExportConfig
}

// NewExportHandler creates a handler with server-level default configuration.
func NewExportHandler(s *store.Store, defaults model.ExportConfig) *ExportHandler {
	return &ExportHandler{store: s, defaults: defaults}
}

// CreateExport starts a new export run
// @Summary Start an export run
// @Description Start an asynchronous export run; body fields override the server defaults
// @Tags exports
// @Accept json
// @Produce json
// @Param config body model.ExportConfig false "Configuration overrides"
// @Success 200 {object} map[string]interface{} "Run accepted"
// @Failure 400 {object} map[string]interface{} "Invalid request payload"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /exports [post]
func (h *ExportHandler) CreateExport(w http.ResponseWriter, r *http.Request) {
	cfg := h.defaults
	var overrides model.ExportConfig
	// An empty body means "use the server defaults".
	if err := json.NewDecoder(r.Body).Decode(&overrides); err != nil && !errors.Is(err, io.EOF) {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	if overrides.AnalysisYear != 0 {
		cfg.AnalysisYear = overrides.AnalysisYear
	}
	if overrides.ComparisonYear != 0 {
		cfg.ComparisonYear = overrides.ComparisonYear
	}
	if overrides.AnalysisMonth != 0 {
		cfg.AnalysisMonth = overrides.AnalysisMonth
	}
	if overrides.DataPath != "" {
		cfg.DataPath = overrides.DataPath
	}
	if overrides.OutputDir != "" {
		cfg.OutputDir = overrides.OutputDir
	}

	if cfg.AnalysisYear == 0 {
		http.Error(w, "An analysis year is required", http.StatusBadRequest)
		return
	}

	runID := uuid.New().String()
	if overrides.OutputDir == "" {
		// Each run writes into its own directory so runs never clobber
		// each other's files.
		cfg.OutputDir = filepath.Join(h.defaults.OutputDir, runID)
	}

	if err := h.store.SaveRun(runID, cfg); err != nil {
		http.Error(w, "Failed to save run", http.StatusInternalServerError)
		return
	}

	go h.execute(runID, cfg)

	resp := map[string]interface{}{
		"message":   "Export run accepted",
		"runID":     runID,
		"status":    "pending",
		"createdAt": time.Now().UTC(),
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// execute runs the pipeline and records its outcome.
func (h *ExportHandler) execute(runID string, cfg model.ExportConfig) {
	h.store.UpdateRunStatus(runID, "running")

	files, err := export.NewRunner(cfg).Run()
	if err != nil {
		fmt.Printf("❌ Export run %s failed: %v\n", runID, err)
		h.store.SaveRunError(runID, err)
		h.store.UpdateRunStatus(runID, "failed")
		return
	}

	for _, f := range files {
		h.store.SaveRunFile(runID, f)
	}
	h.store.UpdateRunStatus(runID, "completed")
}

// ListExports retrieves all export runs
// @Summary List export runs
// @Description Get all export runs with their current status
// @Tags exports
// @Produce json
// @Success 200 {array} model.ExportRun "List of runs"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /exports [get]
func (h *ExportHandler) ListExports(w http.ResponseWriter, r *http.Request) {
	runs, err := h.store.ListRuns()
	if err != nil {
		http.Error(w, "Failed to fetch runs", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(runs)
}

// GetExport retrieves one export run
// @Summary Get export run
// @Description Retrieve details of one export run
// @Tags exports
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} model.ExportRun "Run details"
// @Failure 400 {object} map[string]interface{} "Invalid run ID"
// @Failure 404 {object} map[string]interface{} "Run not found"
// @Router /exports/{id} [get]
func (h *ExportHandler) GetExport(w http.ResponseWriter, r *http.Request) {
	runID, ok := runIDFromPath(w, r.URL.Path, "")
	if !ok {
		return
	}

	run, err := h.store.GetRun(runID)
	if err != nil {
		http.Error(w, "Run not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(run)
}

// GetExportErrors retrieves errors for a run
// @Summary Get export run errors
// @Description Retrieve all errors recorded for an export run
// @Tags exports
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} map[string]interface{} "Run errors"
// @Failure 400 {object} map[string]interface{} "Invalid run ID"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /exports/{id}/errors [get]
func (h *ExportHandler) GetExportErrors(w http.ResponseWriter, r *http.Request) {
	runID, ok := runIDFromPath(w, r.URL.Path, "/errors")
	if !ok {
		return
	}

	runErrors, err := h.store.GetRunErrors(runID)
	if err != nil {
		http.Error(w, "Failed to retrieve errors", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"run_id": runID,
		"errors": runErrors,
		"count":  len(runErrors),
	})
}

// GetExportFiles retrieves the generated files for a run
// @Summary Get export run files
// @Description Retrieve the JSON files generated by an export run
// @Tags exports
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} map[string]interface{} "Run files"
// @Failure 400 {object} map[string]interface{} "Invalid run ID"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /exports/{id}/files [get]
func (h *ExportHandler) GetExportFiles(w http.ResponseWriter, r *http.Request) {
	runID, ok := runIDFromPath(w, r.URL.Path, "/files")
	if !ok {
		return
	}

	files, err := h.store.GetRunFiles(runID)
	if err != nil {
		http.Error(w, "Failed to retrieve files", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"run_id": runID,
		"files":  files,
		"count":  len(files),
	})
}

// DownloadFile serves one generated JSON file
// @Summary Download a generated file
// @Description Download one JSON file generated by an export run
// @Tags exports
// @Produce json
// @Param id path string true "Run ID"
// @Param file path string true "File name"
// @Success 200 {file} file "File contents"
// @Failure 404 {object} map[string]interface{} "File not found"
// @Router /download/{id}/{file} [get]
func (h *ExportHandler) DownloadFile(w http.ResponseWriter, r *http.Request) {
	const prefix = "/api/v1/download/"
	rest := strings.TrimPrefix(r.URL.Path, prefix)
	runID, fileName, found := strings.Cut(rest, "/")
	if !found || runID == "" || fileName == "" {
		http.Error(w, "Run ID and file name are required", http.StatusBadRequest)
		return
	}

	files, err := h.store.GetRunFiles(runID)
	if err != nil {
		http.Error(w, "Failed to retrieve files", http.StatusInternalServerError)
		return
	}
	for _, f := range files {
		if f.Name == filepath.Base(fileName) {
			http.ServeFile(w, r, f.Path)
			return
		}
	}
	http.Error(w, "File not found", http.StatusNotFound)
}

// runIDFromPath extracts the run ID segment from an export route, writing an
// error response when it is missing.
func runIDFromPath(w http.ResponseWriter, path, suffix string) (string, bool) {
	const prefix = "/api/v1/exports/"

	if !strings.HasPrefix(path, prefix) || !strings.HasSuffix(path, suffix) {
		http.Error(w, "Invalid path", http.StatusBadRequest)
		return "", false
	}

	runID := path[len(prefix) : len(path)-len(suffix)]
	if runID == "" || strings.Contains(runID, "/") {
		http.Error(w, "Run ID is required", http.StatusBadRequest)
		return "", false
	}
	return runID, true
}
