package api

import (
	"go-ecommerce-analytics/internal/api/handler"
	"go-ecommerce-analytics/pkg/router"

	httpSwagger "github.com/swaggo/http-swagger"

	_ "go-ecommerce-analytics/docs"
)

// RegisterRoutes wires the export API and the swagger UI onto the router.
func RegisterRoutes(r *router.Router, h *handler.ExportHandler) {
	r.POST("/api/v1/exports", h.CreateExport)
	r.GET("/api/v1/exports", h.ListExports)
	// More specific routes first
	r.GET("/api/v1/exports/*/errors", h.GetExportErrors)
	r.GET("/api/v1/exports/*/files", h.GetExportFiles)
	r.GET("/api/v1/exports/*", h.GetExport)
	r.GET("/api/v1/download/*", h.DownloadFile)
	r.GET("/swagger/*", router.HandlerFunc(httpSwagger.WrapHandler))
}
