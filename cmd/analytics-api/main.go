package main

import (
	"go-ecommerce-analytics/internal/api"
	"go-ecommerce-analytics/internal/api/handler"
	"go-ecommerce-analytics/internal/model"
	"go-ecommerce-analytics/internal/store"
	"go-ecommerce-analytics/pkg/router"
)

const (
	listenAddr = ":8080"
	dbPath     = "analytics.db"

	defaultAnalysisYear   = 2023
	defaultComparisonYear = 2022
	defaultDataPath       = "ecommerce_data"
	defaultOutputDir      = "dashboard/data"
)

// @title E-commerce Analytics Export API
// @version 1.0
// @description API for running e-commerce dashboard data exports and downloading the generated JSON files
// @host localhost:8080
// @BasePath /api/v1
func main() {
	s, err := store.Open(dbPath)
	if err != nil {
		panic(err)
	}
	defer s.Close()

	defaults := model.ExportConfig{
		AnalysisYear:   defaultAnalysisYear,
		ComparisonYear: defaultComparisonYear,
		DataPath:       defaultDataPath,
		OutputDir:      defaultOutputDir,
	}

	r := router.New()
	api.RegisterRoutes(r, handler.NewExportHandler(s, defaults))
	r.Start(listenAddr)
}
