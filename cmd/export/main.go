package main

import (
	"go-ecommerce-analytics/internal/export"
	"go-ecommerce-analytics/internal/model"
)

// Configuration. Changing behavior means editing these constants.
const (
	analysisYear   = 2023
	comparisonYear = 2022 // 0 disables the year-over-year comparison
	analysisMonth  = 0    // 0 exports all months
	dataPath       = "ecommerce_data"
	outputDir      = "dashboard/data"
)

func main() {
	cfg := model.ExportConfig{
		AnalysisYear:   analysisYear,
		ComparisonYear: comparisonYear,
		AnalysisMonth:  analysisMonth,
		DataPath:       dataPath,
		OutputDir:      outputDir,
	}

	if _, err := export.NewRunner(cfg).Run(); err != nil {
		panic(err)
	}
}
