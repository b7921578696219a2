package model

// ExportConfig is the immutable configuration for one export run. The batch
// exporter fills it from constants at the top of its main; the API server
// fills it from request overrides on top of its own defaults.
type ExportConfig struct {
	AnalysisYear   int    `json:"analysisYear"`
	ComparisonYear int    `json:"comparisonYear,omitempty"` // 0 disables year-over-year comparison
	AnalysisMonth  int    `json:"analysisMonth,omitempty"`  // 0 means all months
	DataPath       string `json:"dataPath"`
	OutputDir      string `json:"outputDir"`
}
