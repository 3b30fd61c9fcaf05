package main

import (
	"github.com/sells-group/choromap/internal/config"
)

// testCmdConfig returns a config with the same defaults Load produces,
// without touching the filesystem or environment.
func testCmdConfig() *config.Config {
	return &config.Config{
		Inputs:   config.InputsConfig{NameProperty: "COUNTY_NAME"},
		Join:     config.JoinConfig{Policy: "drop"},
		Classify: config.ClassifyConfig{K: 3, Palette: "pink-blue"},
		Map: config.MapConfig{
			Title:        "Bivariate choropleth map",
			Width:        1000,
			Ratio:        0.8,
			Background:   "#ffffff",
			BordersWidth: 0.5,
			BordersColor: "#f8f8f8",
			Labels:       true,
		},
		Legend: config.LegendConfig{
			Top:    0.85,
			Right:  0.95,
			BoxW:   0.04,
			XLabel: "Higher x value",
			YLabel: "Higher y value",
		},
		Output: config.OutputConfig{Path: "map.png"},
		Fetch:  config.FetchConfig{DataDir: "data", TimeoutSecs: 60, MaxRetries: 3, RatePerSec: 2, UserAgent: "choromap/1.0"},
		Server: config.ServerConfig{Port: 8080, AllowedOrigins: []string{"*"}},
		Log:    config.LogConfig{Level: "info", Format: "json"},
	}
}
