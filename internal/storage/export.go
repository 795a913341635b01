package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/chaoslab/internal/dynamo"
)

type ExportData struct {
	ID           string             `json:"id"`
	System       string             `json:"system"`
	Params       dynamo.Params      `json:"params"`
	InitialState []float64          `json:"initial_state"`
	Steps        int                `json:"steps"`
	States       [][]float64        `json:"states"`
	Metrics      map[string]float64 `json:"metrics,omitempty"`
}

// ExportJSON writes a run and its series as one JSON document.
func ExportJSON(w io.Writer, meta *RunMetadata, series dynamo.Series) error {
	data := ExportData{
		ID:           meta.ID,
		System:       meta.System,
		Params:       meta.Params,
		InitialState: meta.InitialState,
		Steps:        series.Len(),
		States:       series.Rows(),
		Metrics:      meta.Metrics,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
