package storage

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/san-kum/advsim/internal/grid"
	"github.com/san-kum/advsim/internal/sim"
)

type ExportData struct {
	ID        string             `json:"id,omitempty"`
	Name      string             `json:"name"`
	Config    sim.Config         `json:"config"`
	Dt        float64            `json:"dt"`
	Steps     int                `json:"steps"`
	Domain    []float64          `json:"domain"`
	Times     []float64          `json:"times"`
	History   [][]float64        `json:"history"`
	Residuals []float64          `json:"residuals"`
	Metrics   map[string]float64 `json:"metrics"`
}

// ExportJSON writes meta and result as one indented JSON document. JSON
// has no NaN or Inf, so a diverged run is refused; its CSV export still
// works.
func ExportJSON(w io.Writer, meta *RunMetadata, result *sim.Result) error {
	for i, u := range result.History {
		if !u.IsFinite() {
			return fmt.Errorf("snapshot %d: %w", i, grid.ErrDiverged)
		}
	}

	data := ExportData{
		ID:        meta.ID,
		Name:      meta.Name,
		Config:    meta.Config,
		Dt:        result.Dt,
		Steps:     result.Steps,
		Domain:    result.Domain,
		Times:     result.Times,
		History:   make([][]float64, len(result.History)),
		Residuals: result.Residuals,
		Metrics:   meta.Metrics,
	}
	for i, u := range result.History {
		data.History[i] = u
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("export run %s: %w", meta.ID, err)
	}
	return nil
}
