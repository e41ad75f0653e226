package storage

import (
	"encoding/json"
	"io"
)

type ExportData struct {
	Run    RunMetadata `json:"run"`
	Names  []string    `json:"metric_names"`
	Times  []float64   `json:"times"`
	Series [][]float64 `json:"series"`
}

// ExportJSON writes a stored run, metadata and per-frame series, as indented JSON.
func (s *Store) ExportJSON(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	names, times, rows, err := s.LoadSeries(runID)
	if err != nil {
		return err
	}

	data := ExportData{
		Run:    *meta,
		Names:  names,
		Times:  times,
		Series: rows,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
