package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/mcsim/internal/mcmc"
)

type ExportData struct {
	RunMetadata
	Trace    [][]float64 `json:"trace"`
	Accepted []bool      `json:"accepted"`
}

func newExportData(meta *RunMetadata, result *mcmc.Result) ExportData {
	data := ExportData{
		RunMetadata: *meta,
		Trace:       make([][]float64, len(result.Trace)),
		Accepted:    result.Accepted,
	}
	for i, x := range result.Trace {
		data.Trace[i] = x
	}
	return data
}

func ExportJSON(path string, meta *RunMetadata, result *mcmc.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	if err := WriteJSON(file, meta, result); err != nil {
		return err
	}
	return file.Close()
}

func WriteJSON(w io.Writer, meta *RunMetadata, result *mcmc.Result) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(newExportData(meta, result))
}
