package store

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/dedx/internal/stopping"
)

type ExportData struct {
	Run    RunMetadata      `json:"run" yaml:"run"`
	Points []stopping.Point `json:"points" yaml:"points"`
}

// Export writes a stored run with its points as "json" or "yaml".
func (s *Store) Export(w io.Writer, runID, format string) error {
	run, err := s.Load(runID)
	if err != nil {
		return err
	}
	points, err := s.LoadPoints(runID)
	if err != nil {
		return err
	}
	data := ExportData{Run: *run, Points: points}

	switch strings.ToLower(format) {
	case "", "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(data); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown export format %q", format)
	}
}

func (s *Store) ExportFile(path, runID, format string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := s.Export(file, runID, format); err != nil {
		file.Close()
		os.Remove(path)
		return err
	}
	return file.Close()
}
