// Package report writes stopping power tables in the Geant4-style text,
// CSV and summary formats.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/san-kum/dedx/internal/analysis"
	"github.com/san-kum/dedx/internal/stopping"
)

var csvHeader = []string{"Energy_MeV", "Total_dEdx_MeV_per_cm", "Mass_dEdx_MeV_cm2_per_g"}

// Meta identifies the configuration a table was computed with.
type Meta struct {
	Particle string  `json:"particle" yaml:"particle"`
	Material string  `json:"material" yaml:"material"`
	Model    string  `json:"model" yaml:"model"`
	Density  float64 `json:"density" yaml:"density"`
}

func MetaFor(eng *stopping.Engine) Meta {
	return Meta{
		Particle: eng.Particle().Name,
		Material: eng.Material().Name,
		Model:    eng.Model().Name(),
		Density:  eng.Material().Density,
	}
}

// BaseName is the file stem shared by the text and CSV outputs.
func (m Meta) BaseName() string {
	return fmt.Sprintf("%s_%s_%s", slug(m.Particle), slug(m.Material), slug(m.Model))
}

func WriteText(w io.Writer, meta Meta, points []stopping.Point) error {
	header := []string{
		"# Geant4 Stopping Power Data",
		"# Particle: " + meta.Particle,
		"# Material: " + meta.Material,
		"# Physics Model: " + meta.Model,
		fmt.Sprintf("# Density: %g g/cm³", meta.Density),
		"#",
		"# Energy units: MeV",
		"# dE/dx units: MeV/cm",
		"# Mass dE/dx units: MeV·cm²/g",
		"#",
	}
	if _, err := io.WriteString(w, strings.Join(header, "\n")+"\n"); err != nil {
		return err
	}
	_, err := io.WriteString(w, stopping.FormatOutput(points)+"\n")
	return err
}

func WriteCSV(w io.Writer, points []stopping.Point) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, p := range points {
		row := []string{
			strconv.FormatFloat(p.Energy, 'f', 4, 64),
			strconv.FormatFloat(p.DEDX, 'f', 6, 64),
			strconv.FormatFloat(p.MassDEDX, 'f', 6, 64),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV parses a table written by WriteCSV.
func ReadCSV(r io.Reader) ([]stopping.Point, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(csvHeader)

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("report: empty csv")
	}

	points := make([]stopping.Point, 0, len(records)-1)
	for i, rec := range records[1:] {
		var vals [3]float64
		for j := range vals {
			v, err := strconv.ParseFloat(strings.TrimSpace(rec[j]), 64)
			if err != nil {
				return nil, fmt.Errorf("report: row %d column %s: %w", i+1, csvHeader[j], err)
			}
			vals[j] = v
		}
		points = append(points, stopping.Point{Energy: vals[0], DEDX: vals[1], MassDEDX: vals[2]})
	}
	return points, nil
}

func WriteSummary(w io.Writer, meta Meta, points []stopping.Point) error {
	s, err := analysis.Summarize(points)
	if err != nil {
		return err
	}
	rule := strings.Repeat("=", 80)
	dash := strings.Repeat("-", 80)

	var b strings.Builder
	fmt.Fprintf(&b, "Stopping Power Summary Statistics\n%s\n\n", rule)
	fmt.Fprintf(&b, "Physics Model: %s\n", meta.Model)
	fmt.Fprintf(&b, "Total data points: %d\n", s.Count)
	fmt.Fprintf(&b, "Energy range: %.2f - %.2f MeV\n\n", s.EMin, s.EMax)

	fmt.Fprintf(&b, "Total Stopping Power (dE/dx):\n")
	fmt.Fprintf(&b, "  Maximum: %.4f MeV/cm at %.2f MeV\n", s.MaxDEDX, s.MaxAt)
	fmt.Fprintf(&b, "  Minimum: %.4f MeV/cm at %.2f MeV\n", s.MinDEDX, s.MinAt)
	fmt.Fprintf(&b, "  Average: %.4f MeV/cm\n\n", s.MeanDEDX)

	fmt.Fprintf(&b, "Mass Stopping Power:\n")
	fmt.Fprintf(&b, "  Maximum: %.4f MeV·cm²/g\n", s.MaxMass)
	fmt.Fprintf(&b, "  Minimum: %.4f MeV·cm²/g\n", s.MinMass)
	fmt.Fprintf(&b, "  Average: %.4f MeV·cm²/g\n\n", s.MeanMass)

	fmt.Fprintf(&b, "Sample Data Points:\n%s\n", dash)
	fmt.Fprintf(&b, "%15s%20s%25s\n%s\n", "Energy (MeV)", "dE/dx (MeV/cm)", "Mass dE/dx", dash)
	for _, p := range analysis.Samples(points, analysis.SampleEnergies, analysis.SampleTolerance) {
		fmt.Fprintf(&b, "%15.2f%20.4f%25.4f\n", p.Energy, p.DEDX, p.MassDEDX)
	}

	_, err = io.WriteString(w, b.String())
	return err
}

// WriteFiles writes the requested formats ("txt", "csv", "summary", "xlsx") into dir
// and returns the written paths in order.
func WriteFiles(dir string, meta Meta, points []stopping.Point, formats []string) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	var paths []string
	for _, format := range formats {
		var (
			name  string
			write func(io.Writer) error
		)
		switch format {
		case "txt":
			name = meta.BaseName() + ".txt"
			write = func(w io.Writer) error { return WriteText(w, meta, points) }
		case "csv":
			name = meta.BaseName() + ".csv"
			write = func(w io.Writer) error { return WriteCSV(w, points) }
		case "summary":
			name = "summary_statistics_" + slug(meta.Model) + ".txt"
			write = func(w io.Writer) error { return WriteSummary(w, meta, points) }
		case "xlsx":
			name = meta.BaseName() + ".xlsx"
			write = func(w io.Writer) error { return WriteXLSX(w, meta, points) }
		default:
			return paths, fmt.Errorf("report: unknown format %q", format)
		}

		path := filepath.Join(dir, name)
		if err := writeFile(path, write); err != nil {
			return paths, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}

func slug(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "unnamed"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			return r
		default:
			return '_'
		}
	}, s)
}
