package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/facette/natsort"

	"github.com/san-kum/dedx/internal/analysis"
	"github.com/san-kum/dedx/internal/report"
	"github.com/san-kum/dedx/internal/stopping"
)

const (
	metadataFile = "metadata.json"
	pointsFile   = "points.csv"
)

type Store struct {
	baseDir string
	now     func() time.Time
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir, now: time.Now}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string           `json:"id" yaml:"id"`
	Timestamp time.Time        `json:"timestamp" yaml:"timestamp"`
	Particle  string           `json:"particle" yaml:"particle"`
	Material  string           `json:"material" yaml:"material"`
	Model     string           `json:"model" yaml:"model"`
	Density   float64          `json:"density" yaml:"density"`
	Grid      string           `json:"grid" yaml:"grid"`
	Points    int              `json:"points" yaml:"points"`
	Summary   analysis.Summary `json:"summary" yaml:"summary"`
}

// Save stores one evaluated curve under a new run ID.
func (s *Store) Save(meta report.Meta, grid stopping.Grid, points []stopping.Point) (string, error) {
	summary, err := analysis.Summarize(points)
	if err != nil {
		return "", err
	}

	ts := s.now()
	runID, runDir, err := s.allocate(fmt.Sprintf("%s_%d", meta.BaseName(), ts.Unix()))
	if err != nil {
		return "", err
	}

	run := RunMetadata{
		ID:        runID,
		Timestamp: ts,
		Particle:  meta.Particle,
		Material:  meta.Material,
		Model:     meta.Model,
		Density:   meta.Density,
		Grid:      grid.String(),
		Points:    len(points),
		Summary:   summary,
	}

	if err := writeRun(runDir, run, points); err != nil {
		os.RemoveAll(runDir)
		return "", err
	}
	return runID, nil
}

func writeRun(runDir string, run RunMetadata, points []stopping.Point) error {
	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(run); err != nil {
		return err
	}
	if err := metaFile.Close(); err != nil {
		return err
	}

	csvFile, err := os.Create(filepath.Join(runDir, pointsFile))
	if err != nil {
		return err
	}
	defer csvFile.Close()

	if err := report.WriteCSV(csvFile, points); err != nil {
		return err
	}
	return csvFile.Close()
}

// allocate creates a fresh run directory, suffixing the ID when two runs
// share a timestamp.
func (s *Store) allocate(base string) (string, string, error) {
	id := base
	for i := 2; ; i++ {
		dir := filepath.Join(s.baseDir, id)
		err := os.Mkdir(dir, 0755)
		if err == nil {
			return id, dir, nil
		}
		if !os.IsExist(err) {
			return "", "", err
		}
		id = fmt.Sprintf("%s_%d", base, i)
	}
}

// List returns stored runs in natural ID order.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return natsort.Compare(runs[i].ID, runs[j].ID)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (s *Store) LoadPoints(runID string) ([]stopping.Point, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, pointsFile))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return report.ReadCSV(f)
}
