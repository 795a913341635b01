package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/san-kum/chaoslab/internal/dynamo"
)

// ErrInvalidRunID rejects run ids that are not a single directory name.
var ErrInvalidRunID = errors.New("invalid run id")

const (
	metadataFile = "metadata.json"
	seriesFile   = "series.csv"
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

func (s *Store) Dir() string { return s.baseDir }

type RunMetadata struct {
	ID           string             `json:"id"`
	System       string             `json:"system"`
	Timestamp    time.Time          `json:"timestamp"`
	Steps        int                `json:"steps"`
	Dim          int                `json:"dim"`
	Params       dynamo.Params      `json:"params"`
	InitialState []float64          `json:"initial_state"`
	Integrator   string             `json:"integrator,omitempty"`
	Precision    int                `json:"precision"`
	Metrics      map[string]float64 `json:"metrics,omitempty"`
}

// Save writes meta and series into a new run directory and returns the
// completed metadata. ID, Timestamp, Steps and Dim are filled in.
func (s *Store) Save(meta RunMetadata, series dynamo.Series) (*RunMetadata, error) {
	now := s.now()
	meta.Timestamp = now
	meta.Steps = series.Len()
	meta.Dim = series.Dim()
	if meta.Precision <= 0 {
		meta.Precision = DefaultPrecision
	}

	runDir, id, err := s.allocate(meta.System, now)
	if err != nil {
		return nil, err
	}
	meta.ID = id

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return nil, err
	}

	f, err := os.Create(filepath.Join(runDir, seriesFile))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if err := WriteCSV(f, series, meta.Precision); err != nil {
		return nil, fmt.Errorf("write series: %w", err)
	}
	return &meta, f.Close()
}

// allocate creates a fresh run directory named after the system and time.
func (s *Store) allocate(system string, now time.Time) (string, string, error) {
	if err := s.Init(); err != nil {
		return "", "", err
	}
	base := fmt.Sprintf("%s_%s", system, now.Format("20060102T150405.000"))
	for i := 0; i < 1000; i++ {
		id := base
		if i > 0 {
			id = fmt.Sprintf("%s_%d", base, i)
		}
		dir := filepath.Join(s.baseDir, id)
		err := os.Mkdir(dir, 0755)
		if err == nil {
			return dir, id, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return "", "", err
		}
	}
	return "", "", fmt.Errorf("no free run directory for %s", base)
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return err
	}
	return f.Close()
}

// List returns all readable runs, newest first.
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

	sort.SliceStable(runs, func(i, j int) bool {
		if runs[i].Timestamp.Equal(runs[j].Timestamp) {
			return runs[i].ID > runs[j].ID
		}
		return runs[i].Timestamp.After(runs[j].Timestamp)
	})
	return runs, nil
}

// validRunID accepts a single path element naming a run directory.
func validRunID(runID string) bool {
	switch runID {
	case "", ".", "..":
		return false
	}
	return filepath.Base(runID) == runID
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	if !validRunID(runID) {
		return nil, fmt.Errorf("%w %q", ErrInvalidRunID, runID)
	}
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

// Latest returns the newest run, or os.ErrNotExist when there is none.
func (s *Store) Latest() (*RunMetadata, error) {
	runs, err := s.List()
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, fmt.Errorf("no runs in %s: %w", s.baseDir, os.ErrNotExist)
	}
	return &runs[0], nil
}

// SeriesPath is the location of a run's trajectory table.
func (s *Store) SeriesPath(runID string) string {
	return filepath.Join(s.baseDir, runID, seriesFile)
}

func (s *Store) LoadSeries(runID string) (dynamo.Series, error) {
	if _, err := s.Load(runID); err != nil {
		return nil, err
	}
	return ReadFile(s.SeriesPath(runID))
}

// ReadFile loads a trajectory table from disk.
func ReadFile(path string) (dynamo.Series, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadCSV(f)
}

// WriteFile writes a trajectory table, creating parent directories.
func WriteFile(path string, series dynamo.Series, precision int) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := WriteCSV(f, series, precision); err != nil {
		return err
	}
	return f.Close()
}
