package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/san-kum/heatsim/internal/config"
	"github.com/san-kum/heatsim/internal/heat"
	"github.com/san-kum/heatsim/internal/sim"
)

const (
	metadataFile = "metadata.json"
	fieldFile    = "field.csv"
)

// ErrRunNotFound is returned when a run directory has no metadata.
var ErrRunNotFound = errors.New("storage: run not found")

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Timestamp time.Time          `json:"timestamp"`
	Config    config.Config      `json:"config"`
	Solver    string             `json:"solver"`
	Nodes     int                `json:"nodes"`
	Rows      int                `json:"rows"`
	Complete  bool               `json:"complete"`
	Fourier   float64            `json:"fourier"`
	Biot      float64            `json:"biot"`
	ElapsedMs float64            `json:"elapsed_ms"`
	Radii     []float64          `json:"radii"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Save writes the run's metadata and temperature field under a new run
// directory and returns its ID.
func (s *Store) Save(cfg *config.Config, result *sim.Result) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", cfg.Shape, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	f := result.Field
	meta := RunMetadata{
		ID:        runID,
		Timestamp: now,
		Config:    *cfg,
		Solver:    result.Solver,
		Nodes:     f.Nodes(),
		Rows:      f.Rows(),
		Complete:  f.Rows() == result.Params.TimeSteps+1,
		Fourier:   result.Params.Fo,
		Biot:      result.Params.Bi,
		ElapsedMs: float64(result.Elapsed.Microseconds()) / 1000,
		Radii:     f.Radii,
		Metrics:   result.Metrics,
	}

	if err := writeMetadata(filepath.Join(runDir, metadataFile), &meta); err != nil {
		return "", err
	}
	if err := writeField(filepath.Join(runDir, fieldFile), f); err != nil {
		return "", err
	}

	log.WithFields(log.Fields{
		"run":  runID,
		"rows": meta.Rows,
		"dir":  runDir,
	}).Info("run saved")
	return runID, nil
}

func writeMetadata(path string, meta *RunMetadata) error {
	metaFile, err := os.Create(path)
	if err != nil {
		return err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func writeField(path string, f *heat.Field) error {
	csvFile, err := os.Create(path)
	if err != nil {
		return err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)

	header := make([]string, 0, f.Nodes()+1)
	header = append(header, "time")
	for j := 0; j < f.Nodes(); j++ {
		header = append(header, fmt.Sprintf("T%d", j))
	}
	if err := w.Write(header); err != nil {
		return err
	}

	record := make([]string, f.Nodes()+1)
	for i := 0; i < f.Rows(); i++ {
		record[0] = strconv.FormatFloat(f.Times[i], 'g', -1, 64)
		for j, v := range f.Row(i) {
			record[j+1] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// List returns every readable run, newest first.
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
			log.WithField("dir", entry.Name()).Debug("skipping unreadable run")
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.After(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return &meta, nil
}

// LoadField reads the stored temperature field of a run.
func (s *Store) LoadField(runID string) (*heat.Field, *RunMetadata, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	shape, err := heat.ParseShape(meta.Config.Shape)
	if err != nil {
		return nil, nil, err
	}

	file, err := os.Open(filepath.Join(s.baseDir, runID, fieldFile))
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = meta.Nodes + 1

	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("run %s: %w", runID, err)
	}
	if len(records) < 2 {
		return nil, nil, fmt.Errorf("run %s: field has no rows", runID)
	}

	times := make([]float64, 0, len(records)-1)
	rows := make([][]float64, 0, len(records)-1)
	for i, record := range records[1:] {
		values := make([]float64, len(record))
		for j, cell := range record {
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, nil, fmt.Errorf("run %s row %d col %d: %w", runID, i, j, err)
			}
			values[j] = v
		}
		times = append(times, values[0])
		rows = append(rows, values[1:])
	}

	return heat.FieldFromRows(shape, times, meta.Radii, rows), meta, nil
}
