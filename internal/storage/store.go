package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/gravsim/internal/sim"
)

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
	ID          string             `json:"id"`
	Variant     string             `json:"variant"`
	Timestamp   time.Time          `json:"timestamp"`
	Seed        int64              `json:"seed"`
	Dots        int                `json:"dots"`
	Dt          float64            `json:"dt"`
	Frames      int                `json:"frames"`
	Mode        string             `json:"mode"`
	Force       float64            `json:"gravity_force"`
	SpeedLimit  float64            `json:"speed_limit"`
	Clamp       string             `json:"clamp"`
	MetricNames []string           `json:"metric_names"`
	Metrics     map[string]float64 `json:"metrics"`
}

// Save writes metadata.json and frames.csv for a finished run and returns its ID.
// Metadata is encoded before anything touches disk, and a run that fails part
// way is removed so List never sees a half-written directory.
func (s *Store) Save(meta RunMetadata, result *sim.Result) (runID string, err error) {
	now := time.Now()
	runID = fmt.Sprintf("%s_%d", meta.Variant, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	meta.ID = runID
	meta.Timestamp = now
	meta.Frames = result.Frames
	meta.MetricNames = result.MetricNames
	meta.Metrics = result.Metrics

	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode metadata for %s: %w", runID, err)
	}

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}
	defer func() {
		if err != nil {
			os.RemoveAll(runDir)
			runID = ""
		}
	}()

	if err := os.WriteFile(filepath.Join(runDir, "metadata.json"), append(data, '\n'), 0644); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "frames.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)

	header := append([]string{"time"}, result.MetricNames...)
	if err := w.Write(header); err != nil {
		return "", err
	}

	for i := range result.Times {
		row := []string{strconv.FormatFloat(result.Times[i], 'f', 6, 64)}
		if i < len(result.Series) {
			for _, val := range result.Series[i] {
				row = append(row, strconv.FormatFloat(val, 'f', 6, 64))
			}
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return runID, csvFile.Close()
}

// List returns every stored run, oldest first.
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

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadSeries reads frames.csv back as column names, times and per-frame rows.
func (s *Store) LoadSeries(runID string) ([]string, []float64, [][]float64, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "frames.csv"))
	if err != nil {
		return nil, nil, nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, nil, err
	}
	if len(records) == 0 {
		return []string{}, []float64{}, [][]float64{}, nil
	}

	names := records[0][1:]
	times := make([]float64, 0, len(records)-1)
	rows := make([][]float64, 0, len(records)-1)

	for _, record := range records[1:] {
		if len(record) == 0 {
			continue
		}
		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			continue
		}

		row := make([]float64, 0, len(record)-1)
		for _, field := range record[1:] {
			val, err := strconv.ParseFloat(field, 64)
			if err != nil {
				val = 0
			}
			row = append(row, val)
		}
		times = append(times, t)
		rows = append(rows, row)
	}

	return names, times, rows, nil
}

// Column extracts one named metric from rows returned by LoadSeries.
func Column(names []string, rows [][]float64, name string) ([]float64, error) {
	idx := -1
	for i, n := range names {
		if n == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("unknown metric %q (available: %v)", name, names)
	}

	col := make([]float64, 0, len(rows))
	for _, row := range rows {
		if idx < len(row) {
			col = append(col, row[idx])
		}
	}
	return col, nil
}
