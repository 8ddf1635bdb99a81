package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/advsim/internal/grid"
	"github.com/san-kum/advsim/internal/sim"
)

const (
	metadataFile  = "metadata.json"
	historyFile   = "history.csv"
	residualsFile = "residuals.csv"
	domainFile    = "domain.csv"
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

// RunMetadata describes a stored run. Metrics that were NaN or Inf are
// listed by name in NonFinite, since JSON cannot hold them.
type RunMetadata struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Timestamp time.Time          `json:"timestamp"`
	Config    sim.Config         `json:"config"`
	Steps     int                `json:"steps"`
	Dt        float64            `json:"dt"`
	Metrics   map[string]float64 `json:"metrics"`
	NonFinite []string           `json:"non_finite,omitempty"`
}

func newRunID(name string, now time.Time) string {
	return fmt.Sprintf("%s_%d_%s", name, now.Unix(), uuid.NewString()[:8])
}

func (s *Store) Save(name string, cfg sim.Config, result *sim.Result) (string, error) {
	now := time.Now()
	runID := newRunID(name, now)
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Name:      name,
		Timestamp: now,
		Config:    cfg,
		Steps:     result.Steps,
		Dt:        result.Dt,
		Metrics:   make(map[string]float64, len(result.Metrics)),
	}
	for k, v := range result.Metrics {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			meta.NonFinite = append(meta.NonFinite, k)
			continue
		}
		meta.Metrics[k] = v
	}
	sort.Strings(meta.NonFinite)

	if err := writeRun(runDir, meta, result); err != nil {
		os.RemoveAll(runDir)
		return "", err
	}
	return runID, nil
}

func writeRun(runDir string, meta RunMetadata, result *sim.Result) error {
	if err := writeFile(filepath.Join(runDir, metadataFile), func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(meta)
	}); err != nil {
		return err
	}

	if err := writeFile(filepath.Join(runDir, historyFile), func(w io.Writer) error {
		return WriteHistoryCSV(w, result)
	}); err != nil {
		return err
	}

	if err := writeFile(filepath.Join(runDir, residualsFile), func(w io.Writer) error {
		return writeResiduals(w, result.Residuals)
	}); err != nil {
		return err
	}

	if err := writeFile(filepath.Join(runDir, domainFile), func(w io.Writer) error {
		return writeDomain(w, result.Domain)
	}); err != nil {
		return err
	}
	return nil
}

func writeFile(path string, fill func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fill(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// WriteHistoryCSV writes one row per snapshot: step, time, x0..x{n-1}.
func WriteHistoryCSV(w io.Writer, result *sim.Result) error {
	cw := csv.NewWriter(w)

	if len(result.History) > 0 {
		header := []string{"step", "time"}
		for i := range result.History[0] {
			header = append(header, fmt.Sprintf("x%d", i))
		}
		if err := cw.Write(header); err != nil {
			return err
		}
	}

	for i, u := range result.History {
		row := make([]string, 0, len(u)+2)
		row = append(row, strconv.Itoa(i))
		if i < len(result.Times) {
			row = append(row, formatFloat(result.Times[i]))
		} else {
			row = append(row, formatFloat(float64(i)*result.Dt))
		}
		for _, val := range u {
			row = append(row, formatFloat(val))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// Residual i is logged as step i+1, the snapshot it produced.
func writeResiduals(w io.Writer, residuals []float64) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"step", "residual"}); err != nil {
		return err
	}
	for i, r := range residuals {
		if err := cw.Write([]string{strconv.Itoa(i + 1), formatFloat(r)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeDomain(w io.Writer, domain grid.Field) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"j", "x"}); err != nil {
		return err
	}
	for j, x := range domain {
		if err := cw.Write([]string{strconv.Itoa(j), formatFloat(x)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// List returns every readable run, oldest first.
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
		return runs[i].Timestamp.Before(runs[j].Timestamp)
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
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return &meta, nil
}

func (s *Store) readCSV(runID, name string) ([][]string, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, name))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("run %s: %s: %w", runID, name, err)
	}
	if len(records) > 0 {
		records = records[1:]
	}
	return records, nil
}

func parseColumn(runID, name string, line int, field string) (float64, error) {
	v, err := strconv.ParseFloat(field, 64)
	if err != nil {
		return 0, fmt.Errorf("run %s: %s line %d: %w", runID, name, line+2, err)
	}
	return v, nil
}

// LoadHistory returns the stored snapshots and their times.
func (s *Store) LoadHistory(runID string) ([]grid.Field, []float64, error) {
	records, err := s.readCSV(runID, historyFile)
	if err != nil {
		return nil, nil, err
	}

	history := make([]grid.Field, 0, len(records))
	times := make([]float64, 0, len(records))
	for i, record := range records {
		if len(record) < 2 {
			return nil, nil, fmt.Errorf("run %s: %s line %d: short record", runID, historyFile, i+2)
		}
		t, err := parseColumn(runID, historyFile, i, record[1])
		if err != nil {
			return nil, nil, err
		}
		u := make(grid.Field, len(record)-2)
		for j, field := range record[2:] {
			if u[j], err = parseColumn(runID, historyFile, i, field); err != nil {
				return nil, nil, err
			}
		}
		history = append(history, u)
		times = append(times, t)
	}
	return history, times, nil
}

func (s *Store) LoadResiduals(runID string) ([]float64, error) {
	return s.loadSecondColumn(runID, residualsFile)
}

func (s *Store) LoadDomain(runID string) (grid.Field, error) {
	return s.loadSecondColumn(runID, domainFile)
}

func (s *Store) loadSecondColumn(runID, name string) ([]float64, error) {
	records, err := s.readCSV(runID, name)
	if err != nil {
		return nil, err
	}
	values := make([]float64, 0, len(records))
	for i, record := range records {
		if len(record) < 2 {
			return nil, fmt.Errorf("run %s: %s line %d: short record", runID, name, i+2)
		}
		v, err := parseColumn(runID, name, i, record[1])
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, nil
}

// LoadRun rebuilds the result of a stored run.
func (s *Store) LoadRun(runID string) (*RunMetadata, *sim.Result, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	history, times, err := s.LoadHistory(runID)
	if err != nil {
		return nil, nil, err
	}
	residuals, err := s.LoadResiduals(runID)
	if err != nil {
		return nil, nil, err
	}
	domain, err := s.LoadDomain(runID)
	if err != nil {
		return nil, nil, err
	}

	result := &sim.Result{
		Domain:    domain,
		History:   history,
		Residuals: residuals,
		Times:     times,
		Dt:        meta.Dt,
		Steps:     meta.Steps,
		Metrics:   meta.Metrics,
	}
	return meta, result, nil
}
