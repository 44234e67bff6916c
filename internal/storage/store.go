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

	"github.com/san-kum/mcsim/internal/config"
	"github.com/san-kum/mcsim/internal/mcmc"
)

const (
	metadataFile = "metadata.json"
	traceFile    = "trace.csv"
)

var (
	ErrRunNotFound = errors.New("storage: run not found")
	ErrBadTrace    = errors.New("storage: malformed trace")
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

func (s *Store) Dir() string { return s.baseDir }

type RunMetadata struct {
	ID              string             `json:"id"`
	Target          string             `json:"target"`
	Timestamp       time.Time          `json:"timestamp"`
	Seed            int64              `json:"seed"`
	Source          string             `json:"source"`
	Dim             int                `json:"dim"`
	Steps           int                `json:"steps"`
	StepSize        float64            `json:"step_size"`
	Ranges          mcmc.Range         `json:"ranges"`
	BurnIn          int                `json:"burn_in"`
	Thin            int                `json:"thin"`
	Accepts         int                `json:"accepts"`
	AcceptanceRatio float64            `json:"acceptance_ratio"`
	Metrics         map[string]float64 `json:"metrics"`
}

// Save writes the run to <base>/<target>_<unixnano>/ and returns its id.
func (s *Store) Save(cfg *config.Config, result *mcmc.Result) (string, error) {
	now := time.Now()
	runID, runDir, err := s.createRunDir(cfg.Target, now)
	if err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:              runID,
		Target:          cfg.Target,
		Timestamp:       now,
		Seed:            cfg.Seed,
		Source:          cfg.Source,
		Dim:             cfg.Dim,
		Steps:           result.Steps,
		StepSize:        cfg.StepSize,
		Ranges:          cfg.Bounds(),
		BurnIn:          cfg.BurnIn,
		Thin:            cfg.Thin,
		Accepts:         result.Accepts,
		AcceptanceRatio: result.AcceptanceRatio,
		Metrics:         result.Metrics,
	}

	if err := writeMetadata(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeTrace(filepath.Join(runDir, traceFile), result); err != nil {
		return "", err
	}
	return runID, nil
}

// createRunDir claims a fresh directory, adding a suffix if two runs of the
// same target land on the same timestamp.
func (s *Store) createRunDir(target string, now time.Time) (string, string, error) {
	if err := s.Init(); err != nil {
		return "", "", err
	}
	base := fmt.Sprintf("%s_%d", target, now.UnixNano())
	for i := 0; ; i++ {
		runID := base
		if i > 0 {
			runID = fmt.Sprintf("%s_%d", base, i)
		}
		runDir := filepath.Join(s.baseDir, runID)
		err := os.Mkdir(runDir, 0755)
		if err == nil {
			return runID, runDir, nil
		}
		if !os.IsExist(err) {
			return "", "", err
		}
	}
}

func writeMetadata(path string, meta RunMetadata) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func writeTrace(path string, result *mcmc.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)

	if len(result.Trace) > 0 {
		header := []string{"step", "accepted"}
		for i := range result.Trace[0] {
			header = append(header, fmt.Sprintf("x%d", i))
		}
		if err := w.Write(header); err != nil {
			return err
		}
	}

	for i, x := range result.Trace {
		accepted := ""
		if i > 0 && i-1 < len(result.Accepted) {
			accepted = strconv.FormatBool(result.Accepted[i-1])
		}
		row := []string{strconv.Itoa(i), accepted}
		for _, val := range x {
			row = append(row, strconv.FormatFloat(val, 'g', -1, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return file.Close()
}

// List returns all readable runs, oldest first.
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

func (s *Store) runPath(runID, name string) (string, error) {
	if runID == "" || filepath.Base(runID) != runID {
		return "", fmt.Errorf("%w: %q", ErrRunNotFound, runID)
	}
	return filepath.Join(s.baseDir, runID, name), nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	path, err := s.runPath(runID, metadataFile)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// LoadTrace reads the recorded states and per-step acceptance flags of a run.
func (s *Store) LoadTrace(runID string) ([]mcmc.State, []bool, error) {
	path, err := s.runPath(runID, traceFile)
	if err != nil {
		return nil, nil, err
	}
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}

	if len(records) < 2 {
		return []mcmc.State{}, []bool{}, nil
	}

	trace := make([]mcmc.State, 0, len(records)-1)
	accepted := make([]bool, 0, len(records)-2)

	for i := 1; i < len(records); i++ {
		record := records[i]
		if len(record) < 3 {
			return nil, nil, fmt.Errorf("%w: line %d has %d fields", ErrBadTrace, i+1, len(record))
		}

		if i > 1 {
			flag, err := strconv.ParseBool(record[1])
			if err != nil {
				return nil, nil, fmt.Errorf("%w: line %d: %v", ErrBadTrace, i+1, err)
			}
			accepted = append(accepted, flag)
		}

		x := make(mcmc.State, 0, len(record)-2)
		for j := 2; j < len(record); j++ {
			val, err := strconv.ParseFloat(record[j], 64)
			if err != nil {
				return nil, nil, fmt.Errorf("%w: line %d: %v", ErrBadTrace, i+1, err)
			}
			x = append(x, val)
		}
		trace = append(trace, x)
	}

	return trace, accepted, nil
}

// LoadResult rebuilds a result from a stored run.
func (s *Store) LoadResult(runID string) (*RunMetadata, *mcmc.Result, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	trace, accepted, err := s.LoadTrace(runID)
	if err != nil {
		return nil, nil, err
	}

	result := &mcmc.Result{
		Trace:           trace,
		Accepted:        accepted,
		Accepts:         meta.Accepts,
		Steps:           len(accepted),
		AcceptanceRatio: meta.AcceptanceRatio,
		Metrics:         meta.Metrics,
	}
	return meta, result, nil
}

// Latest returns the id of the most recent run.
func (s *Store) Latest() (string, error) {
	runs, err := s.List()
	if err != nil {
		return "", err
	}
	if len(runs) == 0 {
		return "", fmt.Errorf("%w: no runs in %s", ErrRunNotFound, s.baseDir)
	}
	return runs[len(runs)-1].ID, nil
}
