package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/geodesim/internal/sim"
	"github.com/san-kum/geodesim/internal/spacetime"
)

const (
	metadataFile = "metadata.json"
	statesFile   = "states.csv"
)

// StateColumns is the header of states.csv.
var StateColumns = []string{"tau", "t", "r", "theta", "phi", "ut", "ur", "utheta", "uphi", "norm2"}

type Store struct {
	baseDir string
	now     func() time.Time
	newID   func() string
}

func New(baseDir string) *Store {
	return &Store{
		baseDir: baseDir,
		now:     time.Now,
		newID: func() string {
			id := uuid.Must(uuid.NewV7()).String()
			return id[len(id)-8:]
		},
	}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// RunMetadata describes a saved run. All physical quantities are in natural
// units; Units records how the run was configured.
type RunMetadata struct {
	ID         string             `json:"id"`
	Preset     string             `json:"preset"`
	Timestamp  time.Time          `json:"timestamp"`
	Metric     string             `json:"metric"`
	Units      string             `json:"units"`
	Rs         float64            `json:"rs"`
	Spin       float64            `json:"spin"`
	StepSize   float64            `json:"step_size"`
	SubSteps   int                `json:"sub_steps"`
	Ticks      int                `json:"ticks"`
	Policy     string             `json:"policy"`
	StepsTaken int                `json:"steps_taken"`
	Halted     bool               `json:"halted"`
	HaltReason string             `json:"halt_reason,omitempty"`
	Metrics    map[string]float64 `json:"metrics"`
}

// Trajectory is the per-tick record of a run.
type Trajectory struct {
	Taus       []float64
	States     []spacetime.Coordinate
	Velocities []spacetime.FourVelocity
	Norms      []float64
}

func FromResult(result *sim.Result) *Trajectory {
	return &Trajectory{
		Taus:       result.Taus,
		States:     result.States,
		Velocities: result.Velocities,
		Norms:      result.Norms,
	}
}

func (t *Trajectory) Len() int { return len(t.Taus) }

// Column returns one coordinate (0-3) or four-velocity (4-7) series.
func (t *Trajectory) Column(i int) []float64 {
	out := make([]float64, len(t.States))
	for k := range t.States {
		if i < 4 {
			out[k] = t.States[k][i]
		} else {
			out[k] = t.Velocities[k][i-4]
		}
	}
	return out
}

// Save writes a new run directory. ID, Timestamp and the result summary
// fields of meta are filled in here.
func (s *Store) Save(meta RunMetadata, result *sim.Result) (string, error) {
	prefix := meta.Preset
	if prefix == "" {
		prefix = "custom"
	}
	meta.ID = fmt.Sprintf("%s_%s", prefix, s.newID())
	meta.Timestamp = s.now()
	meta.StepsTaken = result.StepsTaken
	meta.Halted = result.Halted
	meta.Metrics = result.Metrics
	if len(result.Errors) > 0 {
		meta.HaltReason = result.Errors[0].Error()
	}

	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, statesFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := WriteStates(csvFile, FromResult(result)); err != nil {
		return "", err
	}
	return meta.ID, nil
}

// WriteStates writes the trajectory as CSV with StateColumns as header.
func WriteStates(out io.Writer, traj *Trajectory) error {
	w := csv.NewWriter(out)
	if err := w.Write(StateColumns); err != nil {
		return err
	}

	row := make([]string, len(StateColumns))
	for i := range traj.Taus {
		row[0] = formatFloat(traj.Taus[i])
		for k := 0; k < 4; k++ {
			row[1+k] = formatFloat(traj.States[i][k])
			row[5+k] = formatFloat(traj.Velocities[i][k])
		}
		row[9] = formatFloat(traj.Norms[i])
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

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

func (s *Store) LoadStates(runID string) (*Trajectory, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, statesFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return ReadStates(file)
}

// ReadStates parses CSV written by WriteStates.
func ReadStates(in io.Reader) (*Trajectory, error) {
	r := csv.NewReader(in)
	r.FieldsPerRecord = len(StateColumns)

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	traj := &Trajectory{}
	if len(records) < 2 {
		return traj, nil
	}

	for i, record := range records[1:] {
		var vals [10]float64
		for j, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("row %d column %s: %w", i+1, StateColumns[j], err)
			}
			vals[j] = v
		}
		traj.Taus = append(traj.Taus, vals[0])
		traj.States = append(traj.States, spacetime.Coordinate{vals[1], vals[2], vals[3], vals[4]})
		traj.Velocities = append(traj.Velocities, spacetime.FourVelocity{vals[5], vals[6], vals[7], vals[8]})
		traj.Norms = append(traj.Norms, vals[9])
	}
	return traj, nil
}
