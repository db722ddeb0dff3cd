package storage

import (
	"encoding/json"
	"io"
	"os"
)

type ExportData struct {
	Run        RunMetadata  `json:"run"`
	Steps      int          `json:"steps"`
	Taus       []float64    `json:"taus"`
	States     [][4]float64 `json:"states"`
	Velocities [][4]float64 `json:"velocities"`
	Norms      []float64    `json:"norms"`
}

func newExportData(meta RunMetadata, traj *Trajectory) ExportData {
	data := ExportData{
		Run:        meta,
		Steps:      traj.Len(),
		Taus:       traj.Taus,
		States:     make([][4]float64, len(traj.States)),
		Velocities: make([][4]float64, len(traj.Velocities)),
		Norms:      traj.Norms,
	}
	for i, x := range traj.States {
		data.States[i] = x
	}
	for i, u := range traj.Velocities {
		data.Velocities[i] = u
	}
	return data
}

func ExportJSON(path string, meta RunMetadata, traj *Trajectory) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return WriteJSON(file, meta, traj)
}

func WriteJSON(out io.Writer, meta RunMetadata, traj *Trajectory) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(newExportData(meta, traj))
}

func ExportCSV(path string, traj *Trajectory) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return WriteStates(file, traj)
}
