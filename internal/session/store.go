package session

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Frame is one recorded tick of a session: the committed interaction state
// plus the field summary at that instant.
type Frame struct {
	T         float64
	Mode      int
	Action    string
	HandX     float32
	HandY     float32
	HandZ     float32
	Settle    float64
	Agitation float64
}

type Metadata struct {
	ID        string             `json:"id"`
	Timestamp time.Time          `json:"timestamp"`
	Source    string             `json:"source"`
	Seed      int64              `json:"seed"`
	Particles int                `json:"particles"`
	TickRate  int                `json:"tick_rate"`
	Duration  float64            `json:"duration"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Store keeps one directory per recorded session: metadata.json alongside
// frames.csv.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) Save(meta Metadata, frames []Frame) (string, error) {
	if meta.ID == "" {
		meta.ID = fmt.Sprintf("%s_%d", meta.Source, time.Now().Unix())
	}
	meta.Timestamp = time.Now()

	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "frames.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	header := []string{"time", "mode", "action", "hand_x", "hand_y", "hand_z", "settle", "agitation"}
	if err := w.Write(header); err != nil {
		return "", err
	}

	for _, f := range frames {
		row := []string{
			strconv.FormatFloat(f.T, 'f', 4, 64),
			strconv.Itoa(f.Mode),
			f.Action,
			strconv.FormatFloat(float64(f.HandX), 'f', 3, 32),
			strconv.FormatFloat(float64(f.HandY), 'f', 3, 32),
			strconv.FormatFloat(float64(f.HandZ), 'f', 3, 32),
			strconv.FormatFloat(f.Settle, 'f', 5, 64),
			strconv.FormatFloat(f.Agitation, 'f', 5, 64),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	return meta.ID, nil
}

func (s *Store) List() ([]Metadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []Metadata{}, nil
		}
		return nil, err
	}

	runs := make([]Metadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.baseDir, entry.Name(), "metadata.json"))
		if err != nil {
			continue
		}
		var meta Metadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}
		runs = append(runs, meta)
	}
	return runs, nil
}

func (s *Store) Load(runID string) (*Metadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}
	var meta Metadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (s *Store) LoadFrames(runID string) ([]Frame, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "frames.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []Frame{}, nil
	}

	frames := make([]Frame, 0, len(records)-1)
	for _, rec := range records[1:] {
		if len(rec) < 8 {
			continue
		}
		t, err := strconv.ParseFloat(rec[0], 64)
		if err != nil {
			continue
		}
		mode, _ := strconv.Atoi(rec[1])
		hx, _ := strconv.ParseFloat(rec[3], 32)
		hy, _ := strconv.ParseFloat(rec[4], 32)
		hz, _ := strconv.ParseFloat(rec[5], 32)
		settle, _ := strconv.ParseFloat(rec[6], 64)
		agit, _ := strconv.ParseFloat(rec[7], 64)

		frames = append(frames, Frame{
			T: t, Mode: mode, Action: rec[2],
			HandX: float32(hx), HandY: float32(hy), HandZ: float32(hz),
			Settle: settle, Agitation: agit,
		})
	}
	return frames, nil
}
