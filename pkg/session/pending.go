package session

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// PendingSchedule is the payload parked while the user completes the OAuth
// flow in a browser: the confirmed itinerary and the chosen start date.
type PendingSchedule struct {
	Itinerary string `yaml:"itinerary"`
	StartDate string `yaml:"start_date"`
}

// PendingStore persists at most one PendingSchedule on disk so it survives
// leaving and relaunching the client around the OAuth hand-off.
type PendingStore struct {
	path string
}

// NewPendingStore keeps the payload under dir. The directory is created on
// first save.
func NewPendingStore(dir string) *PendingStore {
	return &PendingStore{path: filepath.Join(dir, "pending_schedule.yml")}
}

// Save writes the payload, replacing any previous one.
func (p *PendingStore) Save(ps PendingSchedule) error {
	if err := os.MkdirAll(filepath.Dir(p.path), 0755); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}
	data, err := yaml.Marshal(ps)
	if err != nil {
		return fmt.Errorf("marshal pending schedule: %w", err)
	}
	if err := os.WriteFile(p.path, data, 0600); err != nil {
		return fmt.Errorf("write pending schedule: %w", err)
	}
	return nil
}

// Take returns the stored payload and deletes it before the caller acts on
// it, so a stored payload is consumed by exactly one attempt regardless of
// how that attempt ends. ok is false when nothing was stored.
func (p *PendingStore) Take() (PendingSchedule, bool, error) {
	data, err := os.ReadFile(p.path)
	if err != nil {
		if os.IsNotExist(err) {
			return PendingSchedule{}, false, nil
		}
		return PendingSchedule{}, false, fmt.Errorf("read pending schedule: %w", err)
	}

	if err := os.Remove(p.path); err != nil && !os.IsNotExist(err) {
		return PendingSchedule{}, false, fmt.Errorf("clear pending schedule: %w", err)
	}

	var ps PendingSchedule
	if err := yaml.Unmarshal(data, &ps); err != nil {
		// Corrupt payload: already removed, report and move on.
		return PendingSchedule{}, false, fmt.Errorf("parse pending schedule: %w", err)
	}
	if ps.Itinerary == "" {
		return PendingSchedule{}, false, nil
	}
	return ps, true, nil
}
