package data

import (
	"encoding/json"
	"fmt"
	"os"

	"battery-savings/internal/model"
)

// DayFile is the on-disk shape of a day: rows plus an optional schedule.
type DayFile struct {
	Data      []model.DataRow  `json:"data"`
	Intervals []model.Interval `json:"intervals,omitempty"`
}

func LoadDayJSON(path string) (*DayFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f DayFile
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return &f, nil
}

func WriteDayJSON(path string, f *DayFile) error {
	raw, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0o644)
}
