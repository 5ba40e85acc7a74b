// Package dataset persists mined code samples as a JSON array and loads
// them back indexed by sample ID.
package dataset

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// Sample is one mined source file.
type Sample struct {
	ID        string `json:"id"`
	Repo      string `json:"repo"`
	URL       string `json:"url"`
	Code      string `json:"code"`
	LineCount int    `json:"line_count"`
}

// Dataset is an id-indexed collection of samples.
type Dataset struct {
	samples map[string]Sample
}

// NotFoundError reports a sample ID missing from the dataset.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("dataset: sample %q not found", e.ID)
}

// Load reads a dataset JSON file (an array of samples).
func Load(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("dataset read: %w", err)
	}
	var samples []Sample
	if err := json.Unmarshal(data, &samples); err != nil {
		return nil, fmt.Errorf("dataset parse: %w", err)
	}
	d := &Dataset{samples: make(map[string]Sample, len(samples))}
	for _, s := range samples {
		d.samples[s.ID] = s
	}
	return d, nil
}

// Save writes samples to path as an indented JSON array.
func Save(path string, samples []Sample) error {
	data, err := json.MarshalIndent(samples, "", "  ")
	if err != nil {
		return fmt.Errorf("dataset marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("dataset write: %w", err)
	}
	return nil
}

// Get returns the sample with the given ID.
func (d *Dataset) Get(id string) (Sample, error) {
	s, ok := d.samples[id]
	if !ok {
		return Sample{}, &NotFoundError{ID: id}
	}
	return s, nil
}

// Len returns the number of samples.
func (d *Dataset) Len() int {
	return len(d.samples)
}

// IDs returns all sample IDs in sorted order.
func (d *Dataset) IDs() []string {
	ids := make([]string, 0, len(d.samples))
	for id := range d.samples {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
