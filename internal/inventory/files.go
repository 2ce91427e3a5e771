package inventory

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// The selection surface hands the planner two files: a flat CSV with one
// ingredient per row (the planner input) and a categorized JSON snapshot
// (kept so the surface can restore its checkboxes). Both describe the same
// selection; the CSV is authoritative.

const csvHeader = "Ingredient"

// LoadCSV reads the flat inventory file into a Set.
func LoadCSV(path string) (Set, error) {
	f, err := os.Open(path)
	if err != nil {
		return Set{}, fmt.Errorf("failed to open inventory file: %w", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return Set{}, fmt.Errorf("failed to read inventory csv: %w", err)
	}

	var names []string
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		if i == 0 && row[0] == csvHeader {
			continue
		}
		names = append(names, row[0])
	}
	return NewSet(names), nil
}

// SaveCSV writes the flat inventory file, one ingredient per row.
func SaveCSV(path string, set Set) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create inventory directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create inventory file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{csvHeader}); err != nil {
		return err
	}
	for _, name := range set.Names() {
		if err := w.Write([]string{name}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// LoadCategorizedJSON reads the categorized snapshot. Missing file is not an
// error; it returns an empty mapping so the surface starts blank.
func LoadCategorizedJSON(path string) (map[string][]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string][]string{}, nil
		}
		return nil, fmt.Errorf("failed to read categorized inventory: %w", err)
	}

	var categories map[string][]string
	if err := json.Unmarshal(data, &categories); err != nil {
		return nil, fmt.Errorf("failed to unmarshal categorized inventory: %w", err)
	}
	return categories, nil
}

// SaveCategorizedJSON writes the categorized snapshot.
func SaveCategorizedJSON(path string, categories map[string][]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create inventory directory: %w", err)
	}

	data, err := json.MarshalIndent(categories, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal categorized inventory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write categorized inventory: %w", err)
	}
	return nil
}
