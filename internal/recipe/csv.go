package recipe

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// The corpus lives in a flat CSV with the columns below. The meat/fish flag
// is stored as "Oui"/"Non" (the corpus predates translation); "Oui" or "Yes"
// maps to true, anything else to false.
var csvColumns = []string{
	"Title",
	"Key Ingredients",
	"Prep Time (min)",
	"Cook Time (min)",
	"Contains meat/fish?",
	"URL",
}

// ParseMeatFlag maps the corpus Yes/No column to a boolean.
func ParseMeatFlag(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "oui", "yes":
		return true
	default:
		return false
	}
}

// FormatMeatFlag is the inverse mapping used when appending rows.
func FormatMeatFlag(b bool) string {
	if b {
		return "Oui"
	}
	return "Non"
}

// SplitIngredients turns the delimited "Key Ingredients" column into a clean
// list: split on commas, trim, collapse internal whitespace, drop empties.
func SplitIngredients(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if cleaned := strings.Join(strings.Fields(part), " "); cleaned != "" {
			out = append(out, cleaned)
		}
	}
	return out
}

// CSVStore reads and appends corpus rows in the tabular recipe file.
type CSVStore struct {
	path string
}

// NewCSVStore creates a store for the given corpus file. The file does not
// need to exist yet; Append creates it with a header.
func NewCSVStore(path string) *CSVStore {
	return &CSVStore{path: path}
}

// Path returns the underlying file path.
func (s *CSVStore) Path() string {
	return s.path
}

// Load reads and validates every corpus row. A structurally invalid row
// fails the whole load with a MalformedError rather than being skipped, so
// a broken corpus never silently degrades plan quality.
func (s *CSVStore) Load() ([]Record, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open corpus file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = len(csvColumns)
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read corpus csv: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("corpus file %s is empty", s.path)
	}

	records := make([]Record, 0, len(rows)-1)
	for i, row := range rows {
		if i == 0 && strings.EqualFold(row[0], csvColumns[0]) {
			continue
		}

		prep, err := parseMinutes(row[2])
		if err != nil {
			return nil, &MalformedError{Title: row[0], Reason: fmt.Sprintf("bad prep time %q", row[2])}
		}
		cook, err := parseMinutes(row[3])
		if err != nil {
			return nil, &MalformedError{Title: row[0], Reason: fmt.Sprintf("bad cook time %q", row[3])}
		}

		rec := Record{
			Title:              strings.TrimSpace(row[0]),
			Ingredients:        SplitIngredients(row[1]),
			PrepMinutes:        prep,
			CookMinutes:        cook,
			ContainsMeatOrFish: ParseMeatFlag(row[4]),
			SourceURL:          strings.TrimSpace(row[5]),
		}
		if err := rec.Validate(); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// Append adds a record to the corpus file, creating it (with header) on
// first use. The record is validated before anything is written.
func (s *CSVStore) Append(rec Record) error {
	if err := rec.Validate(); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create corpus directory: %w", err)
	}

	_, statErr := os.Stat(s.path)
	writeHeader := os.IsNotExist(statErr)

	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open corpus file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if writeHeader {
		if err := w.Write(csvColumns); err != nil {
			return err
		}
	}
	row := []string{
		rec.Title,
		strings.Join(rec.Ingredients, ", "),
		strconv.Itoa(rec.PrepMinutes),
		strconv.Itoa(rec.CookMinutes),
		FormatMeatFlag(rec.ContainsMeatOrFish),
		rec.SourceURL,
	}
	if err := w.Write(row); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

// UniqueIngredients collects the distinct cleaned ingredient names across a
// set of records, sorted, for the selection surface to offer as choices.
func UniqueIngredients(records []Record) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, rec := range records {
		for _, ing := range rec.Ingredients {
			if _, ok := seen[ing]; !ok {
				seen[ing] = struct{}{}
				out = append(out, ing)
			}
		}
	}
	sort.Strings(out)
	return out
}

func parseMinutes(s string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(s))
}
