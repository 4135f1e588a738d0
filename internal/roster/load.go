package roster

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Roster file errors.
var (
	ErrUnsupportedFormat = errors.New("unsupported roster format (use .csv, .yaml or .yml)")
	ErrMissingColumn     = errors.New("roster CSV is missing a required column")
)

// csvColumns is the CSV header order written by WriteCSV.
//
//nolint:gochecknoglobals // Fixed column layout.
var csvColumns = []string{"id", "name", "role", "class", "email"}

// Roster file formats.
const (
	FormatCSV  = "csv"
	FormatYAML = "yaml"
)

// FormatOf returns the roster format implied by path's extension.
func FormatOf(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// Load reads and validates a roster file, choosing the decoder by extension.
func Load(path string) ([]Record, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening roster %s: %w", path, err)
	}
	defer f.Close()

	var records []Record
	if format == FormatCSV {
		records, err = ReadCSV(f)
	} else {
		records, err = ReadYAML(f)
	}
	if err != nil {
		return nil, fmt.Errorf("reading roster %s: %w", path, err)
	}
	return records, nil
}

// ReadCSV decodes records from CSV with a header row. Column order is free and
// header names are case-insensitive; id, name and role are required.
func ReadCSV(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return []Record{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, required := range []string{"id", "name", "role"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, required)
		}
	}

	field := func(row []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	records := []Record{}
	for line := 2; ; line++ {
		row, readErr := cr.Read()
		if errors.Is(readErr, io.EOF) {
			break
		}
		if readErr != nil {
			return nil, fmt.Errorf("line %d: %w", line, readErr)
		}

		rec := Record{
			ID:    field(row, "id"),
			Name:  field(row, "name"),
			Role:  Role(strings.ToLower(field(row, "role"))),
			Class: field(row, "class"),
			Email: field(row, "email"),
		}
		if err = rec.Validate(); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// yamlRoster is the document shape accepted by ReadYAML besides a bare list.
type yamlRoster struct {
	Records []Record `yaml:"records"`
}

// ReadYAML decodes records from either a top-level list or a {records: [...]} document.
func ReadYAML(r io.Reader) ([]Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var records []Record
	if listErr := yaml.Unmarshal(data, &records); listErr != nil {
		var doc yamlRoster
		if docErr := yaml.Unmarshal(data, &doc); docErr != nil {
			return nil, fmt.Errorf("parsing YAML roster: %w", docErr)
		}
		records = doc.Records
	}
	if records == nil {
		records = []Record{}
	}

	for i := range records {
		records[i].Role = Role(strings.ToLower(string(records[i].Role)))
		if err = records[i].Validate(); err != nil {
			return nil, fmt.Errorf("record %d: %w", i+1, err)
		}
	}
	return records, nil
}

// WriteCSV writes records with a header row.
func WriteCSV(w io.Writer, records []Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvColumns); err != nil {
		return err
	}
	for _, r := range records {
		if err := cw.Write([]string{r.ID, r.Name, string(r.Role), r.Class, r.Email}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
