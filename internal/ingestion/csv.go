package ingestion

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// ReadCSV parses a CSV stream into raw field mappings keyed by the
// canonical column names. The header row is matched case-insensitively
// after trimming; extra columns are ignored. Missing required columns
// abort the load before any row is produced.
func ReadCSV(r io.Reader) ([]map[string]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // ragged rows surface as validation errors downstream

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty CSV: no header row")
	}
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}

	// Map column index -> canonical field name.
	colToField := make(map[int]string, len(header))
	seen := make(map[string]bool, len(RequiredFields))
	for i, col := range header {
		name := strings.ToLower(strings.TrimSpace(col))
		for _, field := range RequiredFields {
			if name == field {
				colToField[i] = field
				seen[field] = true
				break
			}
		}
	}

	var missing []string
	for _, field := range RequiredFields {
		if !seen[field] {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}

	var records []map[string]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading CSV row %d: %w", len(records)+2, err)
		}
		record := make(map[string]string, len(RequiredFields))
		for i, val := range row {
			if field, ok := colToField[i]; ok {
				record[field] = val
			}
		}
		records = append(records, record)
	}
	return records, nil
}
