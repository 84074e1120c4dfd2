package records

import (
	"encoding/json"
	"fmt"
	"os"
)

// ReadRecordsFile decodes raw records from a JSON file and runs them through
// ImportRecords, so malformed records are reported per record rather than
// failing the whole file.
func ReadRecordsFile(path string) (ImportResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ImportResult{}, fmt.Errorf("error reading file: %w", err)
	}
	var raws []RawRecord
	if err := json.Unmarshal(data, &raws); err != nil {
		return ImportResult{}, fmt.Errorf("error decoding file: %w", err)
	}
	return ImportRecords(raws), nil
}

// WriteRecordsFile writes records to a JSON file with indentation.
func WriteRecordsFile(path string, recs []Record) error {
	data, err := json.MarshalIndent(recs, "", "  ")
	if err != nil {
		return fmt.Errorf("error encoding records: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("error writing file: %w", err)
	}
	return nil
}
