package records

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// rawValue accepts either a JSON number or a numeric string. A present but
// non-numeric value leaves Valid false instead of failing the whole decode,
// so the import can reject that one record and keep going.
type rawValue struct {
	Float float64
	Valid bool
}

func (v *rawValue) UnmarshalJSON(data []byte) error {
	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		v.Float, v.Valid = f, true
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			v.Float, v.Valid = f, true
			return nil
		}
	}
	return nil
}

// RawRecord is the JSON shape accepted by the import pipeline. Pointer
// fields distinguish absent from zero.
type RawRecord struct {
	ID     *int64    `json:"id"`
	Name   *string   `json:"name"`
	Value  *rawValue `json:"value"`
	Status *string   `json:"status"`
}

// ImportResult reports one import pass: the accepted records, the counts and
// one error string per rejected record.
type ImportResult struct {
	Records  []Record
	Imported int
	Rejected int
	Errors   []string
}

// ImportRecords validates raw records and converts the valid ones: names are
// uppercased for display, values coerced to float64, a missing status
// defaults to success. Each rejected record contributes one
// "record N: reason" error, N being its index in the input.
func ImportRecords(raws []RawRecord) ImportResult {
	var result ImportResult
	for i, raw := range raws {
		rec, err := convertRecord(raw)
		if err != nil {
			result.Rejected++
			result.Errors = append(result.Errors, fmt.Sprintf("record %d: %s", i, err))
			continue
		}
		result.Records = append(result.Records, rec)
		result.Imported++
	}
	return result
}

func convertRecord(raw RawRecord) (Record, error) {
	switch {
	case raw.ID == nil:
		return Record{}, errors.New("missing required field: id")
	case raw.Name == nil:
		return Record{}, errors.New("missing required field: name")
	case raw.Value == nil:
		return Record{}, errors.New("missing required field: value")
	case !raw.Value.Valid:
		return Record{}, errors.New("value is not numeric")
	}

	status := StatusSuccess
	if raw.Status != nil {
		status = *raw.Status
	}
	if status != StatusSuccess && status != StatusFailure {
		return Record{}, fmt.Errorf("unknown status %q", status)
	}

	return Record{
		ID:     *raw.ID,
		Name:   strings.ToUpper(*raw.Name),
		Value:  raw.Value.Float,
		Status: status,
	}, nil
}
