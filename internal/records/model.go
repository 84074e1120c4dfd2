// Package records implements processing of operation records: aggregate
// statistics, threshold filtering and JSON import/export.
package records

// Record statuses.
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// Record is one operation record.
type Record struct {
	ID     int64   `json:"id"`
	Name   string  `json:"name"`
	Value  float64 `json:"value"`
	Status string  `json:"status"`
}

// Summary aggregates one processing pass over a record set.
type Summary struct {
	Total       int     `json:"total"`
	Succeeded   int     `json:"succeeded"`
	Failed      int     `json:"failed"`
	SuccessRate float64 `json:"success_rate"`
}
