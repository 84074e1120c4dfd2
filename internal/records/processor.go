package records

// Process partitions records by status and returns the counts together with
// the success rate. The input is never mutated. Empty input yields a zero
// Summary, not an error.
func Process(recs []Record) Summary {
	s := Summary{Total: len(recs)}
	for _, r := range recs {
		if r.Status == StatusSuccess {
			s.Succeeded++
		} else {
			s.Failed++
		}
	}
	s.SuccessRate = SuccessRate(recs)
	return s
}

// SuccessRate returns the share of successful records in [0, 1].
// Empty input yields 0 rather than an error.
func SuccessRate(recs []Record) float64 {
	if len(recs) == 0 {
		return 0
	}
	var succeeded int
	for _, r := range recs {
		if r.Status == StatusSuccess {
			succeeded++
		}
	}
	return float64(succeeded) / float64(len(recs))
}

// FilterByThreshold returns the records whose value is at least threshold,
// preserving their relative order.
func FilterByThreshold(recs []Record, threshold float64) []Record {
	var out []Record
	for _, r := range recs {
		if r.Value >= threshold {
			out = append(out, r)
		}
	}
	return out
}

// AverageValue returns the mean value across records, or 0 for empty input.
func AverageValue(recs []Record) float64 {
	if len(recs) == 0 {
		return 0
	}
	var total float64
	for _, r := range recs {
		total += r.Value
	}
	return total / float64(len(recs))
}
