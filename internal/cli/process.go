package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/accountkeeper/internal/records"
)

// Process partitions the working set by status and prints the summary.
func (a *App) Process(ctx context.Context) error {
	summary := records.Process(a.loaded)
	fmt.Fprintf(a.out, "Total:        %d\n", summary.Total)
	fmt.Fprintf(a.out, "Succeeded:    %d\n", summary.Succeeded)
	fmt.Fprintf(a.out, "Failed:       %d\n", summary.Failed)
	fmt.Fprintf(a.out, "Success rate: %.1f%%\n", summary.SuccessRate*100)
	return nil
}

// Rate prints the success rate of the working set.
func (a *App) Rate(ctx context.Context) error {
	fmt.Fprintf(a.out, "Success rate: %.1f%%\n", records.SuccessRate(a.loaded)*100)
	return nil
}

// Average prints the mean value of the working set.
func (a *App) Average(ctx context.Context) error {
	fmt.Fprintf(a.out, "Average value: %.2f\n", records.AverageValue(a.loaded))
	return nil
}

// Filter prints the records whose value is at or above the given threshold.
// The threshold argument comes in as raw REPL text and is parsed here so a
// bad number turns into a usage message instead of a handler error.
func (a *App) Filter(ctx context.Context, arg string) error {
	threshold, err := strconv.ParseFloat(arg, 64)
	if err != nil {
		fmt.Fprintf(a.out, "Invalid threshold %q\n", arg)
		return err
	}

	matched := records.FilterByThreshold(a.loaded, threshold)
	fmt.Fprintf(a.out, "%d record(s) with value >= %v\n", len(matched), threshold)
	for _, r := range matched {
		fmt.Fprintf(a.out, "  %4d  %-12s %10.2f  %s\n", r.ID, r.Name, r.Value, r.Status)
	}
	return nil
}
