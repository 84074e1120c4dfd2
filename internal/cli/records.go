package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/accountkeeper/internal/records"
)

// Load replaces the working set with records imported from a JSON file.
// Rejected records are reported line by line; the working set keeps only the
// ones that imported cleanly.
func (a *App) Load(ctx context.Context, path string) error {
	result, err := records.ReadRecordsFile(path)
	if err != nil {
		fmt.Fprintf(a.out, "Error: %s\n", err.Error())
		return err
	}

	a.loaded = result.Records
	fmt.Fprintf(a.out, "Imported %d record(s), rejected %d\n", result.Imported, result.Rejected)
	for _, e := range result.Errors {
		fmt.Fprintf(a.out, "  ! %s\n", e)
	}
	return nil
}

// Save writes the working set to a JSON file.
func (a *App) Save(ctx context.Context, path string) error {
	if err := records.WriteRecordsFile(path, a.loaded); err != nil {
		fmt.Fprintf(a.out, "Error: %s\n", err.Error())
		return err
	}
	fmt.Fprintf(a.out, "Saved %d record(s) to %s\n", len(a.loaded), path)
	return nil
}

// Records prints the working set.
func (a *App) Records(ctx context.Context) error {
	fmt.Fprintf(a.out, "%d record(s) loaded\n", len(a.loaded))
	for _, r := range a.loaded {
		fmt.Fprintf(a.out, "  %4d  %-12s %10.2f  %s\n", r.ID, r.Name, r.Value, r.Status)
	}
	return nil
}
