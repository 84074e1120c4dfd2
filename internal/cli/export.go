package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/accountkeeper/internal/records"
)

// Export uploads a processing summary of the working set to object storage
// and prints the storage key it was stored under.
func (a *App) Export(ctx context.Context) error {
	if !a.exporter.Enabled() {
		fmt.Fprintln(a.out, "Export is not configured (set s3_base_endpoint and s3_bucket)")
		return nil
	}

	key, err := a.exporter.Export(ctx, records.Process(a.loaded))
	if err != nil {
		fmt.Fprintf(a.out, "Export failed: %s\n", err.Error())
		return err
	}

	fmt.Fprintf(a.out, "Report uploaded as %s\n", key)
	return nil
}
