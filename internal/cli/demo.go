package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/accountkeeper/internal/records"
)

// demoAttempts is how many wrong passwords the demo tries before showing
// that the correct one no longer works. It matches the default lockout
// policy.
const demoAttempts = 5

// demoRawRecords is a small import batch with one broken record, so the demo
// shows both a rejection and the summary over the survivors.
const demoRawRecords = `[
  {"id": 1, "name": "Alice", "value": 100},
  {"id": 2, "name": "Bob", "value": 200},
  {"id": 3, "name": "Charlie", "value": 150},
  {"id": 4, "name": "Invalid"},
  {"id": 5, "name": "Diana", "value": 300}
]`

// Demo walks through the two halves of the system without any prompting:
// registering an account and locking it out with repeated bad passwords,
// then importing and summarizing a batch of records. It is safe to run
// repeatedly; on later runs the registration reports a duplicate and the
// account is already locked.
func (a *App) Demo(ctx context.Context) error {
	const (
		demoUser     = "alice_99"
		demoEmail    = "alice_99@example.com"
		demoPassword = "Secur3Pass!"
	)

	fmt.Fprintln(a.out, "=== Creating account ===")
	acc, err := a.accounts.Register(ctx, demoUser, demoEmail, demoPassword)
	if err != nil {
		fmt.Fprintf(a.out, "register %s: %s\n", demoUser, err.Error())
	} else {
		fmt.Fprintf(a.out, "created %s (id %s)\n", acc.Username, acc.ID)
	}

	fmt.Fprintln(a.out, "\n=== Failed logins lock the account ===")
	for i := 1; i <= demoAttempts; i++ {
		_, err := a.accounts.Authenticate(ctx, demoUser, "WrongPass1")
		fmt.Fprintf(a.out, "attempt %d with a wrong password: %s\n", i, outcome(err))
	}

	_, err = a.accounts.Authenticate(ctx, demoUser, demoPassword)
	fmt.Fprintf(a.out, "attempt with the correct password: %s\n", outcome(err))

	if acc, err := a.accounts.FindByUsername(ctx, demoUser); err == nil {
		fmt.Fprintf(a.out, "account state: locked=%v failed_attempts=%d\n", acc.Locked, acc.FailedAttempts)
	}

	fmt.Fprintln(a.out, "\n=== Record processing ===")
	var raws []records.RawRecord
	if err := json.Unmarshal([]byte(demoRawRecords), &raws); err != nil {
		return err
	}

	result := records.ImportRecords(raws)
	fmt.Fprintf(a.out, "imported %d record(s), rejected %d\n", result.Imported, result.Rejected)
	for _, e := range result.Errors {
		fmt.Fprintf(a.out, "  ! %s\n", e)
	}

	summary := records.Process(result.Records)
	fmt.Fprintf(a.out, "summary: total=%d succeeded=%d failed=%d rate=%.1f%%\n",
		summary.Total, summary.Succeeded, summary.Failed, summary.SuccessRate*100)

	matched := records.FilterByThreshold(result.Records, 150)
	fmt.Fprintf(a.out, "records with value >= 150: %d\n", len(matched))
	fmt.Fprintf(a.out, "average value: %.2f\n", records.AverageValue(result.Records))
	return nil
}

func outcome(err error) string {
	if err == nil {
		return "ok"
	}
	return err.Error()
}
