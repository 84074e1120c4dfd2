// Package cli implements the interactive console for AccountKeeper.
//
// The REPL drives the account service and the record-processing toolkit.
// Account commands require a login; record commands operate on an in-memory
// working set that starts out seeded with sample data and can be swapped via
// load/save.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/accountkeeper/internal/accounts"
	"github.com/dmitrijs2005/accountkeeper/internal/records"
	"github.com/dmitrijs2005/accountkeeper/internal/sessions"
)

// AccountService is the account surface the REPL drives. *accounts.Service
// satisfies it; tests substitute a stub.
type AccountService interface {
	Register(ctx context.Context, username, email, password string) (*accounts.Account, error)
	Authenticate(ctx context.Context, username, password string) (*sessions.Session, error)
	FindByUsername(ctx context.Context, username string) (*accounts.Account, error)
	ListActive(ctx context.Context) ([]*accounts.Account, error)
	Deactivate(ctx context.Context, id string) error
	SessionAccount(ctx context.Context, token string) (*accounts.Account, error)
	Logout(ctx context.Context, token string) error
}

// ReportExporter uploads a processing summary to object storage.
type ReportExporter interface {
	Enabled() bool
	Export(ctx context.Context, summary records.Summary) (string, error)
}

type App struct {
	accounts AccountService
	exporter ReportExporter

	reader *bufio.Reader
	out    io.Writer

	token    string
	userName string
	loaded   []records.Record
}

func NewApp(as AccountService, re ReportExporter) *App {
	return &App{
		accounts: as,
		exporter: re,
		reader:   bufio.NewReader(os.Stdin),
		out:      os.Stdout,
		loaded:   sampleRecords(),
	}
}

// sampleRecords seeds the working set so the record commands produce output
// before anything is loaded from disk.
func sampleRecords() []records.Record {
	return []records.Record{
		{ID: 1, Name: "ALICE", Value: 100, Status: records.StatusSuccess},
		{ID: 2, Name: "BOB", Value: 200, Status: records.StatusSuccess},
		{ID: 3, Name: "CHARLIE", Value: 150, Status: records.StatusFailure},
		{ID: 4, Name: "DIANA", Value: 300, Status: records.StatusSuccess},
	}
}

func (a *App) isLoggedIn() bool {
	return a.token != ""
}

func (a *App) getStatus() string {
	if a.userName == "" {
		return ""
	}
	return fmt.Sprintf("(%s) ", a.userName)
}

// Run starts the REPL on the app's reader and blocks until the user exits
// or the input is exhausted.
func (a *App) Run(ctx context.Context) {
	fmt.Fprintln(a.out, "Welcome to AccountKeeper (type 'help' for commands)")
	runREPL(ctx, a, a.getStatus, a.reader)
}
