package accounts

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/accountkeeper/internal/common"
	"github.com/jackc/pgx/v5/pgconn"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

const accountCols = `id, username, email, salt, password_hash, active, locked, failed_attempts, created_at, last_login`

func accountRow(id, username string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "username", "email", "salt", "password_hash", "active", "locked", "failed_attempts", "created_at", "last_login"}).
		AddRow(id, username, username+"@example.com", []byte("salt"), []byte("hash"), true, false, 0, time.Now(), nil)
}

func TestPostgresCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^\s*INSERT\s+INTO\s+accounts\s*\(username,\s*email,\s*salt,\s*password_hash,\s*active\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4,\s*\$5\)\s*RETURNING\s+id,\s*created_at\s*$`

	rows := sqlmock.NewRows([]string{"id", "created_at"}).AddRow("42", time.Now())
	mock.ExpectQuery(q).
		WithArgs("alice", "alice@example.com", []byte("salt"), []byte("hash"), true).
		WillReturnRows(rows)

	a := &Account{Username: "alice", Email: "alice@example.com", Salt: []byte("salt"), PasswordHash: []byte("hash"), Active: true}
	got, err := repo.Create(context.Background(), a)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.ID != "42" || got.Username != "alice" || got.CreatedAt.IsZero() {
		t.Fatalf("unexpected account: %+v", got)
	}
}

func TestPostgresCreate_Duplicate(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^\s*INSERT\s+INTO\s+accounts`).
		WithArgs("alice", "alice@example.com", []byte("salt"), []byte("hash"), true).
		WillReturnError(&pgconn.PgError{Code: pgUniqueViolation})

	a := &Account{Username: "alice", Email: "alice@example.com", Salt: []byte("salt"), PasswordHash: []byte("hash"), Active: true}
	_, err := repo.Create(context.Background(), a)
	if !errors.Is(err, common.ErrDuplicate) {
		t.Fatalf("want common.ErrDuplicate, got %v", err)
	}
}

func TestPostgresCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^\s*INSERT\s+INTO\s+accounts`).
		WillReturnError(errors.New("db down"))

	_, err := repo.Create(context.Background(), &Account{Username: "alice"})
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestPostgresGetByUsername_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^\s*SELECT\s+` + accountCols + `\s+FROM\s+accounts\s+WHERE\s+username\s*=\s*\$1\s*$`

	mock.ExpectQuery(q).
		WithArgs("alice").
		WillReturnRows(accountRow("a-1", "alice"))

	got, err := repo.GetByUsername(context.Background(), "alice")
	if err != nil {
		t.Fatalf("GetByUsername error: %v", err)
	}
	if got.ID != "a-1" || got.Username != "alice" || !got.LastLogin.IsZero() {
		t.Fatalf("unexpected account: %+v", got)
	}
}

func TestPostgresGetByUsername_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^\s*SELECT\s+` + accountCols + `\s+FROM\s+accounts\s+WHERE\s+username`).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByUsername(context.Background(), "ghost")
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("want common.ErrNotFound, got %v", err)
	}
}

func TestPostgresGetByID_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^\s*SELECT\s+` + accountCols + `\s+FROM\s+accounts\s+WHERE\s+id\s*=\s*\$1\s*$`

	mock.ExpectQuery(q).
		WithArgs("a-1").
		WillReturnRows(accountRow("a-1", "alice"))

	got, err := repo.GetByID(context.Background(), "a-1")
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	if got.Username != "alice" {
		t.Fatalf("unexpected account: %+v", got)
	}
}

func TestPostgresListActive(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^\s*SELECT\s+` + accountCols + `\s+FROM\s+accounts\s+WHERE\s+active\s+ORDER\s+BY\s+username\s*$`

	rows := sqlmock.NewRows([]string{"id", "username", "email", "salt", "password_hash", "active", "locked", "failed_attempts", "created_at", "last_login"}).
		AddRow("a-1", "alice", "alice@example.com", []byte("s"), []byte("h"), true, false, 0, time.Now(), nil).
		AddRow("a-2", "bob", "bob@example.com", []byte("s"), []byte("h"), true, false, 2, time.Now(), time.Now())
	mock.ExpectQuery(q).WillReturnRows(rows)

	got, err := repo.ListActive(context.Background())
	if err != nil {
		t.Fatalf("ListActive error: %v", err)
	}
	if len(got) != 2 || got[0].Username != "alice" || got[1].Username != "bob" {
		t.Fatalf("unexpected accounts: %+v", got)
	}
	if got[1].FailedAttempts != 2 || got[1].LastLogin.IsZero() {
		t.Fatalf("unexpected second account: %+v", got[1])
	}
}

func TestPostgresRecordLoginFailure_LocksAtMax(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^\s*UPDATE\s+accounts\s+SET\s+failed_attempts\s*=\s*failed_attempts\s*\+\s*1,\s*locked\s*=\s*locked\s+OR\s+\(failed_attempts\s*\+\s*1\s*>=\s*\$2\)\s+WHERE\s+id\s*=\s*\$1\s+RETURNING\s+` + accountCols + `\s*$`

	rows := sqlmock.NewRows([]string{"id", "username", "email", "salt", "password_hash", "active", "locked", "failed_attempts", "created_at", "last_login"}).
		AddRow("a-1", "alice", "alice@example.com", []byte("s"), []byte("h"), true, true, 5, time.Now(), nil)
	mock.ExpectQuery(q).
		WithArgs("a-1", 5).
		WillReturnRows(rows)

	got, err := repo.RecordLoginFailure(context.Background(), "a-1", 5)
	if err != nil {
		t.Fatalf("RecordLoginFailure error: %v", err)
	}
	if got.FailedAttempts != 5 || !got.Locked {
		t.Fatalf("unexpected account: %+v", got)
	}
}

func TestPostgresRecordLoginFailure_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^\s*UPDATE\s+accounts\s+SET\s+failed_attempts`).
		WithArgs("ghost", 5).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.RecordLoginFailure(context.Background(), "ghost", 5)
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("want common.ErrNotFound, got %v", err)
	}
}

func TestPostgresRecordLoginSuccess(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^\s*UPDATE\s+accounts\s+SET\s+failed_attempts\s*=\s*0,\s*last_login\s*=\s*\$2\s+WHERE\s+id\s*=\s*\$1\s*$`

	mock.ExpectExec(q).
		WithArgs("a-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.RecordLoginSuccess(context.Background(), "a-1", time.Now()); err != nil {
		t.Fatalf("RecordLoginSuccess error: %v", err)
	}

	mock.ExpectExec(q).
		WithArgs("ghost", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.RecordLoginSuccess(context.Background(), "ghost", time.Now())
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("want common.ErrNotFound, got %v", err)
	}
}

func TestPostgresSetActive(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^\s*UPDATE\s+accounts\s+SET\s+active\s*=\s*\$2\s+WHERE\s+id\s*=\s*\$1\s*$`

	mock.ExpectExec(q).
		WithArgs("a-1", false).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.SetActive(context.Background(), "a-1", false); err != nil {
		t.Fatalf("SetActive error: %v", err)
	}

	mock.ExpectExec(q).
		WithArgs("ghost", true).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.SetActive(context.Background(), "ghost", true)
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("want common.ErrNotFound, got %v", err)
	}
}
