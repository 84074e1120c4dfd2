package accounts

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/dmitrijs2005/accountkeeper/internal/auth"
	"github.com/dmitrijs2005/accountkeeper/internal/common"
	"github.com/dmitrijs2005/accountkeeper/internal/config"
	"github.com/dmitrijs2005/accountkeeper/internal/cryptox"
	"github.com/dmitrijs2005/accountkeeper/internal/sessions"
)

// --- helpers ---

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

type fakeAccountsRepo struct {
	createOut  *Account
	createErr  error
	lastCreate *Account

	getOut *Account
	getErr error

	byIDOut *Account
	byIDErr error

	listOut []*Account
	listErr error

	failureOut   *Account
	failureErr   error
	failureCalls int
	failureMax   int

	successErr   error
	successCalls int

	setActiveErr error
}

func (f *fakeAccountsRepo) Create(ctx context.Context, a *Account) (*Account, error) {
	f.lastCreate = a
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.createOut, nil
}

func (f *fakeAccountsRepo) GetByUsername(ctx context.Context, username string) (*Account, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

func (f *fakeAccountsRepo) GetByID(ctx context.Context, id string) (*Account, error) {
	if f.byIDErr != nil {
		return nil, f.byIDErr
	}
	return f.byIDOut, nil
}

func (f *fakeAccountsRepo) ListActive(ctx context.Context) ([]*Account, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.listOut, nil
}

func (f *fakeAccountsRepo) RecordLoginFailure(ctx context.Context, id string, maxAttempts int) (*Account, error) {
	f.failureCalls++
	f.failureMax = maxAttempts
	if f.failureErr != nil {
		return nil, f.failureErr
	}
	return f.failureOut, nil
}

func (f *fakeAccountsRepo) RecordLoginSuccess(ctx context.Context, id string, at time.Time) error {
	f.successCalls++
	return f.successErr
}

func (f *fakeAccountsRepo) SetActive(ctx context.Context, id string, active bool) error {
	return f.setActiveErr
}

type fakeSessionsRepo struct {
	createErr error

	findOut *sessions.Session
	findErr error

	delErr error

	delByAccountErr error

	expiredOut int64
	expiredErr error
}

func (f *fakeSessionsRepo) Create(ctx context.Context, accountID, token string, validity time.Duration) (*sessions.Session, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &sessions.Session{Token: token, AccountID: accountID, ExpiresAt: time.Now().Add(validity)}, nil
}

func (f *fakeSessionsRepo) Find(ctx context.Context, token string) (*sessions.Session, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.findOut, nil
}

func (f *fakeSessionsRepo) Delete(ctx context.Context, token string) error { return f.delErr }

func (f *fakeSessionsRepo) DeleteByAccount(ctx context.Context, accountID string) error {
	return f.delByAccountErr
}

func (f *fakeSessionsRepo) DeleteExpired(ctx context.Context) (int64, error) {
	if f.expiredErr != nil {
		return 0, f.expiredErr
	}
	return f.expiredOut, nil
}

func newTestConfig() *config.Config {
	return &config.Config{
		SecretKey:               "k",
		SessionValidityDuration: time.Hour,
		MaxLoginAttempts:        5,
	}
}

func newTestService(t *testing.T, ar Repository, sr sessions.Repository) *Service {
	t.Helper()
	return NewService(ar, sr, newTestConfig())
}

// newLiveService wires the in-memory repositories so a test can run whole
// register/login flows without mocks.
func newLiveService(t *testing.T, cfg *config.Config) *Service {
	t.Helper()
	return NewService(NewInMemoryRepository(), sessions.NewInMemoryRepository(), cfg)
}

func storedAccount(password string) *Account {
	salt := cryptox.NewSalt()
	return &Account{
		ID:           "a-1",
		Username:     "alice",
		Email:        "alice@example.com",
		Salt:         salt,
		PasswordHash: cryptox.HashPassword([]byte(password), salt),
		Active:       true,
	}
}

// --- Register ---

func TestRegister_ValidationStopsBeforeRepo(t *testing.T) {
	tests := []struct {
		name     string
		username string
		email    string
		password string
		wantErr  error
	}{
		{"bad username", "a!", "alice@example.com", "Secur3Pass!", common.ErrInvalidUsername},
		{"bad email", "alice_99", "nope", "Secur3Pass!", common.ErrInvalidEmail},
		{"bad password", "alice_99", "alice@example.com", "short", common.ErrInvalidPassword},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ar := &fakeAccountsRepo{}
			s := newTestService(t, ar, &fakeSessionsRepo{})

			_, err := s.Register(context.Background(), tt.username, tt.email, tt.password)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("want %v, got %v", tt.wantErr, err)
			}
			if ar.lastCreate != nil {
				t.Fatalf("repo called despite validation error")
			}
		})
	}
}

func TestRegister_Success(t *testing.T) {
	ar := &fakeAccountsRepo{createOut: &Account{ID: "42", Username: "alice_99"}}
	s := newTestService(t, ar, &fakeSessionsRepo{})

	got, err := s.Register(context.Background(), "alice_99", "alice_99@example.com", "Secur3Pass!")
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}
	if got.ID != "42" {
		t.Fatalf("unexpected account: %+v", got)
	}

	stored := ar.lastCreate
	if stored == nil {
		t.Fatalf("repo never called")
	}
	if !stored.Active || stored.Username != "alice_99" || stored.Email != "alice_99@example.com" {
		t.Fatalf("unexpected stored account: %+v", stored)
	}
	if len(stored.Salt) != cryptox.SaltSize {
		t.Fatalf("unexpected salt length: %d", len(stored.Salt))
	}
	if !cryptox.VerifyPassword([]byte("Secur3Pass!"), stored.Salt, stored.PasswordHash) {
		t.Fatalf("stored hash does not verify against the password")
	}
}

func TestRegister_Duplicate(t *testing.T) {
	ar := &fakeAccountsRepo{createErr: common.ErrDuplicate}
	s := newTestService(t, ar, &fakeSessionsRepo{})

	_, err := s.Register(context.Background(), "alice_99", "alice_99@example.com", "Secur3Pass!")
	if !errors.Is(err, common.ErrDuplicate) {
		t.Fatalf("want common.ErrDuplicate, got %v", err)
	}
}

func TestRegister_CreateErr(t *testing.T) {
	ar := &fakeAccountsRepo{createErr: errBoom{}}
	s := newTestService(t, ar, &fakeSessionsRepo{})

	_, err := s.Register(context.Background(), "alice_99", "alice_99@example.com", "Secur3Pass!")
	if err == nil || !regexp.MustCompile(`error creating account: .*boom`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped create error, got %v", err)
	}
}

// --- Authenticate ---

func TestAuthenticate_Flows(t *testing.T) {
	ctx := context.Background()

	// not found → unauthorized
	sNF := newTestService(t, &fakeAccountsRepo{getErr: common.ErrNotFound}, &fakeSessionsRepo{})
	if _, err := sNF.Authenticate(ctx, "ghost", "x"); !errors.Is(err, common.ErrUnauthorized) {
		t.Fatalf("notfound → unauthorized, got %v", err)
	}

	// lookup error → internal
	sIE := newTestService(t, &fakeAccountsRepo{getErr: errBoom{}}, &fakeSessionsRepo{})
	if _, err := sIE.Authenticate(ctx, "alice", "x"); !errors.Is(err, common.ErrInternal) {
		t.Fatalf("lookup error → ErrInternal, got %v", err)
	}

	// inactive account
	inactive := storedAccount("Secur3Pass!")
	inactive.Active = false
	sIA := newTestService(t, &fakeAccountsRepo{getOut: inactive}, &fakeSessionsRepo{})
	if _, err := sIA.Authenticate(ctx, "alice", "Secur3Pass!"); !errors.Is(err, common.ErrAccountInactive) {
		t.Fatalf("inactive → ErrAccountInactive, got %v", err)
	}

	// locked account fails even with the right password
	locked := storedAccount("Secur3Pass!")
	locked.Locked = true
	arLocked := &fakeAccountsRepo{getOut: locked}
	sL := newTestService(t, arLocked, &fakeSessionsRepo{})
	if _, err := sL.Authenticate(ctx, "alice", "Secur3Pass!"); !errors.Is(err, common.ErrAccountLocked) {
		t.Fatalf("locked → ErrAccountLocked, got %v", err)
	}
	if arLocked.failureCalls != 0 {
		t.Fatalf("locked attempt must not touch the failure counter")
	}

	// wrong password → counter bumped, unauthorized
	arWP := &fakeAccountsRepo{getOut: storedAccount("Secur3Pass!"), failureOut: &Account{}}
	sWP := newTestService(t, arWP, &fakeSessionsRepo{})
	if _, err := sWP.Authenticate(ctx, "alice", "wrong"); !errors.Is(err, common.ErrUnauthorized) {
		t.Fatalf("wrong password → unauthorized, got %v", err)
	}
	if arWP.failureCalls != 1 || arWP.failureMax != 5 {
		t.Fatalf("failure not recorded: calls=%d max=%d", arWP.failureCalls, arWP.failureMax)
	}

	// failure counter update error → internal
	arFE := &fakeAccountsRepo{getOut: storedAccount("Secur3Pass!"), failureErr: errBoom{}}
	sFE := newTestService(t, arFE, &fakeSessionsRepo{})
	if _, err := sFE.Authenticate(ctx, "alice", "wrong"); !errors.Is(err, common.ErrInternal) {
		t.Fatalf("failure update error → ErrInternal, got %v", err)
	}

	// success → session with a parseable token
	arOK := &fakeAccountsRepo{getOut: storedAccount("Secur3Pass!")}
	sOK := newTestService(t, arOK, &fakeSessionsRepo{})
	session, err := sOK.Authenticate(ctx, "alice", "Secur3Pass!")
	if err != nil || session.Token == "" {
		t.Fatalf("Authenticate success: session=%+v err=%v", session, err)
	}
	if arOK.successCalls != 1 {
		t.Fatalf("login success not recorded")
	}
	accountID, err := auth.GetAccountIDFromToken(session.Token, []byte("k"))
	if err != nil || accountID != "a-1" {
		t.Fatalf("token does not parse back: id=%q err=%v", accountID, err)
	}

	// session store error → internal
	arSE := &fakeAccountsRepo{getOut: storedAccount("Secur3Pass!")}
	sSE := newTestService(t, arSE, &fakeSessionsRepo{createErr: errBoom{}})
	if _, err := sSE.Authenticate(ctx, "alice", "Secur3Pass!"); !errors.Is(err, common.ErrInternal) {
		t.Fatalf("session store error → ErrInternal, got %v", err)
	}
}

func TestAuthenticate_LockoutWalkthrough(t *testing.T) {
	ctx := context.Background()
	s := newLiveService(t, newTestConfig())

	_, err := s.Register(ctx, "alice_99", "alice_99@example.com", "Secur3Pass!")
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}

	for i := 1; i <= 5; i++ {
		_, err := s.Authenticate(ctx, "alice_99", "WrongPass1")
		if !errors.Is(err, common.ErrUnauthorized) {
			t.Fatalf("attempt %d: want ErrUnauthorized, got %v", i, err)
		}
	}

	// the account is now locked, so even the right password is rejected
	_, err = s.Authenticate(ctx, "alice_99", "Secur3Pass!")
	if !errors.Is(err, common.ErrAccountLocked) {
		t.Fatalf("want ErrAccountLocked, got %v", err)
	}

	account, err := s.FindByUsername(ctx, "alice_99")
	if err != nil {
		t.Fatalf("FindByUsername error: %v", err)
	}
	if !account.Locked || account.FailedAttempts != 5 {
		t.Fatalf("unexpected account state: locked=%v attempts=%d", account.Locked, account.FailedAttempts)
	}
}

func TestAuthenticate_SuccessResetsCounter(t *testing.T) {
	ctx := context.Background()
	s := newLiveService(t, newTestConfig())

	_, err := s.Register(ctx, "alice_99", "alice_99@example.com", "Secur3Pass!")
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}

	for i := 0; i < 3; i++ {
		if _, err := s.Authenticate(ctx, "alice_99", "WrongPass1"); !errors.Is(err, common.ErrUnauthorized) {
			t.Fatalf("want ErrUnauthorized, got %v", err)
		}
	}

	session, err := s.Authenticate(ctx, "alice_99", "Secur3Pass!")
	if err != nil {
		t.Fatalf("Authenticate error: %v", err)
	}
	if session.Token == "" {
		t.Fatalf("empty session token")
	}

	account, err := s.FindByUsername(ctx, "alice_99")
	if err != nil {
		t.Fatalf("FindByUsername error: %v", err)
	}
	if account.Locked || account.FailedAttempts != 0 {
		t.Fatalf("counter not reset: locked=%v attempts=%d", account.Locked, account.FailedAttempts)
	}
	if account.LastLogin.IsZero() {
		t.Fatalf("last login not recorded")
	}
}

// --- SessionAccount / Logout ---

func TestSessionAccount_Valid(t *testing.T) {
	ctx := context.Background()
	s := newLiveService(t, newTestConfig())

	_, err := s.Register(ctx, "alice_99", "alice_99@example.com", "Secur3Pass!")
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}
	session, err := s.Authenticate(ctx, "alice_99", "Secur3Pass!")
	if err != nil {
		t.Fatalf("Authenticate error: %v", err)
	}

	account, err := s.SessionAccount(ctx, session.Token)
	if err != nil {
		t.Fatalf("SessionAccount error: %v", err)
	}
	if account.Username != "alice_99" {
		t.Fatalf("unexpected account: %+v", account)
	}
}

func TestSessionAccount_BadToken(t *testing.T) {
	s := newLiveService(t, newTestConfig())

	_, err := s.SessionAccount(context.Background(), "garbage")
	if !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("want ErrInvalidToken, got %v", err)
	}
}

func TestSessionAccount_ExpiredJWT(t *testing.T) {
	ctx := context.Background()
	cfg := newTestConfig()
	cfg.SessionValidityDuration = -time.Second
	s := newLiveService(t, cfg)

	_, err := s.Register(ctx, "alice_99", "alice_99@example.com", "Secur3Pass!")
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}
	session, err := s.Authenticate(ctx, "alice_99", "Secur3Pass!")
	if err != nil {
		t.Fatalf("Authenticate error: %v", err)
	}

	_, err = s.SessionAccount(ctx, session.Token)
	if !errors.Is(err, common.ErrSessionExpired) {
		t.Fatalf("want ErrSessionExpired, got %v", err)
	}
}

func TestSessionAccount_StoredSessionExpired(t *testing.T) {
	// the JWT is still valid but the stored session has already lapsed
	token, err := auth.GenerateToken("a-1", []byte("k"), time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}
	sr := &fakeSessionsRepo{
		findOut: &sessions.Session{Token: token, AccountID: "a-1", ExpiresAt: time.Now().Add(-time.Minute)},
	}
	s := newTestService(t, &fakeAccountsRepo{byIDOut: &Account{ID: "a-1"}}, sr)

	_, err = s.SessionAccount(context.Background(), token)
	if !errors.Is(err, common.ErrSessionExpired) {
		t.Fatalf("want ErrSessionExpired, got %v", err)
	}
}

func TestLogout_EndsSession(t *testing.T) {
	ctx := context.Background()
	s := newLiveService(t, newTestConfig())

	_, err := s.Register(ctx, "alice_99", "alice_99@example.com", "Secur3Pass!")
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}
	session, err := s.Authenticate(ctx, "alice_99", "Secur3Pass!")
	if err != nil {
		t.Fatalf("Authenticate error: %v", err)
	}

	if err := s.Logout(ctx, session.Token); err != nil {
		t.Fatalf("Logout error: %v", err)
	}

	_, err = s.SessionAccount(ctx, session.Token)
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("want ErrNotFound after logout, got %v", err)
	}

	// logging out twice is fine
	if err := s.Logout(ctx, session.Token); err != nil {
		t.Fatalf("second Logout error: %v", err)
	}
}

// --- Deactivate ---

func TestDeactivate_RevokesSessions(t *testing.T) {
	ctx := context.Background()
	s := newLiveService(t, newTestConfig())

	created, err := s.Register(ctx, "alice_99", "alice_99@example.com", "Secur3Pass!")
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}
	session, err := s.Authenticate(ctx, "alice_99", "Secur3Pass!")
	if err != nil {
		t.Fatalf("Authenticate error: %v", err)
	}

	if err := s.Deactivate(ctx, created.ID); err != nil {
		t.Fatalf("Deactivate error: %v", err)
	}

	if _, err := s.Authenticate(ctx, "alice_99", "Secur3Pass!"); !errors.Is(err, common.ErrAccountInactive) {
		t.Fatalf("want ErrAccountInactive, got %v", err)
	}
	if _, err := s.SessionAccount(ctx, session.Token); !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("want ErrNotFound for revoked session, got %v", err)
	}
}

func TestDeactivate_PassesThroughErrors(t *testing.T) {
	s := newTestService(t, &fakeAccountsRepo{setActiveErr: common.ErrNotFound}, &fakeSessionsRepo{})

	err := s.Deactivate(context.Background(), "ghost")
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

// --- FindByID / ListActive ---

func TestFindByID(t *testing.T) {
	s := newTestService(t, &fakeAccountsRepo{byIDOut: &Account{ID: "a-1", Username: "alice_99"}}, &fakeSessionsRepo{})

	account, err := s.FindByID(context.Background(), "a-1")
	if err != nil || account.Username != "alice_99" {
		t.Fatalf("FindByID: account=%+v err=%v", account, err)
	}

	sNF := newTestService(t, &fakeAccountsRepo{byIDErr: common.ErrNotFound}, &fakeSessionsRepo{})
	if _, err := sNF.FindByID(context.Background(), "ghost"); !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestListActive_SkipsDeactivated(t *testing.T) {
	ctx := context.Background()
	s := newLiveService(t, newTestConfig())

	alice, err := s.Register(ctx, "alice_99", "alice_99@example.com", "Secur3Pass!")
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}
	if _, err := s.Register(ctx, "bob_7", "bob_7@example.com", "Secur3Pass!"); err != nil {
		t.Fatalf("Register error: %v", err)
	}

	if err := s.Deactivate(ctx, alice.ID); err != nil {
		t.Fatalf("Deactivate error: %v", err)
	}

	active, err := s.ListActive(ctx)
	if err != nil {
		t.Fatalf("ListActive error: %v", err)
	}
	if len(active) != 1 || active[0].Username != "bob_7" {
		t.Fatalf("unexpected active accounts: %+v", active)
	}
}

// --- PurgeExpiredSessions ---

func TestPurgeExpiredSessions(t *testing.T) {
	s := newTestService(t, &fakeAccountsRepo{}, &fakeSessionsRepo{expiredOut: 3})

	n, err := s.PurgeExpiredSessions(context.Background())
	if err != nil || n != 3 {
		t.Fatalf("PurgeExpiredSessions: n=%d err=%v", n, err)
	}

	sErr := newTestService(t, &fakeAccountsRepo{}, &fakeSessionsRepo{expiredErr: errBoom{}})
	if _, err := sErr.PurgeExpiredSessions(context.Background()); err == nil {
		t.Fatalf("expected error")
	}
}
