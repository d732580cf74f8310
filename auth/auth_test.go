package auth

import (
	"errors"
	"testing"

	"otledger/audit"
	"otledger/database"
	"otledger/models"
	"otledger/store"

	"github.com/glebarez/sqlite"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"gorm.io/gorm"
)

func setupService(t *testing.T) (*Service, *store.Store, *logtest.Hook) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	st := store.New(db)
	logger, hook := logtest.NewNullLogger()
	return NewService(st, audit.NewWithLogger(logger)), st, hook
}

func seedJohn(t *testing.T, st *store.Store) *models.User {
	t.Helper()

	group, err := st.CreateGroup("Engineering")
	if err != nil {
		t.Fatalf("create group: %v", err)
	}
	user, err := st.CreateUser("john", "password123", models.UserTypeCommon, group.ID)
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func failureEvents(hook *logtest.Hook) int {
	count := 0
	for _, entry := range hook.AllEntries() {
		if entry.Data["event"] == "login_failure" {
			count++
		}
	}
	return count
}

func TestAuthenticateSuccess(t *testing.T) {
	svc, st, hook := setupService(t)
	user := seedJohn(t, st)

	identity, err := svc.Authenticate("john", "password123")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if identity.UserID != user.ID || identity.Username != "john" || identity.Role != models.UserTypeCommon || identity.GroupID != user.GroupID {
		t.Fatalf("unexpected identity: %+v", identity)
	}

	entries := hook.AllEntries()
	if len(entries) != 1 || entries[0].Data["event"] != "login_success" {
		t.Fatalf("expected one login_success entry, got %+v", entries)
	}
}

func TestAuthenticateWrongPassword(t *testing.T) {
	svc, st, hook := setupService(t)
	seedJohn(t, st)

	_, err := svc.Authenticate("john", "not-the-password")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if got := failureEvents(hook); got != 1 {
		t.Fatalf("expected one login_failure entry, got %d", got)
	}
}

func TestAuthenticateUnknownUserIndistinguishable(t *testing.T) {
	svc, st, _ := setupService(t)
	seedJohn(t, st)

	_, wrongPassword := svc.Authenticate("john", "not-the-password")
	_, unknownUser := svc.Authenticate("nobody", "whatever")

	if !errors.Is(wrongPassword, ErrInvalidCredentials) || !errors.Is(unknownUser, ErrInvalidCredentials) {
		t.Fatalf("both failures must return the generic error, got %v and %v", wrongPassword, unknownUser)
	}
}

func TestRepeatedFailuresEachLoggedNoLockout(t *testing.T) {
	svc, st, hook := setupService(t)
	seedJohn(t, st)

	for i := 0; i < 3; i++ {
		if _, err := svc.Authenticate("john", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("attempt %d: expected ErrInvalidCredentials, got %v", i+1, err)
		}
	}
	if got := failureEvents(hook); got != 3 {
		t.Fatalf("expected three login_failure entries, got %d", got)
	}

	// No lockout: the right password still works.
	if _, err := svc.Authenticate("john", "password123"); err != nil {
		t.Fatalf("expected login after failures to succeed: %v", err)
	}
}

func TestFailureEntriesNeverContainPassword(t *testing.T) {
	svc, st, hook := setupService(t)
	seedJohn(t, st)

	_, _ = svc.Authenticate("john", "s3cret-attempt")

	for _, entry := range hook.AllEntries() {
		for _, value := range entry.Data {
			if value == "s3cret-attempt" {
				t.Fatal("audit entry contains the attempted password")
			}
		}
	}
}

func TestChangePassword(t *testing.T) {
	svc, st, _ := setupService(t)
	user := seedJohn(t, st)
	identity := IdentityOf(user)

	if err := svc.ChangePassword(identity, "wrong", "newpassword"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for wrong current password, got %v", err)
	}

	if err := svc.ChangePassword(identity, "password123", "newpassword"); err != nil {
		t.Fatalf("change password: %v", err)
	}
	if _, err := svc.Authenticate("john", "newpassword"); err != nil {
		t.Fatalf("authenticate with new password: %v", err)
	}
	if _, err := svc.Authenticate("john", "password123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("old password must stop working, got %v", err)
	}
}
