package store

import (
	"testing"
	"time"

	"otledger/database"
	"otledger/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupStore(t *testing.T) *Store {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return New(db)
}

func seedGroup(t *testing.T, s *Store, name string) *models.Group {
	t.Helper()

	group, err := s.CreateGroup(name)
	if err != nil {
		t.Fatalf("create group %s: %v", name, err)
	}
	return group
}

func seedUser(t *testing.T, s *Store, username string, userType models.UserType, groupID uint) *models.User {
	t.Helper()

	user, err := s.CreateUser(username, "password123", userType, groupID)
	if err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return user
}

func mustDate(t *testing.T, value string) time.Time {
	t.Helper()

	date, err := time.Parse("2006-01-02", value)
	if err != nil {
		t.Fatalf("parse date %s: %v", value, err)
	}
	return date
}
