// Package auth verifies credentials and produces the Identity value that
// every guarded operation takes as an explicit parameter.
package auth

import (
	"errors"

	"otledger/audit"
	"otledger/models"
	"otledger/store"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned for unknown usernames and wrong
// passwords alike, so callers cannot enumerate accounts.
var ErrInvalidCredentials = errors.New("invalid credentials")

// dummyHash keeps the cost of an unknown-username attempt close to a real
// password comparison.
var dummyHash = []byte("$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy")

// Identity is the authenticated actor for a request.
type Identity struct {
	UserID   uint
	Username string
	Role     models.UserType
	GroupID  uint
}

func (id Identity) IsAdmin() bool {
	return id.Role == models.UserTypeAdmin
}

func IdentityOf(user *models.User) Identity {
	return Identity{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.UserType,
		GroupID:  user.GroupID,
	}
}

type Service struct {
	store *store.Store
	audit *audit.Logger
}

func NewService(st *store.Store, auditLog *audit.Logger) *Service {
	return &Service{store: st, audit: auditLog}
}

// Authenticate verifies the presented password against the stored hash.
// Failures are audited before being returned.
func (s *Service) Authenticate(username, password string) (Identity, error) {
	user, err := s.store.FindUserByUsername(username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			s.audit.LoginFailure(username)
			return Identity{}, ErrInvalidCredentials
		}
		return Identity{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.audit.LoginFailure(username)
		return Identity{}, ErrInvalidCredentials
	}

	s.audit.LoginSuccess(user.ID, user.Username)
	return IdentityOf(user), nil
}

// ChangePassword re-verifies the current password before setting a new one.
func (s *Service) ChangePassword(identity Identity, currentPassword, newPassword string) error {
	user, err := s.store.FindUserByID(identity.UserID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)); err != nil {
		return ErrInvalidCredentials
	}
	return s.store.SetPassword(user.ID, newPassword)
}
