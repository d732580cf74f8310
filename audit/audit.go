// Package audit writes the append-only log of security-relevant events:
// logins, record creation and deletion, account provisioning.
package audit

import (
	"io"
	"os"

	"otledger/models"

	log "github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Logger struct {
	log *log.Logger
}

// New builds a logger writing JSON lines to stderr and, when path is
// non-empty, to a size-rotated file.
func New(path string) *Logger {
	l := log.New()
	l.SetFormatter(&log.JSONFormatter{})
	if path != "" {
		rotated := &lumberjack.Logger{
			Filename:   path,
			MaxSize:    10, // megabytes
			MaxBackups: 5,
			MaxAge:     90, // days
		}
		l.SetOutput(io.MultiWriter(os.Stderr, rotated))
	}
	return &Logger{log: l}
}

// NewWithLogger wraps an existing logrus logger. Tests attach a capture
// hook through this.
func NewWithLogger(l *log.Logger) *Logger {
	return &Logger{log: l}
}

func (a *Logger) LoginSuccess(userID uint, username string) {
	a.log.WithFields(log.Fields{
		"event":    "login_success",
		"user_id":  userID,
		"username": username,
	}).Info("user logged in")
}

// LoginFailure records the attempted username, never the password.
func (a *Logger) LoginFailure(username string) {
	a.log.WithFields(log.Fields{
		"event":    "login_failure",
		"username": username,
	}).Warn("failed login attempt")
}

func (a *Logger) OvertimeCreated(actorID uint, record *models.Overtime) {
	a.log.WithFields(log.Fields{
		"event":       "overtime_created",
		"actor_id":    actorID,
		"overtime_id": record.ID,
		"owner_id":    record.UserID,
		"date":        record.Date.Format("2006-01-02"),
		"minutes":     record.Minutes,
	}).Info("overtime record created")
}

func (a *Logger) OvertimeDeleted(actorID uint, record *models.Overtime) {
	a.log.WithFields(log.Fields{
		"event":       "overtime_deleted",
		"actor_id":    actorID,
		"overtime_id": record.ID,
		"owner_id":    record.UserID,
		"date":        record.Date.Format("2006-01-02"),
		"minutes":     record.Minutes,
	}).Info("overtime record deleted")
}

func (a *Logger) Logout(userID uint, username string) {
	a.log.WithFields(log.Fields{
		"event":    "logout",
		"user_id":  userID,
		"username": username,
	}).Info("user logged out")
}

func (a *Logger) UserCreated(actorID uint, user *models.User) {
	a.log.WithFields(log.Fields{
		"event":     "user_created",
		"actor_id":  actorID,
		"user_id":   user.ID,
		"username":  user.Username,
		"user_type": user.UserType,
		"group_id":  user.GroupID,
	}).Info("user account created")
}

func (a *Logger) UserUpdated(actorID uint, user *models.User) {
	a.log.WithFields(log.Fields{
		"event":     "user_updated",
		"actor_id":  actorID,
		"user_id":   user.ID,
		"username":  user.Username,
		"user_type": user.UserType,
		"group_id":  user.GroupID,
	}).Info("user account updated")
}

func (a *Logger) UserDeleted(actorID, userID uint, username string) {
	a.log.WithFields(log.Fields{
		"event":    "user_deleted",
		"actor_id": actorID,
		"user_id":  userID,
		"username": username,
	}).Info("user account deleted")
}
