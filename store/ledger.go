package store

import (
	"errors"
	"time"

	"otledger/models"

	"gorm.io/gorm"
)

// UserSummary is one row of the admin panel: a user's total overtime over
// the selected range, zero if they reported none.
type UserSummary struct {
	UserID       uint   `json:"user_id"`
	Username     string `json:"username"`
	GroupName    string `json:"group_name"`
	TotalMinutes int    `json:"total_minutes"`
}

// CreateOvertime validates and inserts one record. The creation timestamp
// is server-assigned; the owning user must exist.
func (s *Store) CreateOvertime(userID uint, date time.Time, minutes int, description string) (*models.Overtime, error) {
	if minutes <= 0 {
		return nil, &ValidationError{Reason: "minutes must be greater than 0"}
	}
	if date.IsZero() {
		return nil, &ValidationError{Reason: "date is required"}
	}
	if description == "" {
		return nil, &ValidationError{Reason: "description is required"}
	}
	if !s.AllowFutureDates {
		now := s.now()
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		if date.After(today) {
			return nil, &ValidationError{Reason: "date cannot be in the future"}
		}
	}

	var count int64
	if err := s.db.Model(&models.User{}).Where("id = ?", userID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, ErrNotFound
	}

	record := models.Overtime{
		UserID:      userID,
		Date:        date,
		Minutes:     minutes,
		Description: description,
		CreatedAt:   s.now(),
	}
	if err := s.db.Create(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

func (s *Store) FindOvertime(id uint) (*models.Overtime, error) {
	var record models.Overtime
	if err := s.db.Preload("User").First(&record, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// ListForUser returns a user's records, most recent date first. The id
// tiebreak keeps the order deterministic.
func (s *Store) ListForUser(userID uint) ([]models.Overtime, error) {
	records := []models.Overtime{}
	err := s.db.
		Where("user_id = ?", userID).
		Order("date desc, id desc").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

// ListForGroups returns the records of every user in the given groups,
// optionally restricted to from <= date <= to (both bounds inclusive).
func (s *Store) ListForGroups(groupIDs []uint, from, to *time.Time) ([]models.Overtime, error) {
	records := []models.Overtime{}
	if len(groupIDs) == 0 {
		return records, nil
	}

	query := s.db.Preload("User").Preload("User.Group").
		Joins("JOIN users ON users.id = overtime.user_id").
		Where("users.group_id IN ?", groupIDs)
	if from != nil {
		query = query.Where("overtime.date >= ?", *from)
	}
	if to != nil {
		query = query.Where("overtime.date <= ?", *to)
	}

	err := query.Order("overtime.date desc, overtime.id desc").Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

// SummaryForGroups aggregates per-user totals across the given groups. The
// date bounds go into the join condition so users without records in the
// range still appear with a zero total.
func (s *Store) SummaryForGroups(groupIDs []uint, from, to *time.Time) ([]UserSummary, error) {
	summaries := []UserSummary{}
	if len(groupIDs) == 0 {
		return summaries, nil
	}

	join := "LEFT JOIN overtime ON overtime.user_id = users.id"
	args := []interface{}{}
	if from != nil {
		join += " AND overtime.date >= ?"
		args = append(args, *from)
	}
	if to != nil {
		join += " AND overtime.date <= ?"
		args = append(args, *to)
	}

	err := s.db.Table("users").
		Select("users.id AS user_id, users.username, groups.name AS group_name, COALESCE(SUM(overtime.minutes), 0) AS total_minutes").
		Joins(join, args...).
		Joins("JOIN groups ON groups.id = users.group_id").
		Where("users.group_id IN ?", groupIDs).
		Group("users.id, users.username, groups.name").
		Order("users.username asc").
		Scan(&summaries).Error
	if err != nil {
		return nil, err
	}
	return summaries, nil
}

// DeleteOvertime removes one record. Deleting a missing id is an error, not
// a no-op.
func (s *Store) DeleteOvertime(id uint) error {
	result := s.db.Delete(&models.Overtime{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CountOvertime reports the ledger size.
func (s *Store) CountOvertime() (int64, error) {
	var count int64
	err := s.db.Model(&models.Overtime{}).Count(&count).Error
	return count, err
}
