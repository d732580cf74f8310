package store

import (
	"errors"
	"fmt"

	"otledger/models"

	"gorm.io/gorm"
)

func (s *Store) CreateGroup(name string) (*models.Group, error) {
	if name == "" {
		return nil, &ValidationError{Reason: "group name is required"}
	}

	var count int64
	if err := s.db.Model(&models.Group{}).Where("name = ?", name).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, &ValidationError{Reason: fmt.Sprintf("group %q already exists", name)}
	}

	group := models.Group{Name: name}
	if err := s.db.Create(&group).Error; err != nil {
		return nil, err
	}
	return &group, nil
}

func (s *Store) Groups() ([]models.Group, error) {
	groups := []models.Group{}
	if err := s.db.Order("name asc").Find(&groups).Error; err != nil {
		return nil, err
	}
	return groups, nil
}

// ManagedGroupIDs returns the ids of the groups adminID is assigned to
// manage. Empty for users with no assignments.
func (s *Store) ManagedGroupIDs(adminID uint) ([]uint, error) {
	ids := []uint{}
	err := s.db.Model(&models.AdminGroup{}).
		Where("admin_id = ?", adminID).
		Pluck("group_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (s *Store) ManagedGroups(adminID uint) ([]models.Group, error) {
	groups := []models.Group{}
	err := s.db.
		Joins("JOIN admin_groups ON admin_groups.group_id = groups.id").
		Where("admin_groups.admin_id = ?", adminID).
		Order("groups.name asc").
		Find(&groups).Error
	if err != nil {
		return nil, err
	}
	return groups, nil
}

// AssignAdmin creates an (admin, group) assignment. The user must hold the
// admin role and the pair must not exist yet.
func (s *Store) AssignAdmin(adminID, groupID uint) (*models.AdminGroup, error) {
	var user models.User
	if err := s.db.First(&user, adminID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !user.IsAdmin() {
		return nil, &ValidationError{Reason: "user is not an admin"}
	}

	var group models.Group
	if err := s.db.First(&group, groupID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var count int64
	err := s.db.Model(&models.AdminGroup{}).
		Where("admin_id = ? AND group_id = ?", adminID, groupID).
		Count(&count).Error
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrAlreadyAssigned
	}

	edge := models.AdminGroup{AdminID: adminID, GroupID: groupID}
	if err := s.db.Create(&edge).Error; err != nil {
		return nil, err
	}
	return &edge, nil
}

func (s *Store) RemoveAdminAssignment(adminID, groupID uint) error {
	result := s.db.
		Where("admin_id = ? AND group_id = ?", adminID, groupID).
		Delete(&models.AdminGroup{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
