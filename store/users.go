package store

import (
	"errors"

	"otledger/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func (s *Store) FindUserByUsername(username string) (*models.User, error) {
	var user models.User
	if err := s.db.Preload("Group").Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *Store) FindUserByID(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.Preload("Group").First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// CreateUser provisions an account. The password is stored only as a bcrypt
// hash. The group must exist and the username must be unused.
func (s *Store) CreateUser(username, password string, userType models.UserType, groupID uint) (*models.User, error) {
	if username == "" {
		return nil, &ValidationError{Reason: "username is required"}
	}
	if len(password) < 5 {
		return nil, &ValidationError{Reason: "password must be at least 5 characters"}
	}
	if userType != models.UserTypeAdmin && userType != models.UserTypeCommon {
		return nil, &ValidationError{Reason: "user type must be admin or common"}
	}

	var group models.Group
	if err := s.db.First(&group, groupID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var count int64
	if err := s.db.Model(&models.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Username:     username,
		PasswordHash: string(hash),
		UserType:     userType,
		GroupID:      groupID,
	}
	if err := s.db.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// UserChanges describes a partial account update. Nil fields are left
// unchanged.
type UserChanges struct {
	Username *string
	Password *string
	UserType *models.UserType
	GroupID  *uint
}

// UpdateUser applies the non-nil changes in one transaction. Demoting an
// admin to the common role removes their group assignments.
func (s *Store) UpdateUser(id uint, changes UserChanges) (*models.User, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if changes.Username != nil && *changes.Username != user.Username {
			if *changes.Username == "" {
				return &ValidationError{Reason: "username is required"}
			}
			var count int64
			if err := tx.Model(&models.User{}).
				Where("username = ? AND id <> ?", *changes.Username, id).
				Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return ErrUsernameTaken
			}
			user.Username = *changes.Username
		}

		if changes.UserType != nil {
			if *changes.UserType != models.UserTypeAdmin && *changes.UserType != models.UserTypeCommon {
				return &ValidationError{Reason: "user type must be admin or common"}
			}
			if user.IsAdmin() && *changes.UserType == models.UserTypeCommon {
				if err := tx.Where("admin_id = ?", id).Delete(&models.AdminGroup{}).Error; err != nil {
					return err
				}
			}
			user.UserType = *changes.UserType
		}

		if changes.GroupID != nil {
			var group models.Group
			if err := tx.First(&group, *changes.GroupID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrNotFound
				}
				return err
			}
			user.GroupID = *changes.GroupID
		}

		if changes.Password != nil {
			if len(*changes.Password) < 5 {
				return &ValidationError{Reason: "password must be at least 5 characters"}
			}
			hash, err := bcrypt.GenerateFromPassword([]byte(*changes.Password), bcrypt.DefaultCost)
			if err != nil {
				return err
			}
			user.PasswordHash = string(hash)
		}

		return tx.Save(&user).Error
	})
	if err != nil {
		return nil, err
	}
	return s.FindUserByID(id)
}

func (s *Store) SetPassword(userID uint, password string) error {
	if len(password) < 5 {
		return &ValidationError{Reason: "password must be at least 5 characters"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	result := s.db.Model(&models.User{}).Where("id = ?", userID).Update("password_hash", string(hash))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteUser removes the account together with its overtime records and
// admin-group assignments in a single transaction, so no orphaned rows
// survive.
func (s *Store) DeleteUser(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if err := tx.Where("user_id = ?", id).Delete(&models.Overtime{}).Error; err != nil {
			return err
		}
		if err := tx.Where("admin_id = ?", id).Delete(&models.AdminGroup{}).Error; err != nil {
			return err
		}
		return tx.Delete(&user).Error
	})
}

func (s *Store) UsersInGroups(groupIDs []uint) ([]models.User, error) {
	users := []models.User{}
	if len(groupIDs) == 0 {
		return users, nil
	}
	err := s.db.Preload("Group").
		Where("group_id IN ?", groupIDs).
		Order("username asc").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}
