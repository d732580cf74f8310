// Package guard holds the authorization decisions: who may see or delete
// which overtime records, and the group-scoped operations built on top of
// those rules.
package guard

import (
	"errors"
	"time"

	"otledger/audit"
	"otledger/auth"
	"otledger/models"
	"otledger/store"
)

// ErrForbidden means the identity lacks rights over the requested resource.
var ErrForbidden = errors.New("forbidden")

// CanView reports whether identity may see an overtime record owned by
// ownerID, whose owner belongs to ownerGroupID: the owner always may, an
// admin may when the owner's group is among their managed groups. The
// delete rule is the same predicate.
func CanView(identity auth.Identity, ownerID, ownerGroupID uint, managedGroupIDs []uint) bool {
	if identity.UserID == ownerID {
		return true
	}
	if !identity.IsAdmin() {
		return false
	}
	return containsGroup(managedGroupIDs, ownerGroupID)
}

func containsGroup(ids []uint, id uint) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}

type Guard struct {
	store *store.Store
	audit *audit.Logger
}

func New(st *store.Store, auditLog *audit.Logger) *Guard {
	return &Guard{store: st, audit: auditLog}
}

// Filter narrows admin listings to one managed group and/or an inclusive
// date range.
type Filter struct {
	GroupID *uint
	From    *time.Time
	To      *time.Time
}

func (g *Guard) managedIDs(identity auth.Identity) ([]uint, error) {
	if !identity.IsAdmin() {
		return nil, nil
	}
	return g.store.ManagedGroupIDs(identity.UserID)
}

// OwnRecords returns the identity's own records and derived total.
func (g *Guard) OwnRecords(identity auth.Identity) ([]models.Overtime, int, error) {
	records, err := g.store.ListForUser(identity.UserID)
	if err != nil {
		return nil, 0, err
	}
	return records, models.TotalMinutes(records), nil
}

// AddRecord creates an overtime record owned by the identity. The audit
// entry is written only after the insert succeeds.
func (g *Guard) AddRecord(identity auth.Identity, date time.Time, minutes int, description string) (*models.Overtime, error) {
	record, err := g.store.CreateOvertime(identity.UserID, date, minutes, description)
	if err != nil {
		return nil, err
	}
	g.audit.OvertimeCreated(identity.UserID, record)
	return record, nil
}

// RemoveRecord deletes one record under the delete rule: the owner or an
// admin managing the owner's group.
func (g *Guard) RemoveRecord(identity auth.Identity, overtimeID uint) error {
	record, err := g.store.FindOvertime(overtimeID)
	if err != nil {
		return err
	}

	managed, err := g.managedIDs(identity)
	if err != nil {
		return err
	}
	if !CanView(identity, record.UserID, record.User.GroupID, managed) {
		return ErrForbidden
	}

	if err := g.store.DeleteOvertime(overtimeID); err != nil {
		return err
	}
	g.audit.OvertimeDeleted(identity.UserID, record)
	return nil
}

// scopedGroups resolves the group scope for an admin listing: all managed
// groups, or the one explicitly requested when it is among them.
func (g *Guard) scopedGroups(identity auth.Identity, explicit *uint) ([]uint, error) {
	if !identity.IsAdmin() {
		return nil, ErrForbidden
	}
	managed, err := g.store.ManagedGroupIDs(identity.UserID)
	if err != nil {
		return nil, err
	}
	if explicit != nil {
		if !containsGroup(managed, *explicit) {
			return nil, ErrForbidden
		}
		return []uint{*explicit}, nil
	}
	return managed, nil
}

// GroupRecords lists every record across the admin's managed groups. An
// explicit group outside the managed set is rejected, never silently
// dropped. Zero managed groups is an empty result, not an error.
func (g *Guard) GroupRecords(identity auth.Identity, filter Filter) ([]models.Overtime, error) {
	scope, err := g.scopedGroups(identity, filter.GroupID)
	if err != nil {
		return nil, err
	}
	return g.store.ListForGroups(scope, filter.From, filter.To)
}

// GroupSummary aggregates per-user totals across the admin's managed
// groups, including users with no records in the range.
func (g *Guard) GroupSummary(identity auth.Identity, filter Filter) ([]store.UserSummary, []models.Group, error) {
	if !identity.IsAdmin() {
		return nil, nil, ErrForbidden
	}

	managedGroups, err := g.store.ManagedGroups(identity.UserID)
	if err != nil {
		return nil, nil, err
	}

	scope := groupIDs(managedGroups)
	if filter.GroupID != nil {
		if !containsGroup(scope, *filter.GroupID) {
			return nil, nil, ErrForbidden
		}
		scope = []uint{*filter.GroupID}
	}

	summaries, err := g.store.SummaryForGroups(scope, filter.From, filter.To)
	if err != nil {
		return nil, nil, err
	}
	return summaries, managedGroups, nil
}

// UserRecords returns one user's records and total, gated by the view rule
// against that user's group. Serves both the admin detail page and a user
// fetching their own history.
func (g *Guard) UserRecords(identity auth.Identity, targetUserID uint) (*models.User, []models.Overtime, int, error) {
	target, err := g.store.FindUserByID(targetUserID)
	if err != nil {
		return nil, nil, 0, err
	}

	managed, err := g.managedIDs(identity)
	if err != nil {
		return nil, nil, 0, err
	}
	if !CanView(identity, target.ID, target.GroupID, managed) {
		return nil, nil, 0, ErrForbidden
	}

	records, err := g.store.ListForUser(target.ID)
	if err != nil {
		return nil, nil, 0, err
	}
	return target, records, models.TotalMinutes(records), nil
}

// ManagedUsers lists the users an admin can manage, with their groups.
func (g *Guard) ManagedUsers(identity auth.Identity) ([]models.User, []models.Group, error) {
	if !identity.IsAdmin() {
		return nil, nil, ErrForbidden
	}

	managedGroups, err := g.store.ManagedGroups(identity.UserID)
	if err != nil {
		return nil, nil, err
	}

	users, err := g.store.UsersInGroups(groupIDs(managedGroups))
	if err != nil {
		return nil, nil, err
	}
	return users, managedGroups, nil
}

// CreateUser provisions an account in a group the acting admin manages.
// When the new account is itself an admin, it receives assignments only
// for groups the actor manages; others are skipped.
func (g *Guard) CreateUser(identity auth.Identity, username, password string, userType models.UserType, groupID uint, managedGroupIDs []uint) (*models.User, error) {
	if !identity.IsAdmin() {
		return nil, ErrForbidden
	}

	managed, err := g.store.ManagedGroupIDs(identity.UserID)
	if err != nil {
		return nil, err
	}
	if !containsGroup(managed, groupID) {
		return nil, ErrForbidden
	}

	user, err := g.store.CreateUser(username, password, userType, groupID)
	if err != nil {
		return nil, err
	}

	if userType == models.UserTypeAdmin {
		for _, gid := range managedGroupIDs {
			if !containsGroup(managed, gid) {
				continue
			}
			if _, err := g.store.AssignAdmin(user.ID, gid); err != nil {
				return nil, err
			}
		}
	}

	g.audit.UserCreated(identity.UserID, user)
	return user, nil
}

// UpdateUser edits an account in a managed group. Moving the user requires
// the actor to manage both the current and the target group. A non-nil
// managedGroupIDs replaces the target's assignments, keeping only groups
// the actor manages; demoting an admin drops their assignments in the
// store.
func (g *Guard) UpdateUser(identity auth.Identity, targetUserID uint, changes store.UserChanges, managedGroupIDs *[]uint) (*models.User, error) {
	if !identity.IsAdmin() {
		return nil, ErrForbidden
	}

	target, err := g.store.FindUserByID(targetUserID)
	if err != nil {
		return nil, err
	}

	managed, err := g.store.ManagedGroupIDs(identity.UserID)
	if err != nil {
		return nil, err
	}
	if !containsGroup(managed, target.GroupID) {
		return nil, ErrForbidden
	}
	if changes.GroupID != nil && !containsGroup(managed, *changes.GroupID) {
		return nil, ErrForbidden
	}

	user, err := g.store.UpdateUser(targetUserID, changes)
	if err != nil {
		return nil, err
	}

	if managedGroupIDs != nil && user.IsAdmin() {
		current, err := g.store.ManagedGroupIDs(user.ID)
		if err != nil {
			return nil, err
		}
		for _, gid := range current {
			if err := g.store.RemoveAdminAssignment(user.ID, gid); err != nil {
				return nil, err
			}
		}
		for _, gid := range *managedGroupIDs {
			if !containsGroup(managed, gid) {
				continue
			}
			if _, err := g.store.AssignAdmin(user.ID, gid); err != nil {
				return nil, err
			}
		}
	}

	g.audit.UserUpdated(identity.UserID, user)
	return user, nil
}

// DeleteUser removes an account in a managed group. Admins cannot delete
// themselves. The cascade to overtime and assignment rows happens in the
// store.
func (g *Guard) DeleteUser(identity auth.Identity, targetUserID uint) error {
	if !identity.IsAdmin() {
		return ErrForbidden
	}
	if targetUserID == identity.UserID {
		return &store.ValidationError{Reason: "cannot delete your own account"}
	}

	target, err := g.store.FindUserByID(targetUserID)
	if err != nil {
		return err
	}

	managed, err := g.store.ManagedGroupIDs(identity.UserID)
	if err != nil {
		return err
	}
	if !containsGroup(managed, target.GroupID) {
		return ErrForbidden
	}

	if err := g.store.DeleteUser(targetUserID); err != nil {
		return err
	}
	g.audit.UserDeleted(identity.UserID, target.ID, target.Username)
	return nil
}

func groupIDs(groups []models.Group) []uint {
	ids := make([]uint, 0, len(groups))
	for _, group := range groups {
		ids = append(ids, group.ID)
	}
	return ids
}
