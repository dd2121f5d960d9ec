package service

import "github.com/pageza/recipebox/backend/internal/models"

// PermissionPolicy decides what an identity may do. It is kept apart from the
// User record so the rules can change without touching the model.
type PermissionPolicy interface {
	CanAuthenticate(u *models.User) bool
	IsAdmin(u *models.User) bool
}

// DefaultPolicy lets active users in and treats staff or superusers as admins.
type DefaultPolicy struct{}

var _ PermissionPolicy = DefaultPolicy{}

func (DefaultPolicy) CanAuthenticate(u *models.User) bool {
	return u != nil && u.IsActive
}

func (DefaultPolicy) IsAdmin(u *models.User) bool {
	return u != nil && u.IsActive && (u.IsStaff || u.IsSuperuser)
}
