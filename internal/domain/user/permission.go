package user

import "sort"

type Permission string

const (
	// Sales
	PermissionViewSales   Permission = "view_sales"
	PermissionCreateSales Permission = "create_sales"

	// Sellers
	PermissionViewSellers   Permission = "view_sellers"
	PermissionCreateSellers Permission = "create_sellers"

	// Administration
	PermissionManageAdminFunctions Permission = "manage_admin_functions"
	PermissionResendCommissions    Permission = "resend_commissions"
	PermissionRunDailyMails        Permission = "run_daily_mails"
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleAdmin: {
		// Admin has all permissions
		PermissionViewSales,
		PermissionCreateSales,
		PermissionViewSellers,
		PermissionCreateSellers,
		PermissionManageAdminFunctions,
		PermissionResendCommissions,
		PermissionRunDailyMails,
	},
	RoleManager: {
		PermissionViewSales,
		PermissionCreateSales,
		PermissionViewSellers,
		PermissionCreateSellers,
		PermissionResendCommissions,
	},
	RoleViewer: {
		PermissionViewSales,
		PermissionViewSellers,
	},
}

// HasPermission checks if a role has a specific permission
func HasPermission(role Role, permission Permission) bool {
	permissions, exists := RolePermissions[role]
	if !exists {
		return false
	}

	for _, p := range permissions {
		if p == permission {
			return true
		}
	}

	return false
}

// Authorizer decides whether a set of roles grants a permission
type Authorizer interface {
	UserHasPermission(roles []Role, permission Permission) bool
	Permissions(roles []Role) []Permission
}

type roleAuthorizer struct{}

// NewRoleAuthorizer is backed by RolePermissions
func NewRoleAuthorizer() Authorizer {
	return roleAuthorizer{}
}

func (roleAuthorizer) UserHasPermission(roles []Role, permission Permission) bool {
	for _, role := range roles {
		if HasPermission(role, permission) {
			return true
		}
	}
	return false
}

// Permissions returns the sorted union of the roles' permissions
func (roleAuthorizer) Permissions(roles []Role) []Permission {
	seen := make(map[Permission]struct{})
	for _, role := range roles {
		for _, p := range RolePermissions[role] {
			seen[p] = struct{}{}
		}
	}
	result := make([]Permission, 0, len(seen))
	for p := range seen {
		result = append(result, p)
	}
	sort.Slice(result, func(i, j int) bool { return result[i] < result[j] })
	return result
}
