package identity

import (
	"github.com/crm/backend/internal/domain/shared"
)

// Role is a named bundle of permissions
type Role string

const (
	RoleAdmin   Role = "Admin"
	RoleManager Role = "Manager"
	RoleSales   Role = "Sales"
	RoleSupport Role = "Support"
)

// Permission strings follow the "resource:action" convention, with actions
// create, read, update and delete.
const (
	PermContactsCreate = "contacts:create"
	PermContactsRead   = "contacts:read"
	PermContactsUpdate = "contacts:update"
	PermContactsDelete = "contacts:delete"

	PermLeadsCreate = "leads:create"
	PermLeadsRead   = "leads:read"
	PermLeadsUpdate = "leads:update"
	PermLeadsDelete = "leads:delete"

	PermOpportunitiesCreate = "opportunities:create"
	PermOpportunitiesRead   = "opportunities:read"
	PermOpportunitiesUpdate = "opportunities:update"
	PermOpportunitiesDelete = "opportunities:delete"

	PermTasksCreate = "tasks:create"
	PermTasksRead   = "tasks:read"
	PermTasksUpdate = "tasks:update"
	PermTasksDelete = "tasks:delete"

	PermActivitiesCreate = "activities:create"
	PermActivitiesRead   = "activities:read"

	PermUsersCreate = "users:create"
	PermUsersRead   = "users:read"
	PermUsersUpdate = "users:update"
	PermUsersDelete = "users:delete"

	PermReportsRead = "reports:read"
)

// AllPermissions lists every permission the system knows about
var AllPermissions = []string{
	PermContactsCreate, PermContactsRead, PermContactsUpdate, PermContactsDelete,
	PermLeadsCreate, PermLeadsRead, PermLeadsUpdate, PermLeadsDelete,
	PermOpportunitiesCreate, PermOpportunitiesRead, PermOpportunitiesUpdate, PermOpportunitiesDelete,
	PermTasksCreate, PermTasksRead, PermTasksUpdate, PermTasksDelete,
	PermActivitiesCreate, PermActivitiesRead,
	PermUsersCreate, PermUsersRead, PermUsersUpdate, PermUsersDelete,
	PermReportsRead,
}

// rolePermissions is the process-start role to permission map.
// Admin is handled separately and implicitly holds every permission.
var rolePermissions = map[Role][]string{
	RoleManager: {
		PermContactsCreate, PermContactsRead, PermContactsUpdate, PermContactsDelete,
		PermLeadsCreate, PermLeadsRead, PermLeadsUpdate, PermLeadsDelete,
		PermOpportunitiesCreate, PermOpportunitiesRead, PermOpportunitiesUpdate, PermOpportunitiesDelete,
		PermTasksCreate, PermTasksRead, PermTasksUpdate, PermTasksDelete,
		PermActivitiesCreate, PermActivitiesRead,
		PermUsersRead,
		PermReportsRead,
	},
	RoleSales: {
		PermContactsCreate, PermContactsRead, PermContactsUpdate,
		PermLeadsCreate, PermLeadsRead, PermLeadsUpdate,
		PermOpportunitiesCreate, PermOpportunitiesRead, PermOpportunitiesUpdate,
		PermTasksCreate, PermTasksRead, PermTasksUpdate,
		PermActivitiesCreate, PermActivitiesRead,
		PermReportsRead,
	},
	RoleSupport: {
		PermContactsRead,
		PermLeadsRead,
		PermOpportunitiesRead,
		PermTasksCreate, PermTasksRead, PermTasksUpdate,
		PermActivitiesCreate, PermActivitiesRead,
	},
}

// PermissionsForRole returns the permission set granted by a role
func PermissionsForRole(role Role) []string {
	if role == RoleAdmin {
		perms := make([]string, len(AllPermissions))
		copy(perms, AllPermissions)
		return perms
	}
	base := rolePermissions[role]
	perms := make([]string, len(base))
	copy(perms, base)
	return perms
}

// ValidateRole validates a role value
func ValidateRole(role Role) error {
	switch role {
	case RoleAdmin, RoleManager, RoleSales, RoleSupport:
		return nil
	default:
		return shared.NewDomainError("INVALID_ROLE", "Unknown role")
	}
}
