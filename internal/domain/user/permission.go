package user

type Permission string

const (
	// Punch operations
	PermissionPunchOwn     Permission = "timbratura.punch_own"
	PermissionPunchViewOwn Permission = "timbratura.view_own"
	PermissionPunchViewAll Permission = "timbratura.view_all"
	PermissionPunchApprove Permission = "timbratura.approve"
	PermissionPunchDelete  Permission = "timbratura.delete"

	// Kiosk tokens
	PermissionTokenIssue Permission = "token.issue"

	// Leave and justification requests
	PermissionRequestCreate  Permission = "richiesta.create"
	PermissionRequestViewAll Permission = "richiesta.view_all"
	PermissionRequestDecide  Permission = "richiesta.decide"

	// Statistics and exports
	PermissionStatsViewOwn Permission = "statistiche.view_own"
	PermissionStatsViewAll Permission = "statistiche.view_all"
	PermissionReportExport Permission = "report.export"
)

// RolePermissions is the single authorization policy table; handlers and
// services consult it instead of comparing role strings ad hoc.
var RolePermissions = map[Role][]Permission{
	RoleAdmin: {
		PermissionPunchOwn,
		PermissionPunchViewOwn,
		PermissionPunchViewAll,
		PermissionPunchApprove,
		PermissionPunchDelete,
		PermissionTokenIssue,
		PermissionRequestCreate,
		PermissionRequestViewAll,
		PermissionRequestDecide,
		PermissionStatsViewOwn,
		PermissionStatsViewAll,
		PermissionReportExport,
	},
	RoleManager: {
		PermissionPunchOwn,
		PermissionPunchViewOwn,
		PermissionPunchViewAll,
		PermissionPunchApprove,
		PermissionRequestCreate,
		PermissionRequestViewAll,
		PermissionRequestDecide,
		PermissionStatsViewOwn,
		PermissionStatsViewAll,
		PermissionReportExport,
	},
	RoleDipendente: {
		PermissionPunchOwn,
		PermissionPunchViewOwn,
		PermissionRequestCreate,
		PermissionStatsViewOwn,
	},
	RoleReceptionist: {
		PermissionPunchOwn,
		PermissionPunchViewOwn,
		PermissionTokenIssue,
		PermissionStatsViewOwn,
	},
}

// HasPermission checks if a role has a specific permission.
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
