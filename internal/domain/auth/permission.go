package auth

type Role string

const (
	RoleAdmin   Role = "admin"   // full access, including paying periods
	RoleManager Role = "manager" // decides bonuses, recalculates
	RoleViewer  Role = "viewer"  // read only
)

func (r Role) IsValid() bool {
	_, ok := RolePermissions[r]
	return ok
}

type Permission string

const (
	PermissionAttendanceView     Permission = "attendance.view"
	PermissionAttendanceRecalc   Permission = "attendance.recalculate"
	PermissionAttendanceFinalize Permission = "attendance.finalize"

	PermissionBonusView   Permission = "bonus.view"
	PermissionBonusDecide Permission = "bonus.decide"

	PermissionPayrollView   Permission = "payroll.view"
	PermissionPayrollRecalc Permission = "payroll.recalculate"
	PermissionPayrollStatus Permission = "payroll.status"

	PermissionOperatorManage Permission = "operator.manage"
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleAdmin: {
		PermissionAttendanceView,
		PermissionAttendanceRecalc,
		PermissionAttendanceFinalize,
		PermissionBonusView,
		PermissionBonusDecide,
		PermissionPayrollView,
		PermissionPayrollRecalc,
		PermissionPayrollStatus,
		PermissionOperatorManage,
	},
	RoleManager: {
		PermissionAttendanceView,
		PermissionAttendanceRecalc,
		PermissionAttendanceFinalize,
		PermissionBonusView,
		PermissionBonusDecide,
		PermissionPayrollView,
		PermissionPayrollRecalc,
	},
	RoleViewer: {
		PermissionAttendanceView,
		PermissionBonusView,
		PermissionPayrollView,
	},
}

func HasPermission(role Role, permission Permission) bool {
	for _, p := range RolePermissions[role] {
		if p == permission {
			return true
		}
	}
	return false
}
