package models

// Role 用户角色（封闭集合）
type Role string

const (
	RoleElderly  Role = "elderly"
	RoleEmployee Role = "employee"
	RoleRehab    Role = "rehab"
	RoleUnknown  Role = "unknown"
)

// ParseRole 未识别的角色一律归为 unknown
func ParseRole(s string) Role {
	switch Role(s) {
	case RoleElderly, RoleEmployee, RoleRehab:
		return Role(s)
	default:
		return RoleUnknown
	}
}

// UserProfile 用户画像（外部输入，只读）
type UserProfile struct {
	UserID string `json:"user_id"`
	Role   Role   `json:"role"`
}
