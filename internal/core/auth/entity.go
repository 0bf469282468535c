package auth

import "strings"

// Role は利用者の権限種別を表します。
type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleEmployee Role = "EMPLOYEE"
)

// ParseRole はストアに記録された値を Role に変換します。認識できない値は false を返します。
func ParseRole(raw string) (Role, bool) {
	switch Role(strings.ToUpper(strings.TrimSpace(raw))) {
	case RoleAdmin:
		return RoleAdmin, true
	case RoleEmployee:
		return RoleEmployee, true
	default:
		return "", false
	}
}

// Credential は認証に成功した利用者の情報です。パスワードは保持しません。
type Credential struct {
	Username   string
	Role       Role
	EmployeeID *int64
}
