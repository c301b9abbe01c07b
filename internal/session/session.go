package session

import "strings"

// Keys under which the session is persisted in the credential store
const (
	KeyToken = "userToken"
	KeyRole  = "userRole"
)

// SuperAdminTag is the only role tag with its own console
const SuperAdminTag = "super_admin"

// Role is the parsed form of a persisted role tag
type Role int

const (
	RoleNone Role = iota
	RoleSuperAdmin
	RoleNormalAdmin
)

func (r Role) String() string {
	switch r {
	case RoleSuperAdmin:
		return "super-admin"
	case RoleNormalAdmin:
		return "normal-admin"
	default:
		return "none"
	}
}

// ParseRole maps a role tag onto a Role. Any non-empty tag other than
// super_admin is a normal admin; ok is false only for an empty tag.
func ParseRole(tag string) (Role, bool) {
	tag = strings.TrimSpace(tag)
	switch tag {
	case "":
		return RoleNone, false
	case SuperAdminTag:
		return RoleSuperAdmin, true
	default:
		return RoleNormalAdmin, true
	}
}

// Session is the in-memory authentication state of the console.
// Token and Role are either both set or both empty.
type Session struct {
	Token         string `json:"-" yaml:"-"`
	Role          Role   `json:"-" yaml:"-"`
	RoleTag       string `json:"role,omitempty" yaml:"role,omitempty"`
	Bootstrapping bool   `json:"bootstrapping" yaml:"bootstrapping"`
}

// Authenticated reports whether a token is held
func (s Session) Authenticated() bool {
	return s.Token != ""
}

func signedIn(token, tag string) Session {
	role, _ := ParseRole(tag)
	return Session{Token: token, Role: role, RoleTag: strings.TrimSpace(tag)}
}
