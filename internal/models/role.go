package models

import "strings"

// Role is the closed set of portal roles carried in access tokens.
type Role string

const (
	RoleStudent           Role = "student"
	RoleLecturer          Role = "lecturer"
	RolePrincipalLecturer Role = "principal_lecturer"
	RoleProgramLeader     Role = "program_leader"
)

// ParseRole normalises a role string, accepting the legacy "pl"/"prl" aliases.
func ParseRole(raw string) (Role, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case string(RoleStudent):
		return RoleStudent, true
	case string(RoleLecturer):
		return RoleLecturer, true
	case string(RolePrincipalLecturer), "prl":
		return RolePrincipalLecturer, true
	case string(RoleProgramLeader), "pl", "program_manager":
		return RoleProgramLeader, true
	}
	return "", false
}

// Valid reports whether the role is one of the known variants.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleLecturer, RolePrincipalLecturer, RoleProgramLeader:
		return true
	}
	return false
}

// CanSubmitReport gates lecture report creation.
func (r Role) CanSubmitReport() bool {
	return r == RoleLecturer || r == RolePrincipalLecturer
}

// CanReview gates status transitions and feedback.
func (r Role) CanReview() bool {
	return r == RolePrincipalLecturer || r == RoleProgramLeader
}

// CanRate gates rating submission.
func (r Role) CanRate() bool {
	return r == RoleStudent
}
