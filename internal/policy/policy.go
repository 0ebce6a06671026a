// Package policy holds the capability checks that gate every state
// transition in the calendar workflow. Checks are pure predicates over
// the caller's role; deny is the default.
package policy

import "github.com/BSFactor/Academic-Calendar/internal/model"

type Capability int

const (
	// CapAuthenticated is satisfied by any valid role.
	CapAuthenticated Capability = iota
	// CapProposeEvents allows creating pending calendar events.
	CapProposeEvents
	// CapReviewEvents allows approving or rejecting pending events.
	CapReviewEvents
	// CapManageStudents allows creating and deleting student profiles.
	CapManageStudents
)

func Authorize(role model.Role, cap Capability) bool {
	switch cap {
	case CapAuthenticated:
		return role != ""
	case CapProposeEvents:
		return role == model.RoleAcademicAssistant
	case CapReviewEvents:
		return role == model.RoleDepartmentAssistant
	case CapManageStudents:
		return role == model.RoleDepartmentAssistant || role == model.RoleAdministrator
	default:
		return false
	}
}

func CanProposeEvents(role model.Role) bool { return Authorize(role, CapProposeEvents) }

func CanReviewEvents(role model.Role) bool { return Authorize(role, CapReviewEvents) }

func CanManageStudents(role model.Role) bool { return Authorize(role, CapManageStudents) }
