package model

import (
	"errors"
	"strings"
	"time"
)

// Role is the closed set of account roles. Unknown strings are rejected
// at parse time instead of silently failing authorization checks later.
type Role string

const (
	RoleStudent             Role = "student"
	RoleTutor               Role = "tutor"
	RoleAcademicAssistant   Role = "academic_assistant"
	RoleDepartmentAssistant Role = "department_assistant"
	RoleAdministrator       Role = "administrator"
)

var ErrUnknownRole = errors.New("unknown role")

// ParseRole accepts the canonical role names plus the short aliases the
// signup API has always taken ("AA", "DAA", "USER").
func ParseRole(raw string) (Role, error) {
	switch strings.TrimSpace(strings.ToLower(raw)) {
	case "student", "user", "":
		return RoleStudent, nil
	case "tutor":
		return RoleTutor, nil
	case "academic_assistant", "aa":
		return RoleAcademicAssistant, nil
	case "department_assistant", "daa":
		return RoleDepartmentAssistant, nil
	case "administrator", "admin":
		return RoleAdministrator, nil
	default:
		return "", ErrUnknownRole
	}
}

// EventStatus is the event workflow state: pending is initial, approved
// and rejected are terminal.
type EventStatus string

const (
	StatusPending  EventStatus = "pending"
	StatusApproved EventStatus = "approved"
	StatusRejected EventStatus = "rejected"
)

// ParseReviewAction maps a review action to the status it produces.
func ParseReviewAction(raw string) (EventStatus, error) {
	switch strings.TrimSpace(strings.ToLower(raw)) {
	case "approve":
		return StatusApproved, nil
	case "reject":
		return StatusRejected, nil
	default:
		return "", errors.New("invalid action")
	}
}

type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Event struct {
	ID          string
	Title       string
	Description string
	StartTime   time.Time
	EndTime     time.Time
	Status      EventStatus
	AssignedTo  string
	ApprovedBy  *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type StudentProfile struct {
	ID        string
	UserID    string
	Name      string
	Email     string
	StudentID string
	DOB       time.Time
	Year      int
	CreatedAt time.Time
}

type RefreshSession struct {
	ID        string
	UserID    string
	TokenHash string
	CreatedAt time.Time
	ExpiresAt time.Time
	RevokedAt *time.Time
	UserAgent *string
	IPAddress *string
}
