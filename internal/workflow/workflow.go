// Package workflow implements the event approval lifecycle: an academic
// assistant proposes an event, a department academic assistant approves
// or rejects it, and only approved events become visible. Pending is the
// initial state; approved and rejected are terminal.
package workflow

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/BSFactor/Academic-Calendar/internal/apperr"
	"github.com/BSFactor/Academic-Calendar/internal/model"
	"github.com/BSFactor/Academic-Calendar/internal/policy"
)

// Store is the event persistence the engine needs. Implementations must
// return apperr.NotFound for missing events and apperr.Conflict from
// DecideEvent when the event already left pending.
type Store interface {
	CreateEvent(ctx context.Context, event model.Event) error
	GetEvent(ctx context.Context, eventID string) (model.Event, error)
	DecideEvent(ctx context.Context, eventID string, status model.EventStatus, reviewerID string) (model.Event, error)
	ListEventsByOwnerAndStatus(ctx context.Context, ownerID string, status model.EventStatus) ([]model.Event, error)
	ListEventsByStatus(ctx context.Context, status model.EventStatus) ([]model.Event, error)
}

// Identity is the authenticated caller as downstream components see it:
// an opaque user reference plus its role.
type Identity struct {
	UserID string
	Role   model.Role
}

type Engine struct {
	store Store
	now   func() time.Time
}

func NewEngine(store Store) *Engine {
	return &Engine{store: store, now: func() time.Time { return time.Now().UTC() }}
}

type ProposeInput struct {
	Title       string
	Description string
	StartTime   time.Time
	EndTime     time.Time
}

// Propose creates a pending event owned by the caller. Only academic
// assistants may propose. No overlap or duplicate detection is done.
func (e *Engine) Propose(ctx context.Context, caller Identity, in ProposeInput) (model.Event, error) {
	if !policy.CanProposeEvents(caller.Role) {
		return model.Event{}, apperr.New(apperr.Authorization, "aa_only")
	}
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return model.Event{}, apperr.New(apperr.Validation, "missing_title")
	}
	if in.StartTime.IsZero() || in.EndTime.IsZero() {
		return model.Event{}, apperr.New(apperr.Validation, "missing_time")
	}
	if !in.EndTime.After(in.StartTime) {
		return model.Event{}, apperr.New(apperr.Validation, "invalid_time_range")
	}

	now := e.now()
	event := model.Event{
		ID:          uuid.NewString(),
		Title:       in.Title,
		Description: strings.TrimSpace(in.Description),
		StartTime:   in.StartTime.UTC(),
		EndTime:     in.EndTime.UTC(),
		Status:      model.StatusPending,
		AssignedTo:  caller.UserID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := e.store.CreateEvent(ctx, event); err != nil {
		return model.Event{}, err
	}
	return event, nil
}

// Review applies an approve or reject decision to a pending event and
// records the reviewer. A decided event cannot be reviewed again.
func (e *Engine) Review(ctx context.Context, caller Identity, eventID, action string) (model.Event, error) {
	if !policy.CanReviewEvents(caller.Role) {
		return model.Event{}, apperr.New(apperr.Authorization, "daa_only")
	}
	status, err := model.ParseReviewAction(action)
	if err != nil {
		return model.Event{}, apperr.Wrap(apperr.Validation, "invalid_action", err)
	}
	return e.store.DecideEvent(ctx, eventID, status, caller.UserID)
}

// ListMine is the only event query exposed to owners: approved events
// assigned to the caller, ordered by start time. Pending and rejected
// events stay invisible to their creator through this lens.
func (e *Engine) ListMine(ctx context.Context, caller Identity) ([]model.Event, error) {
	if !policy.Authorize(caller.Role, policy.CapAuthenticated) {
		return nil, apperr.New(apperr.Authorization, "forbidden")
	}
	return e.store.ListEventsByOwnerAndStatus(ctx, caller.UserID, model.StatusApproved)
}

// PendingQueue lists undecided events for reviewers.
func (e *Engine) PendingQueue(ctx context.Context, caller Identity) ([]model.Event, error) {
	if !policy.CanReviewEvents(caller.Role) {
		return nil, apperr.New(apperr.Authorization, "daa_only")
	}
	return e.store.ListEventsByStatus(ctx, model.StatusPending)
}

// Calendar lists every approved event, the shared view all authenticated
// users get.
func (e *Engine) Calendar(ctx context.Context, caller Identity) ([]model.Event, error) {
	if !policy.Authorize(caller.Role, policy.CapAuthenticated) {
		return nil, apperr.New(apperr.Authorization, "forbidden")
	}
	return e.store.ListEventsByStatus(ctx, model.StatusApproved)
}
