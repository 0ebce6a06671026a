package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/BSFactor/Academic-Calendar/internal/apperr"
	"github.com/BSFactor/Academic-Calendar/internal/db"
	"github.com/BSFactor/Academic-Calendar/internal/model"
)

type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Users

func (s *Store) CreateUser(ctx context.Context, user model.User) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO users (id, username, email, password_hash, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, user.ID, user.Username, user.Email, user.PasswordHash, user.Role, user.CreatedAt, user.UpdatedAt)
	return mapUniqueViolation(err)
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (model.User, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, username, email, password_hash, role, created_at, updated_at
		FROM users
		WHERE username = $1
	`, username)
	return scanUser(row)
}

func (s *Store) GetUserByID(ctx context.Context, userID string) (model.User, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, username, email, password_hash, role, created_at, updated_at
		FROM users
		WHERE id = $1
	`, userID)
	return scanUser(row)
}

func (s *Store) UsernameExists(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)`, username).Scan(&exists)
	return exists, err
}

func scanUser(row pgx.Row) (model.User, error) {
	var user model.User
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.User{}, apperr.Wrap(apperr.NotFound, "user_not_found", err)
	}
	return user, err
}

// Refresh sessions

func (s *Store) CreateRefreshSession(ctx context.Context, session model.RefreshSession) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO refresh_token_sessions (id, user_id, token_hash, created_at, expires_at, revoked_at, user_agent, ip_address)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, session.ID, session.UserID, session.TokenHash, session.CreatedAt, session.ExpiresAt, session.RevokedAt, session.UserAgent, session.IPAddress)
	return err
}

func (s *Store) GetRefreshSession(ctx context.Context, tokenHash string) (model.RefreshSession, error) {
	var session model.RefreshSession
	row := s.pool.QueryRow(ctx, `
		SELECT id, user_id, token_hash, created_at, expires_at, revoked_at, user_agent, ip_address
		FROM refresh_token_sessions
		WHERE token_hash = $1
	`, tokenHash)
	err := row.Scan(&session.ID, &session.UserID, &session.TokenHash, &session.CreatedAt, &session.ExpiresAt, &session.RevokedAt, &session.UserAgent, &session.IPAddress)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.RefreshSession{}, apperr.Wrap(apperr.Authentication, "invalid_refresh_token", err)
	}
	return session, err
}

func (s *Store) RevokeRefreshSession(ctx context.Context, sessionID string, revokedAt time.Time) error {
	_, err := s.pool.Exec(ctx, `UPDATE refresh_token_sessions SET revoked_at = $1 WHERE id = $2`, revokedAt, sessionID)
	return err
}

func (s *Store) RevokeRefreshSessionsByUser(ctx context.Context, userID string, revokedAt time.Time) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE refresh_token_sessions
		SET revoked_at = $1
		WHERE user_id = $2 AND revoked_at IS NULL
	`, revokedAt, userID)
	return err
}

// Student profiles

// CreateStudent inserts the backing account and the profile in one
// transaction so a half-created student never survives a failure.
func (s *Store) CreateStudent(ctx context.Context, user model.User, profile model.StudentProfile) error {
	err := db.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `
			INSERT INTO users (id, username, email, password_hash, role, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, user.ID, user.Username, user.Email, user.PasswordHash, user.Role, user.CreatedAt, user.UpdatedAt); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, `
			INSERT INTO student_profiles (id, user_id, name, email, student_id, dob, year, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, profile.ID, profile.UserID, profile.Name, profile.Email, profile.StudentID, profile.DOB, profile.Year, profile.CreatedAt)
		return err
	})
	return mapUniqueViolation(err)
}

func (s *Store) GetStudentProfile(ctx context.Context, profileID string) (model.StudentProfile, error) {
	var profile model.StudentProfile
	row := s.pool.QueryRow(ctx, `
		SELECT id, user_id, name, email, student_id, dob, year, created_at
		FROM student_profiles
		WHERE id = $1
	`, profileID)
	err := row.Scan(&profile.ID, &profile.UserID, &profile.Name, &profile.Email, &profile.StudentID, &profile.DOB, &profile.Year, &profile.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.StudentProfile{}, apperr.Wrap(apperr.NotFound, "student_not_found", err)
	}
	return profile, err
}

func (s *Store) StudentIDExists(ctx context.Context, studentID string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM student_profiles WHERE student_id = $1)`, studentID).Scan(&exists)
	return exists, err
}

func (s *Store) StudentEmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM student_profiles WHERE email = $1)`, email).Scan(&exists)
	return exists, err
}

// DeleteStudent removes the profile and then its backing account inside
// one transaction. Deleting a profile deletes the account: this is the
// documented lifecycle rule, made explicit here rather than hidden in a
// cascade.
func (s *Store) DeleteStudent(ctx context.Context, profileID string) error {
	return db.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		var userID string
		err := tx.QueryRow(ctx, `SELECT user_id FROM student_profiles WHERE id = $1`, profileID).Scan(&userID)
		if errors.Is(err, pgx.ErrNoRows) {
			return apperr.Wrap(apperr.NotFound, "student_not_found", err)
		}
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM student_profiles WHERE id = $1`, profileID); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM refresh_token_sessions WHERE user_id = $1`, userID); err != nil {
			return err
		}
		_, err = tx.Exec(ctx, `DELETE FROM events WHERE assigned_to = $1`, userID)
		if err != nil {
			return err
		}
		_, err = tx.Exec(ctx, `DELETE FROM users WHERE id = $1`, userID)
		return err
	})
}

// Events

func (s *Store) CreateEvent(ctx context.Context, event model.Event) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO events (id, title, description, start_time, end_time, status, assigned_to, approved_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, event.ID, event.Title, event.Description, event.StartTime, event.EndTime, event.Status, event.AssignedTo, event.ApprovedBy, event.CreatedAt, event.UpdatedAt)
	return err
}

func (s *Store) GetEvent(ctx context.Context, eventID string) (model.Event, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, title, description, start_time, end_time, status, assigned_to, approved_by, created_at, updated_at
		FROM events
		WHERE id = $1
	`, eventID)
	return scanEvent(row)
}

// DecideEvent applies a review decision as a single atomic update guarded
// on the pending status, so concurrent reviews of the same event cannot
// both win and a decided event can never be re-reviewed.
func (s *Store) DecideEvent(ctx context.Context, eventID string, status model.EventStatus, reviewerID string) (model.Event, error) {
	row := s.pool.QueryRow(ctx, `
		UPDATE events
		SET status = $2, approved_by = $3, updated_at = $4
		WHERE id = $1 AND status = 'pending'
		RETURNING id, title, description, start_time, end_time, status, assigned_to, approved_by, created_at, updated_at
	`, eventID, status, reviewerID, time.Now().UTC())
	event, err := scanEvent(row)
	if apperr.KindOf(err) == apperr.NotFound {
		// Missing row or already decided; look again to tell them apart.
		if _, getErr := s.GetEvent(ctx, eventID); getErr != nil {
			return model.Event{}, getErr
		}
		return model.Event{}, apperr.New(apperr.Conflict, "event_already_decided")
	}
	return event, err
}

func (s *Store) ListEventsByOwnerAndStatus(ctx context.Context, ownerID string, status model.EventStatus) ([]model.Event, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, title, description, start_time, end_time, status, assigned_to, approved_by, created_at, updated_at
		FROM events
		WHERE assigned_to = $1 AND status = $2
		ORDER BY start_time
	`, ownerID, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectEvents(rows)
}

func (s *Store) ListEventsByStatus(ctx context.Context, status model.EventStatus) ([]model.Event, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, title, description, start_time, end_time, status, assigned_to, approved_by, created_at, updated_at
		FROM events
		WHERE status = $1
		ORDER BY start_time
	`, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectEvents(rows)
}

func scanEvent(row pgx.Row) (model.Event, error) {
	var event model.Event
	err := row.Scan(
		&event.ID,
		&event.Title,
		&event.Description,
		&event.StartTime,
		&event.EndTime,
		&event.Status,
		&event.AssignedTo,
		&event.ApprovedBy,
		&event.CreatedAt,
		&event.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Event{}, apperr.Wrap(apperr.NotFound, "event_not_found", err)
	}
	return event, err
}

func collectEvents(rows pgx.Rows) ([]model.Event, error) {
	events := make([]model.Event, 0)
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

// mapUniqueViolation turns a 23505 into a duplicate error naming the
// colliding field, keyed off the constraint name in the schema.
func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != "23505" {
		return err
	}
	switch pgErr.ConstraintName {
	case "users_username_key":
		return apperr.Wrap(apperr.Duplicate, "username_taken", err)
	case "users_email_key":
		return apperr.Wrap(apperr.Duplicate, "email_taken", err)
	case "student_profiles_student_id_key":
		return apperr.Wrap(apperr.Duplicate, "student_id_taken", err)
	case "student_profiles_email_key":
		return apperr.Wrap(apperr.Duplicate, "student_email_taken", err)
	default:
		return apperr.Wrap(apperr.Duplicate, "duplicate_value", err)
	}
}
