package store

import (
	"database/sql"
	"time"
)

// Session records one capture session and its crop geometry.
type Session struct {
	ID           string
	SourceWidth  int
	SourceHeight int
	CropWidth    int
	CropHeight   int
	Mode         string
	StartedAt    time.Time
	StoppedAt    *time.Time
}

// SessionRepository provides operations for session records.
type SessionRepository struct {
	db *sql.DB
}

// Sessions returns the session repository for this store.
func (s *Store) Sessions() *SessionRepository {
	return &SessionRepository{db: s.db}
}

// Create inserts a new session record at its start time.
func (r *SessionRepository) Create(sess *Session) error {
	sess.StartedAt = time.Now()

	_, err := r.db.Exec(
		`INSERT INTO sessions (id, source_width, source_height, crop_width, crop_height, mode, started_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		sess.ID, sess.SourceWidth, sess.SourceHeight, sess.CropWidth, sess.CropHeight,
		sess.Mode, sess.StartedAt,
	)
	return err
}

// End marks a session as stopped, recording the final tracking mode.
func (r *SessionRepository) End(id, mode string) error {
	now := time.Now()

	result, err := r.db.Exec(
		`UPDATE sessions SET stopped_at = ?, mode = ? WHERE id = ? AND stopped_at IS NULL`,
		now, mode, id,
	)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}

// GetByID retrieves a session by its ID.
func (r *SessionRepository) GetByID(id string) (*Session, error) {
	sess := &Session{}
	var stopped sql.NullTime

	err := r.db.QueryRow(
		`SELECT id, source_width, source_height, crop_width, crop_height, mode, started_at, stopped_at
		 FROM sessions WHERE id = ?`,
		id,
	).Scan(&sess.ID, &sess.SourceWidth, &sess.SourceHeight, &sess.CropWidth, &sess.CropHeight,
		&sess.Mode, &sess.StartedAt, &stopped)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if stopped.Valid {
		sess.StoppedAt = &stopped.Time
	}

	return sess, nil
}

// List returns all sessions, most recent first.
func (r *SessionRepository) List() ([]*Session, error) {
	rows, err := r.db.Query(
		`SELECT id, source_width, source_height, crop_width, crop_height, mode, started_at, stopped_at
		 FROM sessions ORDER BY started_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*Session
	for rows.Next() {
		sess := &Session{}
		var stopped sql.NullTime
		if err := rows.Scan(&sess.ID, &sess.SourceWidth, &sess.SourceHeight, &sess.CropWidth,
			&sess.CropHeight, &sess.Mode, &sess.StartedAt, &stopped); err != nil {
			return nil, err
		}
		if stopped.Valid {
			sess.StoppedAt = &stopped.Time
		}
		sessions = append(sessions, sess)
	}

	return sessions, rows.Err()
}
