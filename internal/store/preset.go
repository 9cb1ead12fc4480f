package store

import (
	"database/sql"
	"errors"
	"time"

	"github.com/ayusman/reframe/internal/track"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// Preset is a named tracking tuning profile.
type Preset struct {
	ID              string
	Name            string
	MotionThreshold int
	SceneRatio      float64
	MotionFloor     float64
	JitterPx        float64
	EdgeBufferPx    float64
	EdgeDwellMs     int
	Smoothing       float64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Tuning converts the preset into engine tuning, filling in the
// parameters presets do not cover from the defaults.
func (p *Preset) Tuning() track.Tuning {
	t := track.DefaultTuning()
	t.MotionThreshold = p.MotionThreshold
	t.SceneRatio = p.SceneRatio
	t.MotionFloor = p.MotionFloor
	t.JitterPx = p.JitterPx
	t.EdgeBufferPx = p.EdgeBufferPx
	t.EdgeDwell = time.Duration(p.EdgeDwellMs) * time.Millisecond
	t.AutoAlpha = p.Smoothing
	return t
}

// PresetFromTuning builds an unsaved preset carrying the given tuning.
func PresetFromTuning(name string, t track.Tuning) *Preset {
	return &Preset{
		Name:            name,
		MotionThreshold: t.MotionThreshold,
		SceneRatio:      t.SceneRatio,
		MotionFloor:     t.MotionFloor,
		JitterPx:        t.JitterPx,
		EdgeBufferPx:    t.EdgeBufferPx,
		EdgeDwellMs:     int(t.EdgeDwell / time.Millisecond),
		Smoothing:       t.AutoAlpha,
	}
}

// PresetRepository provides CRUD operations for presets.
type PresetRepository struct {
	db *sql.DB
}

// Presets returns the preset repository for this store.
func (s *Store) Presets() *PresetRepository {
	return &PresetRepository{db: s.db}
}

// Create inserts a new preset into the database.
func (r *PresetRepository) Create(p *Preset) error {
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now

	_, err := r.db.Exec(
		`INSERT INTO presets (id, name, motion_threshold, scene_ratio, motion_floor,
		 jitter_px, edge_buffer_px, edge_dwell_ms, smoothing, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.MotionThreshold, p.SceneRatio, p.MotionFloor,
		p.JitterPx, p.EdgeBufferPx, p.EdgeDwellMs, p.Smoothing, p.CreatedAt, p.UpdatedAt,
	)
	return err
}

// GetByID retrieves a preset by its ID.
func (r *PresetRepository) GetByID(id string) (*Preset, error) {
	p := &Preset{}

	err := r.db.QueryRow(
		`SELECT id, name, motion_threshold, scene_ratio, motion_floor,
		 jitter_px, edge_buffer_px, edge_dwell_ms, smoothing, created_at, updated_at
		 FROM presets WHERE id = ?`,
		id,
	).Scan(&p.ID, &p.Name, &p.MotionThreshold, &p.SceneRatio, &p.MotionFloor,
		&p.JitterPx, &p.EdgeBufferPx, &p.EdgeDwellMs, &p.Smoothing, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return p, nil
}

// List returns all presets ordered by name.
func (r *PresetRepository) List() ([]*Preset, error) {
	rows, err := r.db.Query(
		`SELECT id, name, motion_threshold, scene_ratio, motion_floor,
		 jitter_px, edge_buffer_px, edge_dwell_ms, smoothing, created_at, updated_at
		 FROM presets ORDER BY name`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var presets []*Preset
	for rows.Next() {
		p := &Preset{}
		if err := rows.Scan(&p.ID, &p.Name, &p.MotionThreshold, &p.SceneRatio, &p.MotionFloor,
			&p.JitterPx, &p.EdgeBufferPx, &p.EdgeDwellMs, &p.Smoothing, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		presets = append(presets, p)
	}

	return presets, rows.Err()
}

// Update modifies an existing preset's tuning fields.
func (r *PresetRepository) Update(p *Preset) error {
	p.UpdatedAt = time.Now()

	result, err := r.db.Exec(
		`UPDATE presets SET name = ?, motion_threshold = ?, scene_ratio = ?,
		 motion_floor = ?, jitter_px = ?, edge_buffer_px = ?, edge_dwell_ms = ?,
		 smoothing = ?, updated_at = ? WHERE id = ?`,
		p.Name, p.MotionThreshold, p.SceneRatio, p.MotionFloor,
		p.JitterPx, p.EdgeBufferPx, p.EdgeDwellMs, p.Smoothing, p.UpdatedAt, p.ID,
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

// Delete removes a preset by ID.
func (r *PresetRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM presets WHERE id = ?`, id)
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
