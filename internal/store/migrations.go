package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Presets table - stores named tracking tuning profiles
		`CREATE TABLE IF NOT EXISTS presets (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			motion_threshold INTEGER NOT NULL DEFAULT 15,
			scene_ratio REAL NOT NULL DEFAULT 0.15,
			motion_floor REAL NOT NULL DEFAULT 0.00005,
			jitter_px REAL NOT NULL DEFAULT 5,
			edge_buffer_px REAL NOT NULL DEFAULT 50,
			edge_dwell_ms INTEGER NOT NULL DEFAULT 3000,
			smoothing REAL NOT NULL DEFAULT 0.25,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Sessions table - records each capture session and its crop geometry
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			source_width INTEGER NOT NULL,
			source_height INTEGER NOT NULL,
			crop_width INTEGER NOT NULL,
			crop_height INTEGER NOT NULL,
			mode TEXT NOT NULL DEFAULT 'auto',
			started_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			stopped_at DATETIME
		)`,

		// Settings table - stores application settings as key-value pairs
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
