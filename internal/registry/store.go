// Package registry is a SQLite-backed installed-application registry. On the
// console the registry is a platform service; this store stands in for it on
// development hosts and lets operators seed applications from the CLI.
package registry

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/battlewithbytes/homemenu/internal/platform"
)

// Store persists application records, meta status and control metadata.
type Store struct {
	db *sql.DB
}

var _ platform.Registry = (*Store)(nil)

// NewStore opens (or creates) the SQLite database at the given path.
func NewStore(dbPath string) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(10000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)", dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating database: %w", err)
	}

	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS applications (
			position    INTEGER PRIMARY KEY AUTOINCREMENT,
			app_id      INTEGER NOT NULL UNIQUE,
			type        INTEGER NOT NULL DEFAULT 0,
			meta_type   INTEGER NOT NULL DEFAULT 0,
			storage_id  INTEGER NOT NULL DEFAULT 0,
			version     INTEGER NOT NULL DEFAULT 0,
			created_at  TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS control (
			app_id             INTEGER PRIMARY KEY,
			display_version    TEXT NOT NULL DEFAULT '',
			preferred_language INTEGER NOT NULL DEFAULT -1,
			FOREIGN KEY (app_id) REFERENCES applications(app_id) ON DELETE CASCADE
		);

		CREATE TABLE IF NOT EXISTS control_titles (
			app_id   INTEGER NOT NULL,
			language INTEGER NOT NULL,
			name     TEXT NOT NULL DEFAULT '',
			author   TEXT NOT NULL DEFAULT '',
			PRIMARY KEY (app_id, language),
			FOREIGN KEY (app_id) REFERENCES applications(app_id) ON DELETE CASCADE
		);
	`)
	return err
}

// PutApplication inserts an application, or updates its type if it is
// already present. Re-inserting keeps the original list position.
func (s *Store) PutApplication(rec platform.ApplicationRecord) error {
	_, err := s.db.Exec(`
		INSERT INTO applications (app_id, type, created_at) VALUES (?, ?, ?)
		ON CONFLICT(app_id) DO UPDATE SET type=excluded.type`,
		int64(rec.ID), rec.Type, time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// SetMetaStatus updates the content-meta status of an installed application.
func (s *Store) SetMetaStatus(appID uint64, st platform.MetaStatus) error {
	res, err := s.db.Exec(`UPDATE applications SET meta_type=?, storage_id=?, version=? WHERE app_id=?`,
		st.MetaType, st.StorageID, st.Version, int64(appID))
	if err != nil {
		return err
	}
	return requireRow(res)
}

// SetControlMetadata replaces the localized metadata of an installed application.
func (s *Store) SetControlMetadata(appID uint64, meta *platform.ControlMetadata) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var n int
	if err := tx.QueryRow(`SELECT COUNT(*) FROM applications WHERE app_id=?`, int64(appID)).Scan(&n); err != nil {
		return err
	}
	if n == 0 {
		return platform.ErrNotFound
	}

	if _, err := tx.Exec(`
		INSERT INTO control (app_id, display_version, preferred_language) VALUES (?, ?, ?)
		ON CONFLICT(app_id) DO UPDATE SET display_version=excluded.display_version, preferred_language=excluded.preferred_language`,
		int64(appID), meta.DisplayVersion, meta.PreferredLanguage); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM control_titles WHERE app_id=?`, int64(appID)); err != nil {
		return err
	}
	for lang, t := range meta.Titles {
		if t.Name == "" && t.Author == "" {
			continue
		}
		if _, err := tx.Exec(`INSERT INTO control_titles (app_id, language, name, author) VALUES (?, ?, ?, ?)`,
			int64(appID), lang, t.Name, t.Author); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// DeleteApplication removes an application and its metadata.
func (s *Store) DeleteApplication(appID uint64) error {
	res, err := s.db.Exec(`DELETE FROM applications WHERE app_id=?`, int64(appID))
	if err != nil {
		return err
	}
	return requireRow(res)
}

// ListApplicationRecords returns installed applications in insertion order.
func (s *Store) ListApplicationRecords() ([]platform.ApplicationRecord, error) {
	rows, err := s.db.Query(`SELECT app_id, type FROM applications ORDER BY position ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []platform.ApplicationRecord
	for rows.Next() {
		var id int64
		var rec platform.ApplicationRecord
		if err := rows.Scan(&id, &rec.Type); err != nil {
			return nil, err
		}
		rec.ID = uint64(id)
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

// GetApplicationMetaStatus returns the content-meta status of an application.
func (s *Store) GetApplicationMetaStatus(appID uint64) (platform.MetaStatus, error) {
	var st platform.MetaStatus
	err := s.db.QueryRow(`SELECT meta_type, storage_id, version FROM applications WHERE app_id=?`, int64(appID)).
		Scan(&st.MetaType, &st.StorageID, &st.Version)
	if errors.Is(err, sql.ErrNoRows) {
		return st, platform.ErrNotFound
	}
	return st, err
}

// GetApplicationControlMetadata returns the localized metadata of an application.
func (s *Store) GetApplicationControlMetadata(appID uint64) (*platform.ControlMetadata, error) {
	meta := &platform.ControlMetadata{}
	err := s.db.QueryRow(`SELECT display_version, preferred_language FROM control WHERE app_id=?`, int64(appID)).
		Scan(&meta.DisplayVersion, &meta.PreferredLanguage)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, platform.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(`SELECT language, name, author FROM control_titles WHERE app_id=?`, int64(appID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var lang int
		var t platform.Title
		if err := rows.Scan(&lang, &t.Name, &t.Author); err != nil {
			return nil, err
		}
		if lang >= 0 && lang < platform.LanguageCount {
			meta.Titles[lang] = t
		}
	}
	return meta, rows.Err()
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return platform.ErrNotFound
	}
	return nil
}
