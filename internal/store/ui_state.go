package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const uiStateDBName = "ui_state.sqlite"

// UI state (collapse sets, last open position, recent files) lives in a
// SQLite sidecar, never inside the documents themselves: editing a file on
// one machine must not churn another machine's view state. All readers are
// best-effort and return empty state on any failure.

func (s Store) openUIState(ctx context.Context) (*sql.DB, error) {
	if err := s.Ensure(); err != nil {
		return nil, err
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", s.uiStatePath())
	if err != nil {
		return nil, err
	}
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA synchronous=NORMAL;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := migrateUIState(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func (s Store) uiStatePath() string {
	return filepath.Join(s.Dir, uiStateDBName)
}

func migrateUIState(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS ui_meta (
			k TEXT PRIMARY KEY,
			v TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS collapse_state (
			checklist_id TEXT PRIMARY KEY,
			item_ids_json TEXT NOT NULL,
			updated_at_unixms INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS recent_files (
			name TEXT PRIMARY KEY,
			last_opened_unixns INTEGER NOT NULL
		);`,
	}
	for _, st := range stmts {
		if _, err := db.ExecContext(ctx, st); err != nil {
			return err
		}
	}
	return nil
}

// SaveCollapseState stores the collapsed item ids of one checklist. An empty
// set deletes the row.
func (s Store) SaveCollapseState(ctx context.Context, checklistID string, itemIDs []string) error {
	db, err := s.openUIState(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	if len(itemIDs) == 0 {
		_, err := db.ExecContext(ctx, `DELETE FROM collapse_state WHERE checklist_id = ?`, checklistID)
		return err
	}
	raw, err := json.Marshal(itemIDs)
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx,
		`INSERT OR REPLACE INTO collapse_state(checklist_id, item_ids_json, updated_at_unixms) VALUES(?, ?, ?)`,
		checklistID, string(raw), time.Now().UTC().UnixMilli())
	return err
}

// LoadCollapseState returns the stored collapse sets keyed by checklist id.
// Missing or unreadable state yields an empty map, never an error the caller
// has to act on.
func (s Store) LoadCollapseState(ctx context.Context) map[string][]string {
	out := map[string][]string{}
	db, err := s.openUIState(ctx)
	if err != nil {
		return out
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, `SELECT checklist_id, item_ids_json FROM collapse_state`)
	if err != nil {
		return out
	}
	defer rows.Close()
	for rows.Next() {
		var id, raw string
		if err := rows.Scan(&id, &raw); err != nil {
			continue
		}
		var ids []string
		if err := json.Unmarshal([]byte(raw), &ids); err != nil {
			continue
		}
		out[id] = ids
	}
	return out
}

// SetLastPosition remembers which checklist of which file was open.
func (s Store) SetLastPosition(ctx context.Context, fileName, checklistID string) error {
	db, err := s.openUIState(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	for k, v := range map[string]string{
		"last_file":      strings.TrimSpace(fileName),
		"last_checklist": strings.TrimSpace(checklistID),
	} {
		if _, err := db.ExecContext(ctx, `INSERT OR REPLACE INTO ui_meta(k, v) VALUES(?, ?)`, k, v); err != nil {
			return err
		}
	}
	return nil
}

func (s Store) LastPosition(ctx context.Context) (fileName, checklistID string) {
	db, err := s.openUIState(ctx)
	if err != nil {
		return "", ""
	}
	defer db.Close()

	read := func(k string) string {
		var v string
		_ = db.QueryRowContext(ctx, `SELECT v FROM ui_meta WHERE k = ?`, k).Scan(&v)
		return strings.TrimSpace(v)
	}
	return read("last_file"), read("last_checklist")
}

// TouchRecentFile bumps a file to the top of the recent list.
func (s Store) TouchRecentFile(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	db, err := s.openUIState(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	// Nanosecond resolution keeps rapid consecutive touches ordered.
	_, err = db.ExecContext(ctx,
		`INSERT OR REPLACE INTO recent_files(name, last_opened_unixns) VALUES(?, ?)`,
		name, time.Now().UTC().UnixNano())
	return err
}

// RecentFiles returns recently opened file names, newest first.
func (s Store) RecentFiles(ctx context.Context, limit int) []string {
	db, err := s.openUIState(ctx)
	if err != nil {
		return nil
	}
	defer db.Close()

	q := `SELECT name FROM recent_files ORDER BY last_opened_unixns DESC`
	var rows *sql.Rows
	if limit > 0 {
		rows, err = db.QueryContext(ctx, q+` LIMIT ?`, limit)
	} else {
		rows, err = db.QueryContext(ctx, q)
	}
	if err != nil {
		return nil
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			continue
		}
		out = append(out, name)
	}
	return out
}
