package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Collection names. Each is read and written as one whole JSON value.
const (
	CollectionTasks            = "tasks"
	CollectionPomodoroSettings = "pomodoro-settings"
	CollectionPomodoroCount    = "pomodoro-count"
	CollectionWeeklyScores     = "weekly-scores"
	CollectionRolloverMarker   = "rollover-marker"
)

// getRaw returns the stored document for name, or ok=false when absent.
func (s *Store) getRaw(name string) (value string, ok bool, err error) {
	err = s.db.QueryRow(`SELECT value FROM collections WHERE name = ?`, name).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get collection %q: %w", name, err)
	}
	return value, true, nil
}

func (s *Store) setRaw(name, value string) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(
		`INSERT INTO collections (name, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		name, value, now,
	)
	if err != nil {
		return fmt.Errorf("set collection %q: %w", name, err)
	}
	return nil
}

// load decodes the named collection into dst. dst must already hold the
// default; it is left untouched (and false returned) when the value is
// missing or malformed. Malformed data is logged, never returned.
func (s *Store) load(name string, dst any) bool {
	raw, ok, err := s.getRaw(name)
	if err != nil {
		s.log.Warnw("read collection failed, using default", "collection", name, "error", err)
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		s.log.Warnw("malformed collection, using default", "collection", name, "error", err)
		return false
	}
	return true
}

func (s *Store) save(name string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal collection %q: %w", name, err)
	}
	return s.setRaw(name, string(data))
}
