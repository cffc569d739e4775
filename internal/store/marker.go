package store

import (
	"encoding/json"
	"fmt"
	"time"
)

// RolloverMarker returns the week id of the last recorded rollover.
func (s *Store) RolloverMarker() string {
	var id string
	s.load(CollectionRolloverMarker, &id)
	return id
}

// ClaimRollover records weekID as rolled over unless it already is. The
// check and the write are one statement, so of several processes sharing
// the database exactly one gets claimed=true for a given week.
func (s *Store) ClaimRollover(weekID string) (claimed bool, err error) {
	data, err := json.Marshal(weekID)
	if err != nil {
		return false, fmt.Errorf("marshal rollover marker: %w", err)
	}
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.Exec(
		`INSERT INTO collections (name, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
		 WHERE collections.value <> excluded.value`,
		CollectionRolloverMarker, string(data), now,
	)
	if err != nil {
		return false, fmt.Errorf("claim rollover %q: %w", weekID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("claim rollover %q: %w", weekID, err)
	}
	return n == 1, nil
}
