package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/dayglow/internal/models"
	"github.com/julianstephens/dayglow/internal/storage"
)

const checkinColumns = "id, date, ratings, notes, created_at, updated_at, synced_at, remote_id"

// SaveCheckIn upserts by date. Re-saving a day clears its sync timestamp so the
// new values are pushed again; the remote id is kept so the push updates.
func (s *Store) SaveCheckIn(c models.CheckIn) error {
	ratings, err := json.Marshal(c.Ratings)
	if err != nil {
		return fmt.Errorf("failed to encode ratings: %w", err)
	}
	now := s.now()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	if c.UpdatedAt.IsZero() {
		c.UpdatedAt = now
	}

	var synced sql.NullString
	if c.SyncedAt != nil {
		synced = sql.NullString{String: formatTime(*c.SyncedAt), Valid: true}
	}

	_, err = s.db.Exec(`
		INSERT INTO checkins (`+checkinColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(date) DO UPDATE SET
			ratings = excluded.ratings,
			notes = excluded.notes,
			updated_at = excluded.updated_at,
			synced_at = excluded.synced_at,
			remote_id = CASE WHEN excluded.remote_id = '' THEN checkins.remote_id ELSE excluded.remote_id END`,
		c.ID, c.Date, string(ratings), c.Notes,
		formatTime(c.CreatedAt), formatTime(c.UpdatedAt), synced, c.RemoteID)
	if err != nil {
		return fmt.Errorf("failed to save check-in for %s: %w", c.Date, err)
	}
	return nil
}

func (s *Store) GetCheckIn(date string) (models.CheckIn, error) {
	row := s.db.QueryRow("SELECT "+checkinColumns+" FROM checkins WHERE date = ?", date)
	c, err := scanCheckIn(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.CheckIn{}, storage.ErrNotFound
	}
	return c, err
}

func (s *Store) ListCheckIns(from, to string) ([]models.CheckIn, error) {
	var (
		where []string
		args  []any
	)
	if from != "" {
		where = append(where, "date >= ?")
		args = append(args, from)
	}
	if to != "" {
		where = append(where, "date <= ?")
		args = append(args, to)
	}
	query := "SELECT " + checkinColumns + " FROM checkins"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY date"
	return s.queryCheckIns(query, args...)
}

func (s *Store) ListUnsyncedCheckIns() ([]models.CheckIn, error) {
	return s.queryCheckIns("SELECT " + checkinColumns + " FROM checkins WHERE synced_at IS NULL ORDER BY date")
}

func (s *Store) MarkCheckInSynced(id, remoteID string, at time.Time) error {
	res, err := s.db.Exec("UPDATE checkins SET synced_at = ?, remote_id = ? WHERE id = ?",
		formatTime(at), remoteID, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Store) queryCheckIns(query string, args ...any) ([]models.CheckIn, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.CheckIn
	for rows.Next() {
		c, err := scanCheckIn(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCheckIn(row scanner) (models.CheckIn, error) {
	var (
		c                models.CheckIn
		ratings          string
		created, updated string
		synced           sql.NullString
	)
	if err := row.Scan(&c.ID, &c.Date, &ratings, &c.Notes, &created, &updated, &synced, &c.RemoteID); err != nil {
		return models.CheckIn{}, err
	}
	if err := json.Unmarshal([]byte(ratings), &c.Ratings); err != nil {
		return models.CheckIn{}, fmt.Errorf("failed to decode ratings for %s: %w", c.Date, err)
	}
	var err error
	if c.CreatedAt, err = parseTime(created); err != nil {
		return models.CheckIn{}, err
	}
	if c.UpdatedAt, err = parseTime(updated); err != nil {
		return models.CheckIn{}, err
	}
	if synced.Valid {
		t, err := parseTime(synced.String)
		if err != nil {
			return models.CheckIn{}, err
		}
		c.SyncedAt = &t
	}
	return c, nil
}
