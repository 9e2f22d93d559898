package postgres

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/julianstephens/dayglow/internal/models"
	"github.com/julianstephens/dayglow/internal/storage"
)

const checkinColumns = "id, date, ratings, notes, created_at, updated_at, synced_at, remote_id"

func (s *Store) SaveCheckIn(c models.CheckIn) error {
	ratings, err := json.Marshal(c.Ratings)
	if err != nil {
		return fmt.Errorf("failed to encode ratings: %w", err)
	}
	now := s.now().UTC()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	if c.UpdatedAt.IsZero() {
		c.UpdatedAt = now
	}

	var synced sql.NullTime
	if c.SyncedAt != nil {
		synced = sql.NullTime{Time: c.SyncedAt.UTC(), Valid: true}
	}

	_, err = s.db.Exec(`
		INSERT INTO checkins (`+checkinColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (date) DO UPDATE SET
			ratings = EXCLUDED.ratings,
			notes = EXCLUDED.notes,
			updated_at = EXCLUDED.updated_at,
			synced_at = EXCLUDED.synced_at,
			remote_id = CASE WHEN EXCLUDED.remote_id = '' THEN checkins.remote_id ELSE EXCLUDED.remote_id END`,
		c.ID, c.Date, string(ratings), c.Notes, c.CreatedAt.UTC(), c.UpdatedAt.UTC(), synced, c.RemoteID)
	if err != nil {
		return fmt.Errorf("failed to save check-in for %s: %w", c.Date, err)
	}
	return nil
}

func (s *Store) GetCheckIn(date string) (models.CheckIn, error) {
	row := s.db.QueryRow("SELECT "+checkinColumns+" FROM checkins WHERE date = $1", date)
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
		args = append(args, from)
		where = append(where, "date >= $"+strconv.Itoa(len(args)))
	}
	if to != "" {
		args = append(args, to)
		where = append(where, "date <= $"+strconv.Itoa(len(args)))
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
	res, err := s.db.Exec("UPDATE checkins SET synced_at = $1, remote_id = $2 WHERE id = $3", at.UTC(), remoteID, id)
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
		c       models.CheckIn
		ratings []byte
		synced  sql.NullTime
	)
	if err := row.Scan(&c.ID, &c.Date, &ratings, &c.Notes, &c.CreatedAt, &c.UpdatedAt, &synced, &c.RemoteID); err != nil {
		return models.CheckIn{}, err
	}
	if err := json.Unmarshal(ratings, &c.Ratings); err != nil {
		return models.CheckIn{}, fmt.Errorf("failed to decode ratings for %s: %w", c.Date, err)
	}
	if synced.Valid {
		t := synced.Time
		c.SyncedAt = &t
	}
	return c, nil
}
