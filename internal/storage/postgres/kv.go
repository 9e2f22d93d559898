package postgres

import (
	"database/sql"
	"errors"

	"github.com/julianstephens/dayglow/internal/storage"
)

func (s *Store) GetValue(key storage.Key) (string, error) {
	if err := key.Validate(); err != nil {
		return "", err
	}
	var value string
	err := s.db.QueryRow("SELECT value FROM kv WHERE key = $1", string(key)).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", storage.ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

func (s *Store) SetValue(key storage.Key, value string) error {
	if err := key.Validate(); err != nil {
		return err
	}
	version, _ := key.Version()
	_, err := s.db.Exec(`
		INSERT INTO kv (key, value, schema_version, updated_at) VALUES ($1, $2, $3, $4)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, schema_version = EXCLUDED.schema_version, updated_at = EXCLUDED.updated_at`,
		string(key), value, version, s.now().UTC())
	return err
}

func (s *Store) DeleteValue(key storage.Key) error {
	res, err := s.db.Exec("DELETE FROM kv WHERE key = $1", string(key))
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Store) ListValues() (map[storage.Key]string, error) {
	rows, err := s.db.Query("SELECT key, value FROM kv ORDER BY key")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[storage.Key]string{}
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		out[storage.Key(key)] = value
	}
	return out, rows.Err()
}
