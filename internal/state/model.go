package state

import (
	"database/sql"
	"time"
)

// SaveModel stores the serialized classifier model, replacing any
// previous one.
func (m *Manager) SaveModel(model []byte, trainedAt time.Time) error {
	_, err := m.db.Exec(`
		INSERT INTO classifier_model (id, trained_at, model)
		VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			trained_at = excluded.trained_at,
			model = excluded.model
	`, trainedAt.Unix(), model)
	return err
}

// GetModel returns the stored classifier model, or nil if none has been
// trained yet.
func (m *Manager) GetModel() ([]byte, time.Time, error) {
	var model []byte
	var trainedAt int64

	row := m.db.QueryRow(`SELECT model, trained_at FROM classifier_model WHERE id = 1`)
	err := row.Scan(&model, &trainedAt)
	if err == sql.ErrNoRows {
		return nil, time.Time{}, nil
	}
	if err != nil {
		return nil, time.Time{}, err
	}
	return model, time.Unix(trainedAt, 0), nil
}
