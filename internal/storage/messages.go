package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/upaylabs/fraudwatch/internal/common"
	"github.com/upaylabs/fraudwatch/internal/model"
)

// Insert creates a status=new record and returns its identifier.
func (s *SQLiteStore) Insert(ctx context.Context, source model.Source, message string, afterHours bool) (int64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if err := validateString(message, "message"); err != nil {
		return 0, err
	}

	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO messages (source, message, after_hours, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		string(source), message, afterHours, string(model.StatusNew), now, now)
	if err != nil {
		return 0, fmt.Errorf("failed to insert message: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read inserted id: %w", err)
	}

	slog.Info("Inserted new message", "id", id, "source", source)
	return id, nil
}

// FindUnprocessed returns up to limit records that are status=new or missing
// a result, ordered by creation time ascending.
func (s *SQLiteStore) FindUnprocessed(ctx context.Context, limit int) ([]model.Record, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, source, message, after_hours, status, result, meta, error, created_at, updated_at
		 FROM messages
		 WHERE status = ? OR result IS NULL
		 ORDER BY created_at ASC, id ASC
		 LIMIT ?`,
		string(model.StatusNew), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query unprocessed messages: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []model.Record
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate unprocessed messages: %w", err)
	}

	return records, nil
}

// UpdateResult marks a record processed with its final label and meta.
func (s *SQLiteStore) UpdateResult(ctx context.Context, id int64, label model.Label, meta map[string]any) (bool, error) {
	if err := validateContext(ctx); err != nil {
		return false, err
	}

	metaJSON, err := marshalMeta(meta)
	if err != nil {
		return false, err
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE messages SET result = ?, status = ?, meta = ?, updated_at = ? WHERE id = ?`,
		string(label), string(model.StatusProcessed), metaJSON, time.Now().UTC(), id)
	if err != nil {
		return false, fmt.Errorf("failed to update result for message %d: %w", id, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}

	slog.Info("Updated result", "id", id, "result", label)
	return affected > 0, nil
}

// MarkError marks a record as failed. Best-effort: failures are logged, not
// returned.
func (s *SQLiteStore) MarkError(ctx context.Context, id int64, errMsg string) {
	_, err := s.db.ExecContext(ctx,
		`UPDATE messages SET status = ?, error = ?, updated_at = ? WHERE id = ?`,
		string(model.StatusError), errMsg, time.Now().UTC(), id)
	if err != nil {
		slog.Error("Mark error failed", "id", id, "error", err)
	}
}

// GetByID fetches a single record.
func (s *SQLiteStore) GetByID(ctx context.Context, id int64) (*model.Record, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT id, source, message, after_hours, status, result, meta, error, created_at, updated_at
		 FROM messages WHERE id = ?`, id)

	record, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("message %d: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return record, nil
}

// scanner abstracts *sql.Row and *sql.Rows for scanRecord.
type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(sc scanner) (*model.Record, error) {
	var r model.Record
	var result, meta, errMsg sql.NullString

	if err := sc.Scan(&r.ID, &r.Source, &r.Message, &r.AfterHours, &r.Status,
		&result, &meta, &errMsg, &r.CreatedAt, &r.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan message: %w", err)
	}

	if result.Valid {
		r.Result = model.Label(result.String)
	}
	if errMsg.Valid {
		r.Error = errMsg.String
	}
	if meta.Valid && meta.String != "" {
		if err := json.Unmarshal([]byte(meta.String), &r.Meta); err != nil {
			return nil, fmt.Errorf("failed to decode meta for message %d: %w", r.ID, err)
		}
	}

	return &r, nil
}

func marshalMeta(meta map[string]any) (sql.NullString, error) {
	if meta == nil {
		return sql.NullString{}, nil
	}
	b, err := json.Marshal(meta)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("failed to encode meta: %w", err)
	}
	return sql.NullString{String: string(b), Valid: true}, nil
}
