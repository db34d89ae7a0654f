package journal

import (
	"database/sql"
	"fmt"
)

const eventColumns = `id, batch, at, op, path, target, outcome, bytes, is_dir, error_kind, error_code, error`

// Recent returns the limit most recent events, newest first.
func (j *Journal) Recent(limit int) ([]Record, error) {
	return j.queryEvents(`SELECT `+eventColumns+` FROM events ORDER BY id DESC LIMIT ?`, limit)
}

// Batch returns the events of one batch in the order they happened.
func (j *Journal) Batch(id string) ([]Record, error) {
	return j.queryEvents(`SELECT `+eventColumns+` FROM events WHERE batch = ? ORDER BY id`, id)
}

// Decisions returns the answered prompts of one batch in order.
func (j *Journal) Decisions(batch string) ([]Decision, error) {
	rows, err := j.db.Query(`
	SELECT id, batch, at, op, path, kind, code, hint, decision
	FROM decisions WHERE batch = ? ORDER BY id`, batch)
	if err != nil {
		return nil, fmt.Errorf("querying decisions: %w", err)
	}
	defer rows.Close()

	var out []Decision
	for rows.Next() {
		var d Decision
		if err := rows.Scan(&d.ID, &d.Batch, &d.At, &d.Op, &d.Path, &d.Kind, &d.Code, &d.Hint, &d.Decision); err != nil {
			return nil, fmt.Errorf("scanning decision: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (j *Journal) queryEvents(query string, args ...interface{}) ([]Record, error) {
	rows, err := j.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying events: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var r Record
		var target, kind, msg sql.NullString
		var code sql.NullInt64
		if err := rows.Scan(&r.ID, &r.Batch, &r.At, &r.Op, &r.Path, &target, &r.Outcome,
			&r.Bytes, &r.IsDir, &kind, &code, &msg); err != nil {
			return nil, fmt.Errorf("scanning event: %w", err)
		}
		r.Target = target.String
		r.ErrorKind = kind.String
		r.ErrorCode = int(code.Int64)
		r.Error = msg.String
		out = append(out, r)
	}
	return out, rows.Err()
}
