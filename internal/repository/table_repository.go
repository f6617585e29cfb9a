package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"

	"github.com/iliyamo/restaurant-floor/internal/model"
)

// TableRepo provides persistence for tables, their positions and the derived
// usage telemetry.  Positions are only written through UpdatePosition and
// UpdateMany; booking state never lives on the table row apart from the
// manual `reserved` override.
type TableRepo struct {
	db *sql.DB
}

// NewTableRepo constructs a TableRepo with the given DB handle.
func NewTableRepo(db *sql.DB) *TableRepo {
	return &TableRepo{db: db}
}

const tableColumns = `id, area_id, table_number, diners, pos_x, pos_y, reserved, special_requests, created_at, updated_at`

func scanTable(row interface{ Scan(...any) error }) (*model.Table, error) {
	var t model.Table
	var requests sql.NullString
	err := row.Scan(&t.ID, &t.AreaID, &t.Number, &t.Diners, &t.X, &t.Y,
		&t.Reserved, &requests, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if requests.Valid && requests.String != "" {
		if err := json.Unmarshal([]byte(requests.String), &t.SpecialRequests); err != nil {
			return nil, err
		}
	}
	return &t, nil
}

func marshalRequests(tags []string) (any, error) {
	if len(tags) == 0 {
		return nil, nil
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Create inserts a new table.  The table number must be unique within its
// area; a duplicate maps to ErrConflict.
func (r *TableRepo) Create(ctx context.Context, t *model.Table) error {
	requests, err := marshalRequests(t.SpecialRequests)
	if err != nil {
		return err
	}
	const q = `INSERT INTO tables (area_id, table_number, diners, pos_x, pos_y, reserved, special_requests)
	           VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, t.AreaID, t.Number, t.Diners, t.X, t.Y, t.Reserved, requests)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrConflict
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)
	fresh, err := r.GetByID(ctx, t.ID)
	if err != nil {
		return err
	}
	*t = *fresh
	return nil
}

// GetByID retrieves a table by id, returning ErrTableNotFound when missing.
func (r *TableRepo) GetByID(ctx context.Context, id uint64) (*model.Table, error) {
	t, err := scanTable(r.db.QueryRowContext(ctx, `SELECT `+tableColumns+` FROM tables WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTableNotFound
		}
		return nil, err
	}
	return t, nil
}

// ListByArea returns every table in an area ordered by table number.  The
// position engine consumes this as the pre-interaction table set.
func (r *TableRepo) ListByArea(ctx context.Context, areaID uint64) ([]*model.Table, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+tableColumns+` FROM tables WHERE area_id = ? ORDER BY table_number`, areaID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Table
	for rows.Next() {
		t, err := scanTable(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdatePosition commits a validated move: the table's area and position in a
// single write.  Last write wins; concurrent drags of the same table are not
// detected here.  Returns ErrTableNotFound when the table does not exist.
func (r *TableRepo) UpdatePosition(ctx context.Context, id, areaID uint64, x, y float64) error {
	const q = `UPDATE tables SET area_id = ?, pos_x = ?, pos_y = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, areaID, x, y, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

// TablePatch carries the optional fields of one item in a bulk table update.
// Nil fields are left untouched.
type TablePatch struct {
	ID              uint64
	AreaID          *uint64
	X               *float64
	Y               *float64
	Diners          *uint32
	Reserved        *bool
	SpecialRequests []string
	HasRequests     bool
	Number          *uint32
}

// UpdateMany applies a batch of table patches inside one transaction.  Each
// patch is applied independently; a missing table fails the whole batch with
// ErrTableNotFound so the caller never half-applies a bulk edit.
func (r *TableRepo) UpdateMany(ctx context.Context, patches []TablePatch) error {
	if len(patches) == 0 {
		return nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, p := range patches {
		set := make([]string, 0, 7)
		args := make([]any, 0, 8)
		if p.AreaID != nil {
			set = append(set, "area_id = ?")
			args = append(args, *p.AreaID)
		}
		if p.X != nil {
			set = append(set, "pos_x = ?")
			args = append(args, *p.X)
		}
		if p.Y != nil {
			set = append(set, "pos_y = ?")
			args = append(args, *p.Y)
		}
		if p.Diners != nil {
			set = append(set, "diners = ?")
			args = append(args, *p.Diners)
		}
		if p.Reserved != nil {
			set = append(set, "reserved = ?")
			args = append(args, *p.Reserved)
		}
		if p.Number != nil {
			set = append(set, "table_number = ?")
			args = append(args, *p.Number)
		}
		if p.HasRequests {
			requests, err := marshalRequests(p.SpecialRequests)
			if err != nil {
				return err
			}
			set = append(set, "special_requests = ?")
			args = append(args, requests)
		}
		if len(set) == 0 {
			continue
		}
		set = append(set, "updated_at = CURRENT_TIMESTAMP")
		args = append(args, p.ID)
		q := "UPDATE tables SET " + strings.Join(set, ", ") + " WHERE id = ?"
		res, err := tx.ExecContext(ctx, q, args...)
		if err != nil {
			if strings.Contains(strings.ToLower(err.Error()), "1062") {
				return ErrConflict
			}
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			var exists int
			if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM tables WHERE id = ?`, p.ID).Scan(&exists); err != nil {
				return err
			}
			if exists == 0 {
				return ErrTableNotFound
			}
		}
	}
	return tx.Commit()
}

// SetReserved flips the manual reservation override flag.  This flag is
// independent of Reservation rows; it exists for staff to block a table on
// the spot.  Returns ErrTableNotFound when the table does not exist.
func (r *TableRepo) SetReserved(ctx context.Context, id uint64, reserved bool) error {
	const q = `UPDATE tables SET reserved = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, reserved, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

// IncrementUsage bumps the usage counter for a table and stamps the time.
// Called whenever an occupancy cycle completes (reservation completed or a
// waitlist party seated).
func (r *TableRepo) IncrementUsage(ctx context.Context, tableID uint64) error {
	const q = `INSERT INTO table_usage (table_id, usage_count, last_used_at)
	           VALUES (?, 1, CURRENT_TIMESTAMP)
	           ON DUPLICATE KEY UPDATE usage_count = usage_count + 1, last_used_at = CURRENT_TIMESTAMP`
	_, err := r.db.ExecContext(ctx, q, tableID)
	return err
}

// GetUsage returns the usage telemetry for a table.  A table that has never
// completed a cycle yields a zero-count row rather than an error.
func (r *TableRepo) GetUsage(ctx context.Context, tableID uint64) (*model.TableUsage, error) {
	var u model.TableUsage
	var last sql.NullTime
	err := r.db.QueryRowContext(ctx,
		`SELECT table_id, usage_count, last_used_at FROM table_usage WHERE table_id = ?`, tableID).
		Scan(&u.TableID, &u.UsageCount, &last)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &model.TableUsage{TableID: tableID}, nil
		}
		return nil, err
	}
	if last.Valid {
		u.LastUsedAt = &last.Time
	}
	return &u, nil
}
