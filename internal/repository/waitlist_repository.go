package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/restaurant-floor/internal/lifecycle"
	"github.com/iliyamo/restaurant-floor/internal/model"
)

// WaitlistRepo provides persistence for walk-in waitlist entries.  The
// call/seat/cancel transitions are single conditional UPDATEs that stamp
// called_at and seated_at in the same statement as the status change, so each
// timestamp is written exactly once even under concurrent staff actions.
type WaitlistRepo struct {
	db *sql.DB
}

// NewWaitlistRepo constructs a WaitlistRepo with the given DB handle.
func NewWaitlistRepo(db *sql.DB) *WaitlistRepo {
	return &WaitlistRepo{db: db}
}

const waitlistColumns = `id, area_id, user_id, party_size, priority, status, called_at, seated_at, created_at, updated_at`

func scanWaitlist(row interface{ Scan(...any) error }) (*model.WaitlistEntry, error) {
	var e model.WaitlistEntry
	var priority sql.NullInt32
	var called, seated sql.NullTime
	var status string
	err := row.Scan(&e.ID, &e.AreaID, &e.UserID, &e.PartySize, &priority,
		&status, &called, &seated, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if priority.Valid {
		e.Priority = &priority.Int32
	}
	if called.Valid {
		e.CalledAt = &called.Time
	}
	if seated.Valid {
		e.SeatedAt = &seated.Time
	}
	e.Status = lifecycle.WaitlistStatus(status)
	return &e, nil
}

// Create inserts a new WAITING entry and reads the row back.
func (r *WaitlistRepo) Create(ctx context.Context, e *model.WaitlistEntry) error {
	const q = `INSERT INTO waitlist_entries (area_id, user_id, party_size, priority, status)
	           VALUES (?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, e.AreaID, e.UserID, e.PartySize, e.Priority, string(e.Status))
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	e.ID = uint64(id)
	fresh, err := r.GetByID(ctx, e.ID)
	if err != nil {
		return err
	}
	*e = *fresh
	return nil
}

// GetByID retrieves an entry, returning ErrWaitlistNotFound when missing.
func (r *WaitlistRepo) GetByID(ctx context.Context, id uint64) (*model.WaitlistEntry, error) {
	e, err := scanWaitlist(r.db.QueryRowContext(ctx,
		`SELECT `+waitlistColumns+` FROM waitlist_entries WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrWaitlistNotFound
		}
		return nil, err
	}
	return e, nil
}

// Call transitions WAITING -> CALLED and stamps called_at, all in one
// conditional UPDATE.  The false return means the entry was not WAITING.
func (r *WaitlistRepo) Call(ctx context.Context, id uint64) (bool, error) {
	const q = `UPDATE waitlist_entries
	           SET status = 'CALLED', called_at = CURRENT_TIMESTAMP, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ? AND status = 'WAITING' AND called_at IS NULL`
	return r.guarded(ctx, q, id)
}

// Seat transitions CALLED -> SEATED and stamps seated_at.  The false return
// means the entry was not CALLED.
func (r *WaitlistRepo) Seat(ctx context.Context, id uint64) (bool, error) {
	const q = `UPDATE waitlist_entries
	           SET status = 'SEATED', seated_at = CURRENT_TIMESTAMP, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ? AND status = 'CALLED' AND seated_at IS NULL`
	return r.guarded(ctx, q, id)
}

// Cancel transitions WAITING|CALLED -> CANCELLED.  The false return means the
// entry was already terminal.
func (r *WaitlistRepo) Cancel(ctx context.Context, id uint64) (bool, error) {
	const q = `UPDATE waitlist_entries
	           SET status = 'CANCELLED', updated_at = CURRENT_TIMESTAMP
	           WHERE id = ? AND status IN ('WAITING','CALLED')`
	return r.guarded(ctx, q, id)
}

func (r *WaitlistRepo) guarded(ctx context.Context, q string, id uint64) (bool, error) {
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ListActiveByArea returns the WAITING and CALLED entries for an area in
// display order: priority descending with NULLs last, ties and NULLs broken
// by creation time ascending.  The first entry is the next party to call.
func (r *WaitlistRepo) ListActiveByArea(ctx context.Context, areaID uint64) ([]*model.WaitlistEntry, error) {
	const q = `SELECT ` + waitlistColumns + ` FROM waitlist_entries
	           WHERE area_id = ? AND status IN ('WAITING','CALLED')
	           ORDER BY priority DESC, created_at ASC, id ASC`
	rows, err := r.db.QueryContext(ctx, q, areaID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*model.WaitlistEntry, 0)
	for rows.Next() {
		e, err := scanWaitlist(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	// The ORDER BY already yields this order on MySQL; re-sorting in Go keeps
	// the contract independent of how the engine places NULL priorities.
	model.OrderWaitlist(out)
	return out, nil
}
