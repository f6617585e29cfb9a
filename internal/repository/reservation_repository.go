package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/iliyamo/restaurant-floor/internal/lifecycle"
	"github.com/iliyamo/restaurant-floor/internal/model"
)

// ReservationRepo provides persistence for table reservations.  Status
// transitions go through UpdateStatusGuarded, which folds the state guard and
// the write into one conditional UPDATE so that two racing transitions can
// never both succeed.  All timestamp fields are stored in UTC.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

const reservationColumns = `id, table_id, user_id, guest_name, reservation_time, party_size, status, created_by, creator_role, created_at, updated_at`

func scanReservation(row interface{ Scan(...any) error }) (*model.Reservation, error) {
	var res model.Reservation
	var guest sql.NullString
	var status, role string
	err := row.Scan(&res.ID, &res.TableID, &res.UserID, &guest, &res.ReservationTime,
		&res.PartySize, &status, &res.CreatedBy, &role, &res.CreatedAt, &res.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if guest.Valid {
		res.GuestName = &guest.String
	}
	res.Status = lifecycle.ReservationStatus(status)
	res.CreatorRole = lifecycle.Role(role)
	return &res, nil
}

// Create inserts a new PENDING reservation and reads the row back to populate
// timestamps and defaults.
func (r *ReservationRepo) Create(ctx context.Context, res *model.Reservation) error {
	const q = `INSERT INTO reservations (table_id, user_id, guest_name, reservation_time, party_size, status, created_by, creator_role)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	result, err := r.db.ExecContext(ctx, q, res.TableID, res.UserID, res.GuestName,
		res.ReservationTime.UTC(), res.PartySize, string(res.Status), res.CreatedBy, string(res.CreatorRole))
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	res.ID = uint64(id)
	fresh, err := r.GetByID(ctx, res.ID)
	if err != nil {
		return err
	}
	*res = *fresh
	return nil
}

// GetByID retrieves a reservation, returning ErrReservationNotFound when the
// id is unknown.
func (r *ReservationRepo) GetByID(ctx context.Context, id uint64) (*model.Reservation, error) {
	res, err := scanReservation(r.db.QueryRowContext(ctx,
		`SELECT `+reservationColumns+` FROM reservations WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	return res, nil
}

// UpdateStatusGuarded transitions a reservation to `to` only if its current
// status is one of `from`.  Guard and write are a single conditional UPDATE;
// the false return means the row was not in an eligible state at write time,
// which the caller maps to lifecycle.ErrInvalidState.
func (r *ReservationRepo) UpdateStatusGuarded(ctx context.Context, id uint64, from []lifecycle.ReservationStatus, to lifecycle.ReservationStatus) (bool, error) {
	if len(from) == 0 {
		return false, nil
	}
	placeholders := strings.Repeat("?,", len(from)-1) + "?"
	args := make([]any, 0, len(from)+2)
	args = append(args, string(to), id)
	for _, s := range from {
		args = append(args, string(s))
	}
	q := `UPDATE reservations SET status = ?, updated_at = CURRENT_TIMESTAMP
	      WHERE id = ? AND status IN (` + placeholders + `)`
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ReservationPatch carries the optional fields of an edit.  Nil fields are
// left untouched.  Edit is a raw field patch: unlike cancel/complete it is
// deliberately not guarded by the state machine.
type ReservationPatch struct {
	Time      *time.Time
	PartySize *uint32
	Status    *lifecycle.ReservationStatus
}

// Patch applies an edit to a reservation.  Returns ErrReservationNotFound
// when the id is unknown.
func (r *ReservationRepo) Patch(ctx context.Context, id uint64, p ReservationPatch) error {
	set := make([]string, 0, 4)
	args := make([]any, 0, 4)
	if p.Time != nil {
		set = append(set, "reservation_time = ?")
		args = append(args, p.Time.UTC())
	}
	if p.PartySize != nil {
		set = append(set, "party_size = ?")
		args = append(args, *p.PartySize)
	}
	if p.Status != nil {
		set = append(set, "status = ?")
		args = append(args, string(*p.Status))
	}
	if len(set) == 0 {
		return nil
	}
	set = append(set, "updated_at = CURRENT_TIMESTAMP")
	args = append(args, id)
	q := "UPDATE reservations SET " + strings.Join(set, ", ") + " WHERE id = ?"
	res, err := r.db.ExecContext(ctx, q, args...)
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

// ListForTableOn returns every reservation for a table whose requested time
// falls on the given calendar day (UTC), newest first.  This is the read path
// feeding the occupancy resolver and the booking UIs.
func (r *ReservationRepo) ListForTableOn(ctx context.Context, tableID uint64, day time.Time) ([]*model.Reservation, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	end := start.Add(24 * time.Hour)
	const q = `SELECT ` + reservationColumns + ` FROM reservations
	           WHERE table_id = ? AND reservation_time >= ? AND reservation_time < ?
	           ORDER BY reservation_time, id`
	rows, err := r.db.QueryContext(ctx, q, tableID, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectReservations(rows)
}

// ListActiveForTableWithin returns the non-terminal reservations for a table
// whose requested time falls inside [from, to).  The occupancy resolver uses
// this with the configured seating window around "now".
func (r *ReservationRepo) ListActiveForTableWithin(ctx context.Context, tableID uint64, from, to time.Time) ([]*model.Reservation, error) {
	const q = `SELECT ` + reservationColumns + ` FROM reservations
	           WHERE table_id = ? AND status IN ('PENDING','CONFIRMED')
	             AND reservation_time >= ? AND reservation_time < ?
	           ORDER BY reservation_time, id`
	rows, err := r.db.QueryContext(ctx, q, tableID, from.UTC(), to.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectReservations(rows)
}

// NextTimesByTable returns, for every table, the upcoming active reservation
// times from `after` onwards.  The free-table listing embeds these so booking
// UIs can show when a free table is next spoken for.
func (r *ReservationRepo) NextTimesByTable(ctx context.Context, after time.Time) (map[uint64][]time.Time, error) {
	const q = `SELECT table_id, reservation_time FROM reservations
	           WHERE status IN ('PENDING','CONFIRMED') AND reservation_time >= ?
	           ORDER BY table_id, reservation_time`
	rows, err := r.db.QueryContext(ctx, q, after.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[uint64][]time.Time)
	for rows.Next() {
		var tableID uint64
		var at time.Time
		if err := rows.Scan(&tableID, &at); err != nil {
			return nil, err
		}
		out[tableID] = append(out[tableID], at)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func collectReservations(rows *sql.Rows) ([]*model.Reservation, error) {
	out := make([]*model.Reservation, 0)
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
