package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/restaurant-floor/internal/model"
)

// AreaRepo provides persistence for areas and their grid configuration.
// Areas form a tree through parent_id; every mutation that changes a parent
// goes through WouldCycle first so the ancestor chain stays acyclic.
type AreaRepo struct {
	db *sql.DB
}

// NewAreaRepo constructs an AreaRepo with the given DB handle.
func NewAreaRepo(db *sql.DB) *AreaRepo {
	return &AreaRepo{db: db}
}

const areaColumns = `a.id, a.name, a.description, a.floor_image, a.parent_id,
       a.canvas_w, a.canvas_h, g.size, a.created_at, a.updated_at`

const areaSelect = `SELECT ` + areaColumns + `
       FROM areas a
       LEFT JOIN grid_configs g ON g.area_id = a.id`

func scanArea(row interface{ Scan(...any) error }) (*model.Area, error) {
	var a model.Area
	var desc, img sql.NullString
	var parent sql.NullInt64
	var gridSize sql.NullInt32
	err := row.Scan(&a.ID, &a.Name, &desc, &img, &parent,
		&a.CanvasW, &a.CanvasH, &gridSize, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if desc.Valid {
		a.Description = &desc.String
	}
	if img.Valid {
		a.FloorImage = &img.String
	}
	if parent.Valid {
		p := uint64(parent.Int64)
		a.ParentID = &p
	}
	if gridSize.Valid && gridSize.Int32 > 0 {
		a.Grid = &model.GridConfig{AreaID: a.ID, Size: uint32(gridSize.Int32)}
	}
	return &a, nil
}

// Create inserts a new area and reads the row back so timestamps and
// defaults are populated.  The parent, when set, must already exist.
func (r *AreaRepo) Create(ctx context.Context, a *model.Area) error {
	const q = `INSERT INTO areas (name, description, floor_image, parent_id, canvas_w, canvas_h)
	           VALUES (?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, a.Name, a.Description, a.FloorImage, a.ParentID, a.CanvasW, a.CanvasH)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = uint64(id)
	fresh, err := r.GetByID(ctx, a.ID)
	if err != nil {
		return err
	}
	*a = *fresh
	return nil
}

// GetByID retrieves an area with its grid configuration.  It returns
// ErrAreaNotFound when no row exists.
func (r *AreaRepo) GetByID(ctx context.Context, id uint64) (*model.Area, error) {
	a, err := scanArea(r.db.QueryRowContext(ctx, areaSelect+` WHERE a.id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAreaNotFound
		}
		return nil, err
	}
	return a, nil
}

// List returns every area ordered by id.  The tree shape is reconstructed by
// the caller from ParentID.
func (r *AreaRepo) List(ctx context.Context) ([]*model.Area, error) {
	rows, err := r.db.QueryContext(ctx, areaSelect+` ORDER BY a.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Area
	for rows.Next() {
		a, err := scanArea(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update rewrites the mutable fields of an area (rename, re-parent, canvas
// resize, background image).  Re-parenting is rejected with ErrAreaCycle when
// the new parent sits below the area itself.  Returns ErrAreaNotFound when
// the area does not exist.
func (r *AreaRepo) Update(ctx context.Context, a *model.Area) error {
	if a.ParentID != nil {
		cycle, err := r.WouldCycle(ctx, a.ID, *a.ParentID)
		if err != nil {
			return err
		}
		if cycle {
			return ErrAreaCycle
		}
	}
	const q = `UPDATE areas
	           SET name = ?, description = ?, floor_image = ?, parent_id = ?,
	               canvas_w = ?, canvas_h = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, a.Name, a.Description, a.FloorImage, a.ParentID, a.CanvasW, a.CanvasH, a.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// RowsAffected is 0 both for a missing row and a no-op update, so
		// check existence before reporting not found.
		if _, err := r.GetByID(ctx, a.ID); err != nil {
			return err
		}
	}
	return nil
}

// WouldCycle reports whether setting newParent as the parent of area would
// make the area its own ancestor.  It walks the parent chain upwards from
// newParent; the chain is expected to be short (a handful of zones).
func (r *AreaRepo) WouldCycle(ctx context.Context, area, newParent uint64) (bool, error) {
	cur := newParent
	for cur != 0 {
		if cur == area {
			return true, nil
		}
		var parent sql.NullInt64
		err := r.db.QueryRowContext(ctx, `SELECT parent_id FROM areas WHERE id = ?`, cur).Scan(&parent)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return false, ErrAreaNotFound
			}
			return false, err
		}
		if !parent.Valid {
			return false, nil
		}
		cur = uint64(parent.Int64)
	}
	return false, nil
}

// SetGrid creates or replaces the snap grid for an area.  Size must be at
// least 1; callers validate before reaching the repository.
func (r *AreaRepo) SetGrid(ctx context.Context, areaID uint64, size uint32) error {
	const q = `INSERT INTO grid_configs (area_id, size) VALUES (?, ?)
	           ON DUPLICATE KEY UPDATE size = VALUES(size)`
	_, err := r.db.ExecContext(ctx, q, areaID, size)
	return err
}

// ClearGrid removes the snap grid, returning the area to free positioning.
func (r *AreaRepo) ClearGrid(ctx context.Context, areaID uint64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM grid_configs WHERE area_id = ?`, areaID)
	return err
}

// Delete removes an area that no tables reference.  It returns ErrConflict
// when tables still point at the area and ErrAreaNotFound when it is missing.
func (r *AreaRepo) Delete(ctx context.Context, id uint64) error {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tables WHERE area_id = ?`, id).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return ErrConflict
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM areas WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return ErrAreaNotFound
	}
	return nil
}
