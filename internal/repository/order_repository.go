package repository

import (
	"context"
	"database/sql"
)

// OrderRepo exposes the narrow slice of order data the occupancy resolver
// needs.  Order creation and payment live in another service; this repository
// only reads.
type OrderRepo struct {
	db *sql.DB
}

// NewOrderRepo constructs an OrderRepo with the given DB handle.
func NewOrderRepo(db *sql.DB) *OrderRepo {
	return &OrderRepo{db: db}
}

// CountUnpaidByTable returns the number of orders on a table that have not
// been marked paid.  Any positive count makes the table OCCUPIED.
func (r *OrderRepo) CountUnpaidByTable(ctx context.Context, tableID uint64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM orders WHERE table_id = ? AND paid = 0`, tableID).Scan(&n)
	if err != nil {
		return 0, err
	}
	return n, nil
}
