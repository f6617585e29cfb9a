// Package queue defines message payloads exchanged over the message broker
// and the background consumer that audits table moves.
package queue

// TableMovedEvent is published when a table position commit is persisted.
// It carries enough information for downstream consumers to log, audit or
// redraw without querying the primary database.
type TableMovedEvent struct {
	TableID   uint64  `json:"table_id"`
	AreaID    uint64  `json:"area_id"`
	FromX     float64 `json:"from_x"`
	FromY     float64 `json:"from_y"`
	ToX       float64 `json:"to_x"`
	ToY       float64 `json:"to_y"`
	Collision bool    `json:"collision"`
	MovedBy   uint64  `json:"moved_by"`
	MovedAt   string  `json:"moved_at"`
}

// WaitlistCalledEvent is published when a waiting party is called so that
// external notification systems can page the guest.
type WaitlistCalledEvent struct {
	EntryID   uint64 `json:"entry_id"`
	AreaID    uint64 `json:"area_id"`
	UserID    uint64 `json:"user_id"`
	PartySize uint32 `json:"party_size"`
	CalledAt  string `json:"called_at"`
}
