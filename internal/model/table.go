package model

import "time"

// Table describes a physical table placed on an area canvas.  The position is
// the top-left corner of the table footprint in layout units and must keep
// the full footprint inside the owning area's canvas.  The Reserved flag is a
// manual staff override, independent of Reservation rows.
//
// Fields:
//  ID              – primary key identifier.
//  AreaID          – owning area.
//  Number          – table number, unique within an area.
//  Diners          – seating capacity.
//  X, Y            – position in layout units.
//  Reserved        – manual reservation override flag.
//  SpecialRequests – tags such as "window" or "wheelchair access".
//  CreatedAt       – creation timestamp.
//  UpdatedAt       – last update timestamp.
type Table struct {
	ID              uint64    `json:"id"`
	AreaID          uint64    `json:"area_id"`
	Number          uint32    `json:"number"`
	Diners          uint32    `json:"diners"`
	X               float64   `json:"x"`
	Y               float64   `json:"y"`
	Reserved        bool      `json:"reserved"`
	SpecialRequests []string  `json:"special_requests,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// TableUsage is derived telemetry: how often a table's occupancy cycle has
// completed and when it last happened.  The core only increments and reads
// it; analytics elsewhere consume it.
type TableUsage struct {
	TableID    uint64     `json:"table_id"`
	UsageCount uint64     `json:"usage_count"`
	LastUsedAt *time.Time `json:"last_used_at,omitempty"`
}
