package model

import (
	"testing"
	"time"
)

func TestOrderWaitlist(t *testing.T) {
	base := time.Date(2026, time.March, 7, 18, 0, 0, 0, time.UTC)
	entry := func(id uint64, prio *int32, offset time.Duration) *WaitlistEntry {
		return &WaitlistEntry{ID: id, Priority: prio, CreatedAt: base.Add(offset)}
	}
	p := func(v int32) *int32 { return &v }

	cases := []struct {
		name    string
		entries []*WaitlistEntry
		want    []uint64
	}{
		{
			name: "higherPriorityFirst",
			entries: []*WaitlistEntry{
				entry(1, p(1), 0),
				entry(2, p(5), time.Minute),
			},
			want: []uint64{2, 1},
		},
		{
			name: "unprioritizedLast",
			entries: []*WaitlistEntry{
				entry(1, nil, 0),
				entry(2, p(1), time.Hour),
			},
			want: []uint64{2, 1},
		},
		{
			name: "samePriorityOldestFirst",
			entries: []*WaitlistEntry{
				entry(1, p(3), 2*time.Minute),
				entry(2, p(3), time.Minute),
				entry(3, nil, 3*time.Minute),
				entry(4, nil, 0),
			},
			want: []uint64{2, 1, 4, 3},
		},
		{
			name: "sameTimestampByID",
			entries: []*WaitlistEntry{
				entry(9, nil, 0),
				entry(3, nil, 0),
				entry(7, nil, 0),
			},
			want: []uint64{3, 7, 9},
		},
		{
			name:    "empty",
			entries: nil,
			want:    nil,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			OrderWaitlist(tc.entries)
			if len(tc.entries) != len(tc.want) {
				t.Fatalf("len = %d, want %d", len(tc.entries), len(tc.want))
			}
			for i, id := range tc.want {
				if tc.entries[i].ID != id {
					t.Fatalf("pos %d = entry %d, want %d", i, tc.entries[i].ID, id)
				}
			}
		})
	}
}
