package catsync

import (
	"time"

	"github.com/catsfront/catsfront/internal/model"
)

// EditState is the state of the edit surface.
type EditState int

const (
	EditClosed EditState = iota
	EditOpen
)

func (s EditState) String() string {
	if s == EditOpen {
		return "open"
	}
	return "closed"
}

// CloseReason records what closed the edit surface.
type CloseReason string

const (
	CloseCancel  CloseReason = "cancel"
	CloseOutside CloseReason = "outside"
	CloseEscape  CloseReason = "escape"
	CloseUpdated CloseReason = "updated"
)

// ParseCloseReason maps a user-supplied reason to a CloseReason. Unknown
// values are treated as a cancel.
func ParseCloseReason(s string) CloseReason {
	switch CloseReason(s) {
	case CloseOutside, CloseEscape:
		return CloseReason(s)
	default:
		return CloseCancel
	}
}

// EditSurface is the modal used for in-place editing.
type EditSurface struct {
	State     EditState
	Form      EditForm
	LastClose CloseReason
}

// IsOpen reports whether the surface is open.
func (e EditSurface) IsOpen() bool {
	return e.State == EditOpen
}

// View is an immutable copy of what the user sees.
type View struct {
	Rows        []model.Cat
	Add         AddForm
	Edit        EditSurface
	Loaded      bool
	RefreshedAt time.Time
	Busy        bool
}

// table holds rows in server order plus a lookup by id, so row actions
// are addressed by identifier rather than by an embedded copy of the record.
type table struct {
	rows  []model.Cat
	index map[int64]int
}

func newTable(cats []model.Cat) table {
	t := table{
		rows:  make([]model.Cat, len(cats)),
		index: make(map[int64]int, len(cats)),
	}
	copy(t.rows, cats)
	for i, cat := range t.rows {
		t.index[cat.ID] = i
	}
	return t
}

func (t table) row(id int64) (model.Cat, bool) {
	i, ok := t.index[id]
	if !ok {
		return model.Cat{}, false
	}
	return t.rows[i], true
}

func (t table) rowsCopy() []model.Cat {
	out := make([]model.Cat, len(t.rows))
	copy(out, t.rows)
	return out
}
