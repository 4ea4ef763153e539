package store

import (
	"time"

	"github.com/samber/lo"
)

const updatedAtColumn = "updated_at"

// Patch enumerates the columns a partial update assigns. Only supplied
// columns are written; values are always bound as query parameters.
type Patch struct {
	values  map[string]any
	columns []string
}

// NewPatch returns an empty patch.
func NewPatch() *Patch {
	return &Patch{values: map[string]any{}}
}

// Set assigns value to column, replacing any earlier assignment.
func (p *Patch) Set(column string, value any) *Patch {
	if _, ok := p.values[column]; !ok {
		p.columns = append(p.columns, column)
	}
	p.values[column] = value
	return p
}

// Touch sets updated_at to now.
func (p *Patch) Touch(now time.Time) *Patch {
	return p.Set(updatedAtColumn, now)
}

// Columns returns the assigned columns in assignment order.
func (p *Patch) Columns() []string {
	return append([]string(nil), p.columns...)
}

// Len returns the number of assigned columns, updated_at included.
func (p *Patch) Len() int {
	return len(p.columns)
}

// IsEmpty reports whether the patch assigns nothing besides updated_at.
func (p *Patch) IsEmpty() bool {
	return len(lo.Without(p.columns, updatedAtColumn)) == 0
}

// Fields returns the assignments except updated_at, for diffing.
func (p *Patch) Fields() map[string]any {
	return lo.OmitByKeys(p.values, []string{updatedAtColumn})
}

// Map returns a copy of every assignment, suitable for gorm's Updates.
func (p *Patch) Map() map[string]any {
	return lo.Assign(p.values)
}
