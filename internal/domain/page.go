package domain

// SortOrder for cursor pagination.
type SortOrder string

const (
	SortAsc  SortOrder = "ASC"
	SortDesc SortOrder = "DESC"
)

// CursorQuery selects a window of rows ordered by id.
type CursorQuery struct {
	Take     int
	MoreThan *int64
	LessThan *int64
	Order    SortOrder
}

// DefaultTake applies when the caller does not ask for a page size.
const DefaultTake = 20

// Normalize fills defaults and clamps the page size.
func (q CursorQuery) Normalize() CursorQuery {
	if q.Take <= 0 {
		q.Take = DefaultTake
	}
	if q.Take > 100 {
		q.Take = 100
	}
	if q.Order != SortDesc {
		q.Order = SortAsc
	}
	return q
}

// Page is one window of results plus the cursor for the next one.
type Page[T any] struct {
	Items []T
	After *int64
	Count int
}
