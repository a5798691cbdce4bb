package domain

// Page size bounds for list operations.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// PageRequest is a zero based page index and a page size.
type PageRequest struct {
	Number int
	Size   int
}

// Normalize clamps the request to valid bounds.
func (p PageRequest) Normalize() PageRequest {
	if p.Number < 0 {
		p.Number = 0
	}
	switch {
	case p.Size <= 0:
		p.Size = DefaultPageSize
	case p.Size > MaxPageSize:
		p.Size = MaxPageSize
	}
	return p
}

func (p PageRequest) Offset() int { return p.Number * p.Size }

// Page is one slice of a larger ordered result.
type Page[T any] struct {
	Items  []T
	Total  int64
	Number int
	Size   int
}
