package domain

// ID is used across domain entities.
type ID int64

// Pagination carries paging params.
type Pagination struct {
	AfterID ID  `json:"afterId"`
	Limit   int `json:"limit"`
}

const (
	DefaultPageLimit = 50
	MaxPageLimit     = 200
)

// Normalize clamps the limit into [1, MaxPageLimit].
func (p Pagination) Normalize() Pagination {
	if p.Limit <= 0 {
		p.Limit = DefaultPageLimit
	}
	if p.Limit > MaxPageLimit {
		p.Limit = MaxPageLimit
	}
	if p.AfterID < 0 {
		p.AfterID = 0
	}
	return p
}

// RequestContext carries authenticated user info when available.
type RequestContext struct {
	UserID    ID     `json:"userId"`
	Role      string `json:"role"`
	RequestID string `json:"requestId"`
}
