package entity

// PageParams is offset based pagination as used by the history endpoint.
type PageParams struct {
	Limit  int `json:"limit" query:"limit"`
	Offset int `json:"offset" query:"offset"`
}

const (
	DefaultPageSize = 50
	MaxPageSize     = 100
	MinPageSize     = 1
)

// Normalize applies defaults and bounds.
func (p *PageParams) Normalize() {
	if p.Limit < MinPageSize {
		p.Limit = DefaultPageSize
	} else if p.Limit > MaxPageSize {
		p.Limit = MaxPageSize
	}

	if p.Offset < 0 {
		p.Offset = 0
	}
}

// PaymentHistory is one page of a user's payments, newest first.
type PaymentHistory struct {
	Payments []*Payment
	Total    int64
	Limit    int
	Offset   int
}

// HasMore reports whether another page exists.
func (h *PaymentHistory) HasMore() bool {
	return int64(h.Offset+len(h.Payments)) < h.Total
}
