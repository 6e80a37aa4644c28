package models

const (
	DefaultPerPage = 15
	MaxPerPage     = 100
)

type PageRequest struct {
	Page    int
	PerPage int
}

// Normalize clamps the request to a valid page.
func (p PageRequest) Normalize() PageRequest {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PerPage < 1 {
		p.PerPage = DefaultPerPage
	}
	if p.PerPage > MaxPerPage {
		p.PerPage = MaxPerPage
	}
	return p
}

func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// Page is one slice of a listing plus the counters clients need to walk it.
type Page[T any] struct {
	CurrentPage int     `json:"current_page"`
	Data        []T     `json:"data"`
	From        *int    `json:"from"`
	To          *int    `json:"to"`
	PerPage     int     `json:"per_page"`
	LastPage    int     `json:"last_page"`
	Total       int     `json:"total"`
	Path        string  `json:"path"`
	NextPageURL *string `json:"next_page_url"`
	PrevPageURL *string `json:"prev_page_url"`
}

func NewPage[T any](req PageRequest, data []T, total int) Page[T] {
	req = req.Normalize()
	if data == nil {
		data = []T{}
	}
	lastPage := 1
	if total > 0 {
		lastPage = (total + req.PerPage - 1) / req.PerPage
	}
	page := Page[T]{
		CurrentPage: req.Page,
		Data:        data,
		PerPage:     req.PerPage,
		LastPage:    lastPage,
		Total:       total,
	}
	if len(data) > 0 {
		from := req.Offset() + 1
		to := req.Offset() + len(data)
		page.From, page.To = &from, &to
	}
	return page
}
