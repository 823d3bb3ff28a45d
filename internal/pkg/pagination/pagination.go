package pagination

const (
	DefaultPage    = 1
	DefaultPerPage = 20
	MaxPerPage     = 100
)

// Page is one slice of an ordered result set
type Page[T any] struct {
	Items       []T   `json:"items"`
	Total       int64 `json:"total"`
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
}

// Normalize applies defaults to out-of-range page parameters
func Normalize(page, perPage int) (int, int) {
	if page < 1 {
		page = DefaultPage
	}
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	return page, perPage
}

// Offset returns the number of rows to skip for page
func Offset(page, perPage int) int {
	return (page - 1) * perPage
}

func New[T any](items []T, total int64, page, perPage int) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		Items:       items,
		Total:       total,
		CurrentPage: page,
		PerPage:     perPage,
	}
}

// LastPage is never lower than 1
func (p Page[T]) LastPage() int {
	if p.PerPage < 1 || p.Total == 0 {
		return 1
	}
	last := int((p.Total + int64(p.PerPage) - 1) / int64(p.PerPage))
	if last < 1 {
		return 1
	}
	return last
}

// From is the 1-based position of the first item, nil on an empty page
func (p Page[T]) From() *int {
	if len(p.Items) == 0 {
		return nil
	}
	from := Offset(p.CurrentPage, p.PerPage) + 1
	return &from
}

// To is the 1-based position of the last item, nil on an empty page
func (p Page[T]) To() *int {
	from := p.From()
	if from == nil {
		return nil
	}
	to := *from + len(p.Items) - 1
	return &to
}

// Map converts the items of p keeping its position
func Map[T, U any](p Page[T], fn func(T) U) Page[U] {
	items := make([]U, len(p.Items))
	for i, item := range p.Items {
		items[i] = fn(item)
	}
	return Page[U]{
		Items:       items,
		Total:       p.Total,
		CurrentPage: p.CurrentPage,
		PerPage:     p.PerPage,
	}
}
