package table

// DefaultPageSize is the number of rows on one table page.
const DefaultPageSize = 25

// Page is one page of a longer list.
type Page[T any] struct {
	Rows       []T `json:"rows"`
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	TotalPages int `json:"totalPages"`
	Total      int `json:"total"`
}

// Paginate returns rows[(page-1)*pageSize : page*pageSize]. Pages are
// 1-indexed and not clamped: a page outside the list is empty.
func Paginate[T any](rows []T, page, pageSize int) []T {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if page < 1 {
		return []T{}
	}
	start := (page - 1) * pageSize
	if start >= len(rows) {
		return []T{}
	}
	end := min(start+pageSize, len(rows))
	return rows[start:end]
}

// TotalPages is ceil(count / pageSize).
func TotalPages(count, pageSize int) int {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return (count + pageSize - 1) / pageSize
}

// NewPage cuts page number page out of rows.
func NewPage[T any](rows []T, page, pageSize int) Page[T] {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return Page[T]{
		Rows:       Paginate(rows, page, pageSize),
		Page:       page,
		PageSize:   pageSize,
		TotalPages: TotalPages(len(rows), pageSize),
		Total:      len(rows),
	}
}
