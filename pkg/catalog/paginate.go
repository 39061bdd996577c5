package catalog

const (
	// PageSize is the number of cards shown per page.
	PageSize = 20
	// WindowSize is the number of page buttons exposed at once.
	WindowSize = 5
)

// Page is one observation window over a sequence.
type Page[T any] struct {
	Number     int   `json:"page"`
	Size       int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
	Window     []int `json:"window"`
	HasPrev    bool  `json:"has_prev"`
	HasNext    bool  `json:"has_next"`
	Items      []T   `json:"items"`
}

// TotalPages returns max(1, ceil(n/pageSize)).
func TotalPages(n, pageSize int) int {
	if pageSize <= 0 {
		pageSize = PageSize
	}
	total := (n + pageSize - 1) / pageSize
	if total < 1 {
		return 1
	}
	return total
}

// ClampPage bounds requested to [1, totalPages].
func ClampPage(requested, totalPages int) int {
	if requested < 1 {
		return 1
	}
	if requested > totalPages {
		return totalPages
	}
	return requested
}

// Paginate slices the requested page out of seq. The page number is clamped
// into range and a non-positive pageSize falls back to PageSize. Items
// shares memory with seq; seq itself is never modified.
func Paginate[T any](seq []T, pageSize, requested int) Page[T] {
	if pageSize <= 0 {
		pageSize = PageSize
	}
	total := TotalPages(len(seq), pageSize)
	page := ClampPage(requested, total)

	start := (page - 1) * pageSize
	end := min(start+pageSize, len(seq))
	var items []T
	if start < end {
		items = seq[start:end:end]
	} else {
		items = []T{}
	}

	return Page[T]{
		Number:     page,
		Size:       pageSize,
		TotalPages: total,
		Window:     PageWindow(page, total, WindowSize),
		HasPrev:    page > 1,
		HasNext:    page < total,
		Items:      items,
	}
}

// PageWindow returns up to width contiguous page numbers around page,
// shifted to stay inside [1, totalPages].
func PageWindow(page, totalPages, width int) []int {
	if width <= 0 || totalPages <= 0 {
		return nil
	}
	start := max(1, page-width/2)
	end := min(totalPages, start+width-1)
	if end-start+1 < width {
		start = max(1, end-width+1)
	}

	window := make([]int, 0, end-start+1)
	for i := start; i <= end; i++ {
		window = append(window, i)
	}
	return window
}

// MapPage converts the items of a page, keeping its position.
func MapPage[T, U any](p Page[T], f func(T) U) Page[U] {
	items := make([]U, len(p.Items))
	for i, it := range p.Items {
		items[i] = f(it)
	}
	return Page[U]{
		Number:     p.Number,
		Size:       p.Size,
		TotalPages: p.TotalPages,
		Window:     p.Window,
		HasPrev:    p.HasPrev,
		HasNext:    p.HasNext,
		Items:      items,
	}
}
