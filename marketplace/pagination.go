package marketplace

// DefaultPageSize is the page size of list views.
const DefaultPageSize = 10

// Page is one window over a list held client-side.
type Page[T any] struct {
	Items   []T
	Number  int
	Size    int
	Total   int
	HasMore bool
}

// Paginate returns page number (1-based) of items. Out-of-range pages are
// empty; a non-positive size uses DefaultPageSize.
func Paginate[T any](items []T, number, size int) Page[T] {
	if size <= 0 {
		size = DefaultPageSize
	}
	if number < 1 {
		number = 1
	}
	p := Page[T]{Number: number, Size: size, Total: len(items)}
	start := (number - 1) * size
	if start >= len(items) {
		return p
	}
	end := min(start+size, len(items))
	p.Items = items[start:end]
	p.HasMore = end < len(items)
	return p
}

// Accumulate returns the items of pages 1..number, the list an infinite
// scroll view shows after loading number pages.
func Accumulate[T any](items []T, number, size int) []T {
	if size <= 0 {
		size = DefaultPageSize
	}
	if number < 1 {
		return nil
	}
	return items[:min(number*size, len(items))]
}
