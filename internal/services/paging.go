package services

// DefaultPageSize applies when a listing names no page size
const DefaultPageSize = 50

// PageRequest selects one window of a listing
type PageRequest struct {
	PageIndex int
	PageSize  int
}

// PageInfo describes the window returned and the size of the full set
type PageInfo struct {
	PageIndex int `json:"pageIndex"`
	PageSize  int `json:"pageSize"`
	Total     int `json:"total"`
}

// Paginate returns all[pageIndex*pageSize : min((pageIndex+1)*pageSize, N)].
// Total is always N, even when the window lies past the end.
func Paginate[T any](all []T, page PageRequest) ([]T, PageInfo) {
	if page.PageSize <= 0 {
		page.PageSize = DefaultPageSize
	}
	if page.PageIndex < 0 {
		page.PageIndex = 0
	}
	info := PageInfo{PageIndex: page.PageIndex, PageSize: page.PageSize, Total: len(all)}

	// pageIndex <= N/pageSize keeps pageIndex*pageSize within N
	if page.PageIndex > len(all)/page.PageSize {
		return []T{}, info
	}
	start := page.PageIndex * page.PageSize
	end := len(all)
	if end-start > page.PageSize {
		end = start + page.PageSize
	}

	window := make([]T, end-start)
	copy(window, all[start:end])
	return window, info
}
