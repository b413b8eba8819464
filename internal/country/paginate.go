package country

// PageSize is the fixed number of records per page.
const PageSize = 10

// Page is one slice of an ordered result set.
type Page struct {
	Number     int      `json:"page"`
	Size       int      `json:"page_size"`
	Total      int      `json:"count"`
	TotalPages int      `json:"total_pages"`
	HasNext    bool     `json:"has_next"`
	HasPrev    bool     `json:"has_previous"`
	Items      []Record `json:"results"`
}

// Paginate returns page (1-based) of recs.  Page numbers below 1 are
// treated as 1; a page past the end is empty, not an error.
func Paginate(recs []Record, page int) Page {
	if page < 1 {
		page = 1
	}
	total := len(recs)
	pages := (total + PageSize - 1) / PageSize

	lo, hi := total, total
	if page <= pages {
		lo = (page - 1) * PageSize
		hi = min(page*PageSize, total)
	}

	return Page{
		Number:     page,
		Size:       PageSize,
		Total:      total,
		TotalPages: pages,
		HasNext:    page < pages,
		HasPrev:    page > 1,
		Items:      append([]Record{}, recs[lo:hi]...),
	}
}
