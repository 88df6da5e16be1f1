package launcher

// DefaultPageSize is the number of rows shown at once.
const DefaultPageSize = 5

// Window returns the [start, end) range of an n-row list to display so that
// highlight is visible. The highlight is centred where possible; near the
// end the window keeps a full page of trailing rows.
func Window(n, highlight, page int) (start, end int) {
	if n <= 0 {
		return 0, 0
	}
	if page <= 0 {
		page = DefaultPageSize
	}
	if highlight < 0 {
		highlight = 0
	}
	start = highlight - page/2
	if start < 0 {
		start = 0
	}
	end = start + page
	if end > n {
		end = n
	}
	if end-start < page {
		start = end - page
		if start < 0 {
			start = 0
		}
	}
	return start, end
}
