package pagination

// CalculateOffset calculates the database OFFSET value.
// Page numbers are 1-based, so page 1 has offset 0.
//
// Examples:
//   - Page 1, PerPage 20 -> Offset 0
//   - Page 3, PerPage 10 -> Offset 20
func CalculateOffset(page, perPage int) int {
	if page < 1 {
		return 0
	}
	return (page - 1) * perPage
}

// CalculateLastPage returns ceil(total / perPage), and 1 for an empty result.
func CalculateLastPage(total int64, perPage int) int {
	if total == 0 || perPage <= 0 {
		return 1
	}
	return int((total + int64(perPage) - 1) / int64(perPage))
}
