package catalog

import "strings"

// SearchResult is the outcome of filtering a record list.
type SearchResult struct {
	Query string
	// Active is false for a blank query. The records are then the full
	// input and callers hide the search summary.
	Active  bool
	Records []Record
	// Indices holds the position of each matching record in the input.
	Indices []int
}

// Count returns the number of matching records.
func (r SearchResult) Count() int {
	return len(r.Records)
}

// Filter returns the records whose name, description, developer, category
// or type contains query, case-insensitively. Relative order is preserved.
// Filter never modifies records.
func Filter(records []Record, query string) SearchResult {
	if strings.TrimSpace(query) == "" {
		indices := make([]int, len(records))
		for i := range indices {
			indices[i] = i
		}
		return SearchResult{Query: query, Records: records, Indices: indices}
	}

	needle := strings.ToLower(query)
	res := SearchResult{Query: query, Active: true, Records: make([]Record, 0, len(records))}
	for i := range records {
		if matches(&records[i], needle) {
			res.Records = append(res.Records, records[i])
			res.Indices = append(res.Indices, i)
		}
	}
	return res
}

func matches(r *Record, needle string) bool {
	for _, field := range [...]string{r.Name, r.Description, r.Developer, r.Category, r.Type} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}
