package domain

type Business struct {
	ID          string
	Name        string
	CategoryID  *string
	Description *string
	City        *string
	Address     *string
	Phone       *string
	Rating      *float64
	Latitude    *float64
	Longitude   *float64
	Features    []string
	Images      []string
}

// BusinessView is a Business joined with the Arabic name of its category,
// when the soft reference still resolves.
type BusinessView struct {
	Business
	CategoryNameAr *string
}

// BusinessQuery filters and pages the business list. Empty string fields
// mean "no filter". City and Search match as case-insensitive substrings,
// CategoryID as equality. Results are ordered by name ascending.
type BusinessQuery struct {
	City       string
	CategoryID string
	Search     string
	Page       int
	PageSize   int
}

type BusinessPage struct {
	Items      []BusinessView
	Total      int
	Page       int
	TotalPages int
}

type CityCount struct {
	City  string
	Count int
}

// Overview backs the dashboard landing cards.
type Overview struct {
	Businesses int
	Categories int
	Cities     int
	ByCity     []CityCount
}
