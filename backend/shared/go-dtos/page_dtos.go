package dtos

// Page is a slice of results plus the total matching count.
type Page[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}

// EmptyPage is the degraded result returned when a listing fails.
func EmptyPage[T any]() Page[T] {
	return Page[T]{Items: []T{}, Total: 0}
}

// DateRange is an inclusive UTC instant range rendered as ISO-8601 strings.
type DateRange struct {
	StartDatetime string `json:"startDatetime"`
	EndDatetime   string `json:"endDatetime"`
}
