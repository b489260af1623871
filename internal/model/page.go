package model

// Pagination is the server's echo of the page that was returned.
type Pagination struct {
	CurrentPage int `json:"currentPage"`
	TotalPages  int `json:"totalPages"`
	TotalItems  int `json:"totalItems"`
	Limit       int `json:"limit"`
}

// Page is one page of a remote collection.
type Page[T any] struct {
	Items      []T
	Pagination Pagination
}
