package models

// Pagination describes one page of a vendor's catalog listing. Pages is the
// ceiling of Total/Limit and is zero only when Total is zero.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

// ProductPage is the single normalized contract produced by the service
// client regardless of which shape the platform answered with.
type ProductPage struct {
	Items      []Product  `json:"items"`
	Pagination Pagination `json:"pagination"`
}
