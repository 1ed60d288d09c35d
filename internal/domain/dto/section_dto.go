package dto

// SectionListResponse wraps a resume section listing.
type SectionListResponse[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}

func NewSectionList[T any](items []T) SectionListResponse[T] {
	if items == nil {
		items = []T{}
	}
	return SectionListResponse[T]{Items: items, Total: len(items)}
}

// CategoriesResponse lists the skill categories the editor offers.
type CategoriesResponse struct {
	Categories []string `json:"categories"`
	Total      int      `json:"total"`
}
