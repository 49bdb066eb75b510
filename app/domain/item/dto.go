package item

type ListItemsDTO struct {
	Page  int
	Limit int

	Search   string
	Category string

	SortBy    string
	SortOrder string
}

type ListItemsResult struct {
	Items []*DBModel

	TotalItems  int64
	TotalPages  int
	CurrentPage int
}

type RefreshResult struct {
	NewItems     int
	UpdatedItems int
}
