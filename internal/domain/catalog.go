package domain

// Store is a named container for items and tags.
type Store struct {
	Timestamps
	Name string `json:"name"`
}

// Item is a priced entry belonging to exactly one store. Item names
// are unique across all stores.
type Item struct {
	Timestamps
	StoreID     string  `json:"store_id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
}

// Tag is a label belonging to a store. Items may carry any number of
// tags from their store. Tag names are unique across all stores.
type Tag struct {
	Timestamps
	StoreID string `json:"store_id"`
	Name    string `json:"name"`
}
