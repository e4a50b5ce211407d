package models

// Built-in tag category names. Categories are rows, not an enum; these three
// are seeded by the initial migration and the catalog filter UI is built
// around them.
const (
	CategoryTopic = "Topic"
	CategoryEvent = "Event"
	CategoryDate  = "Date"
)

// TagCategory groups tags (Topic, Event, Date, ...). Every tag belongs to
// exactly one category.
type TagCategory struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Tag labels videos within a category. Date-category tags are named
// "Q<quarter> <year>", e.g. "Q4 2024".
type Tag struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	CategoryID int64  `json:"category_id"`
	Category   string `json:"category,omitempty"`
}
