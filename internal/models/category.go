package models

// Category is the closed set of complaint categories. Each department account
// administers exactly one category within one pincode.
type Category string

const (
	CategoryWaterlogging Category = "waterlogging"
	CategoryPotholes     Category = "potholes"
	CategoryGarbages     Category = "garbages"
	CategoryStreetlight  Category = "streetlight"
	CategoryOthers       Category = "others"
)

// Categories lists every valid category, in the order the original dataset
// defines them.
var Categories = []Category{
	CategoryWaterlogging,
	CategoryPotholes,
	CategoryGarbages,
	CategoryStreetlight,
	CategoryOthers,
}

func (c Category) Valid() bool {
	switch c {
	case CategoryWaterlogging, CategoryPotholes, CategoryGarbages, CategoryStreetlight, CategoryOthers:
		return true
	}
	return false
}
