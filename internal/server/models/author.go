package models

// Author is a catalog author. At most one Author exists per
// case-insensitive name; Born is optional and editable.
type Author struct {
	ID   string
	Name string
	Born *int
}
