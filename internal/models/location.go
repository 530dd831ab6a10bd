// internal/models/location.go
package models

// Location hierarchy: Country -> City -> Zone. A zone is valid for exactly
// one city; selecting a new city invalidates any zone outside it.

type Country struct {
	ID   int64         `json:"id"`
	Name LocalizedText `json:"name"`
}

type City struct {
	ID        int64         `json:"id"`
	CountryID int64         `json:"country_id"`
	Name      LocalizedText `json:"name"`
}

type Zone struct {
	ID     int64         `json:"id"`
	CityID int64         `json:"city_id"`
	Name   LocalizedText `json:"name"`
}
