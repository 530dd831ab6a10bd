// internal/models/provider.go
package models

// EntityStatus is the backend's numeric status enumeration shared by
// providers, branches and offers in their numeric form.
type EntityStatus int

const (
	StatusInactive            EntityStatus = 0
	StatusActive              EntityStatus = 1
	StatusWaitingConfirmation EntityStatus = 2
)

func (s EntityStatus) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusInactive:
		return "inactive"
	case StatusWaitingConfirmation:
		return "waiting_confirmation"
	default:
		return "unknown"
	}
}

// Valid reports whether the value is one of the backend's known codes.
func (s EntityStatus) Valid() bool {
	return s == StatusInactive || s == StatusActive || s == StatusWaitingConfirmation
}

// Provider is a business being managed through the console.
type Provider struct {
	ID          int64         `json:"id"`
	Name        LocalizedText `json:"name"`
	Description LocalizedText `json:"description"`
	TypeID      int64         `json:"type_id"`
	Status      EntityStatus  `json:"status"`
	Commission  float64       `json:"commission"` // percentage
	Owner       Person        `json:"user"`
	Branches    []Branch      `json:"branches,omitempty"`
	Stats       ProviderStats `json:"stats"`
}

// ProviderStats are read-only aggregate display values owned by the backend.
type ProviderStats struct {
	OffersCount   int     `json:"offers_count"`
	BookingsCount int     `json:"bookings_count"`
	ReviewsCount  int     `json:"reviews_count"`
	NetProfit     float64 `json:"net_profit"`
}

// Person is a backend user referenced by providers, reservations and teams.
type Person struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Category is a reference category for providers and offers.
type Category struct {
	ID   int64         `json:"id"`
	Name LocalizedText `json:"name"`
}

// BusinessType scopes amenity reference data.
type BusinessType struct {
	ID   int64         `json:"id"`
	Name LocalizedText `json:"name"`
}
