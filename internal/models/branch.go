// internal/models/branch.go
package models

// Branch is a physical location belonging to one provider. Coordinates are
// decimal strings on the wire, exactly as the backend stores them.
type Branch struct {
	ID         int64         `json:"id"`
	ProviderID int64         `json:"provider_id"`
	Name       LocalizedText `json:"name"`
	Address    LocalizedText `json:"address"`
	Phone      string        `json:"phone"`
	Latitude   string        `json:"latitude"`
	Longitude  string        `json:"longitude"`
	CityID     int64         `json:"city_id"`
	ZoneID     int64         `json:"zone_id"`
	Status     EntityStatus  `json:"status"`
	// At most one branch per provider should be main; the backend owns that
	// rule and the console passes the flag through without enforcing it.
	IsMain bool `json:"is_main"`
}

// BranchSentinelAll is the selector value meaning "every branch" rather than
// a concrete branch ID. It is mutually exclusive with concrete selections.
const BranchSentinelAll = "all"
