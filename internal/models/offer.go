// internal/models/offer.go
package models

// OfferStatus is the string status enumeration used by offer endpoints.
type OfferStatus string

const (
	OfferActive   OfferStatus = "active"
	OfferPending  OfferStatus = "pending"
	OfferInactive OfferStatus = "inactive"
)

// Offer is a promotional listing belonging to one provider.
type Offer struct {
	ID                 int64         `json:"id"`
	ProviderID         int64         `json:"provider_id"`
	Title              LocalizedText `json:"title"`
	Description        LocalizedText `json:"description"`
	CancellationPolicy LocalizedText `json:"cancellation_policy"`
	Terms              LocalizedText `json:"terms"`
	Price              string        `json:"price"`
	CategoryID         int64         `json:"category_id"`
	CouponsQty         int           `json:"coupons_qty"`
	ValidUntil         string        `json:"valid_until"` // YYYY-MM-DD
	Status             OfferStatus   `json:"status"`
	// Either concrete branch IDs or the single sentinel "all".
	BranchIDs []string      `json:"branches,omitempty"`
	Options   []OfferOption `json:"options,omitempty"`
	Images    []string      `json:"images,omitempty"` // 1-8, first is primary
	VideoURL  string        `json:"video,omitempty"`
}

// OfferOption is a priced variant nested inside an offer. Server-persisted
// options carry a numeric ID; drafts built in the composer carry a prefixed
// client ID until the parent offer is saved (see DraftID).
type OfferOption struct {
	ID            string        `json:"id"`
	Price         string        `json:"price"`
	CouponsQty    int           `json:"coupons_qty"`
	Title         LocalizedText `json:"title"`
	Description   LocalizedText `json:"description"`
	AmenityIDs    []int64       `json:"amenities"`
	Images        []OptionImage `json:"images,omitempty"` // ordered, first is primary
	// Legacy single-image shape still present on older records.
	Image string `json:"image,omitempty"`
}

// OptionImage is one image slot of an option: either a durable representation
// (uploaded URL or data-URL) or an in-memory file pending upload.
type OptionImage struct {
	// URL is the durable representation when already uploaded or converted.
	URL string `json:"url,omitempty"`
	// Pending holds image bytes not yet sent to the backend.
	Pending *PendingFile `json:"-"`
}

// Durable reports whether the image survives without its original file handle.
func (i OptionImage) Durable() bool {
	return i.Pending == nil && i.URL != ""
}

// PendingFile is an in-memory file attachment awaiting upload.
type PendingFile struct {
	Name string
	Mime string
	Data []byte
}

// Amenity is read-only reference data scoped to a business type. Name is
// resolved to a single display string at the ingestion boundary.
type Amenity struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	IconURL string `json:"icon"`
}
