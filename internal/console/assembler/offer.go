package assembler

import (
	"bytes"
	"strconv"

	"partner-console/internal/models"
)

// BuildOfferForm encodes an offer and its freshly attached images for
// submission. Images already hosted by the backend are never resent; only new
// files appear, under indexed images[i] fields at the top level and repeated
// options[i][images][] fields inside options. When update is set the form
// carries the PUT override.
func BuildOfferForm(offer models.Offer, newImages []models.PendingFile, update bool) (*bytes.Buffer, string, error) {
	f := NewForm()
	if update {
		f.MethodPut()
	}

	f.Field("title", offer.Title.En).
		Field("title_ar", offer.Title.Ar).
		Field("description", offer.Description.En).
		Field("description_ar", offer.Description.Ar).
		Field("cancellation_policy", offer.CancellationPolicy.En).
		Field("cancellation_policy_ar", offer.CancellationPolicy.Ar).
		Field("terms", offer.Terms.En).
		Field("terms_ar", offer.Terms.Ar).
		Field("price", offer.Price).
		Int("coupons_qty", int64(offer.CouponsQty)).
		Int("category_id", offer.CategoryID).
		Field("valid_until", offer.ValidUntil).
		Field("status", string(offer.Status))

	if offer.VideoURL != "" {
		f.Field("video", offer.VideoURL)
	}

	// The sentinel travels the same way as concrete IDs: a lone branches[]
	// entry the backend expands server-side.
	for _, branchID := range offer.BranchIDs {
		f.Repeated("branches", branchID)
	}

	for i, img := range newImages {
		f.File("images["+strconv.Itoa(i)+"]", img)
	}

	for i, opt := range offer.Options {
		writeOption(f, i, opt)
	}

	return f.Close()
}

// writeOption flattens one option into options[i][...] fields. Client-side
// draft IDs are omitted; the backend assigns real IDs on insert, and sending
// an unknown ID would be treated as an update of a nonexistent row.
func writeOption(f *Form, i int, opt models.OfferOption) {
	if opt.ID != "" && !models.IsDraftID(opt.ID) {
		f.Indexed("options", i, "id", opt.ID)
	}

	f.Indexed("options", i, "price", opt.Price).
		Indexed("options", i, "coupons_qty", strconv.Itoa(opt.CouponsQty)).
		Indexed("options", i, "title", opt.Title.En).
		Indexed("options", i, "title_ar", opt.Title.Ar).
		Indexed("options", i, "description", opt.Description.En).
		Indexed("options", i, "description_ar", opt.Description.Ar)

	for _, amenityID := range opt.AmenityIDs {
		f.Repeated("options["+strconv.Itoa(i)+"][amenities]", strconv.FormatInt(amenityID, 10))
	}

	for _, img := range opt.Images {
		if img.Pending == nil {
			continue
		}
		f.File("options["+strconv.Itoa(i)+"][images][]", *img.Pending)
	}
}
