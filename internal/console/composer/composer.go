// Package composer builds offer option drafts before their parent offer is
// submitted. A finalized draft receives a client-side ID, its image previews
// are persisted in the local draft cache, and the draft itself is handed back
// to the owning offer form.
package composer

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"partner-console/internal/common/config"
	"partner-console/internal/common/errors"
	"partner-console/internal/common/logger"
	"partner-console/internal/console/draftcache"
	"partner-console/internal/models"
)

// Composer is the editing session for a single offer option. At most one
// option is edited at a time; Open resets any prior state.
type Composer struct {
	store      draftcache.Store
	log        logger.Logger
	maxImages  int
	thumbWidth int

	mu        sync.Mutex
	active    bool
	editingID string
	draft     models.OfferOption
}

func New(store draftcache.Store, uploads config.UploadsConfig, log logger.Logger) *Composer {
	return &Composer{
		store:      store,
		log:        log.Named("composer"),
		maxImages:  uploads.MaxImages,
		thumbWidth: uploads.ThumbnailWidth,
	}
}

// Open starts a blank editing session.
func (c *Composer) Open() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.active = true
	c.editingID = ""
	c.draft = models.OfferOption{}
}

// OpenWith starts an editing session pre-filled from an existing option.
// Records from older backends carry a single image field instead of a list;
// those are normalized into the list shape here so the rest of the composer
// never sees the legacy form.
func (c *Composer) OpenWith(opt models.OfferOption) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if opt.Image != "" && len(opt.Images) == 0 {
		opt.Images = []models.OptionImage{{URL: opt.Image}}
	}
	opt.Image = ""

	c.active = true
	c.editingID = opt.ID
	c.draft = opt
}

// IsOpen reports whether an editing session is active.
func (c *Composer) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// Draft returns a snapshot of the option being edited.
func (c *Composer) Draft() models.OfferOption {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft
}

func (c *Composer) SetPrice(price string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft.Price = strings.TrimSpace(price)
}

func (c *Composer) SetCouponsQty(qty int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft.CouponsQty = qty
}

func (c *Composer) SetTitle(en, ar string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft.Title = models.Bilingual(en, ar)
}

func (c *Composer) SetDescription(en, ar string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft.Description = models.Bilingual(en, ar)
}

// SetAmenities replaces the selected amenity IDs.
func (c *Composer) SetAmenities(ids []int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft.AmenityIDs = append([]int64(nil), ids...)
}

// ToggleAmenity adds the amenity if absent, removes it if present.
func (c *Composer) ToggleAmenity(id int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, existing := range c.draft.AmenityIDs {
		if existing == id {
			c.draft.AmenityIDs = append(c.draft.AmenityIDs[:i], c.draft.AmenityIDs[i+1:]...)
			return
		}
	}
	c.draft.AmenityIDs = append(c.draft.AmenityIDs, id)
}

// Cancel abandons the session, dropping any in-memory image data.
func (c *Composer) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reset()
}

// Finalize validates the draft, assigns its ID, persists image previews to
// the draft cache and returns the completed option. The session is closed on
// success; on a validation error it stays open for correction.
func (c *Composer) Finalize(ctx context.Context) (models.OfferOption, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.active {
		return models.OfferOption{}, errors.NewDraftInvalidError("No option is being edited")
	}
	if err := c.validate(); err != nil {
		return models.OfferOption{}, err
	}

	opt := c.draft
	if c.editingID != "" {
		opt.ID = c.editingID
	} else {
		opt.ID = models.NewDraftID()
	}

	previews, err := c.previews(opt.Images)
	if err != nil {
		return models.OfferOption{}, err
	}

	// A cache write failure only degrades preview continuity after reload,
	// so the finalized option is still returned.
	if err := c.store.Upsert(ctx, opt.ID, previews); err != nil {
		c.log.Warn("Failed to cache option previews", map[string]interface{}{
			"option_id": opt.ID,
			"error":     err.Error(),
		})
	}

	c.reset()
	return opt, nil
}

// validate checks the draft fields in display order and reports the first
// violation only.
func (c *Composer) validate() error {
	if c.draft.Price == "" {
		return errors.NewDraftInvalidError("Price is required")
	}
	if price, err := strconv.ParseFloat(c.draft.Price, 64); err != nil || price <= 0 {
		return errors.NewDraftInvalidError("Price must be a positive number")
	}
	if c.draft.CouponsQty < 1 {
		return errors.NewDraftInvalidError("Coupons quantity must be at least 1")
	}
	if strings.TrimSpace(c.draft.Title.En) == "" {
		return errors.NewDraftInvalidError("English title is required")
	}
	if strings.TrimSpace(c.draft.Title.Ar) == "" {
		return errors.NewDraftInvalidError("Arabic title is required")
	}
	if len(c.draft.AmenityIDs) == 0 {
		return errors.NewDraftInvalidError("Select at least one amenity")
	}
	return nil
}

// previews builds the durable preview strings for the cache, preserving image
// order. Already-uploaded images contribute their URL; pending files are
// downscaled and embedded as data URLs.
func (c *Composer) previews(images []models.OptionImage) ([]string, error) {
	out := make([]string, 0, len(images))
	for _, img := range images {
		if img.Durable() {
			out = append(out, img.URL)
			continue
		}
		if img.Pending == nil {
			continue
		}
		preview, err := previewDataURL(img.Pending, c.thumbWidth)
		if err != nil {
			return nil, errors.NewDraftInvalidError("Image " + img.Pending.Name + " could not be processed")
		}
		out = append(out, preview)
	}
	return out, nil
}

func (c *Composer) reset() {
	c.active = false
	c.editingID = ""
	c.draft = models.OfferOption{}
}
