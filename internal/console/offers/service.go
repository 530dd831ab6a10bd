// Package offers implements the offer form screen: branch targeting with the
// "all" sentinel, the option list fed by the composer, image limits, and
// multipart submission.
package offers

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"

	"partner-console/internal/common/api"
	"partner-console/internal/common/errors"
	"partner-console/internal/common/logger"
	"partner-console/internal/common/metrics"
	"partner-console/internal/console/assembler"
	"partner-console/internal/console/draftcache"
	"partner-console/internal/models"
)

const (
	minImages = 1
	maxImages = 8
)

type Service struct {
	client *api.Client
	drafts draftcache.Store
	log    logger.Logger
}

func NewService(client *api.Client, drafts draftcache.Store, log logger.Logger) *Service {
	return &Service{client: client, drafts: drafts, log: log.Named("offers")}
}

// List returns one page of a provider's offers.
func (s *Service) List(ctx context.Context, providerID int64, page int) ([]models.Offer, *api.Pagination, error) {
	query := url.Values{"provider_id": {strconv.FormatInt(providerID, 10)}}
	envelope, err := s.client.GetPage(ctx, "/offers", query, page)
	if err != nil {
		return nil, nil, err
	}
	var offers []models.Offer
	if err := json.Unmarshal(envelope.Data, &offers); err != nil {
		return nil, nil, errors.NewDecodeFailedError(err)
	}
	return offers, &envelope.Pagination, nil
}

// Get loads one offer with its options for editing.
func (s *Service) Get(ctx context.Context, id int64) (*models.Offer, error) {
	var envelope struct {
		Data models.Offer `json:"data"`
	}
	if err := s.client.GetJSON(ctx, "/offers/"+strconv.FormatInt(id, 10), nil, &envelope); err != nil {
		return nil, err
	}
	return &envelope.Data, nil
}

// Categories returns the offer category reference list.
func (s *Service) Categories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := s.client.FetchAll(ctx, "/categories", nil, func(data json.RawMessage) error {
		var page []models.Category
		if err := json.Unmarshal(data, &page); err != nil {
			return errors.NewDecodeFailedError(err)
		}
		categories = append(categories, page...)
		return nil
	})
	return categories, err
}

// Create submits a new offer. newImages holds files attached in this editing
// session; images already hosted by the backend count toward the limit but
// are not resent.
func (s *Service) Create(ctx context.Context, offer models.Offer, newImages []models.PendingFile) error {
	return s.submit(ctx, "/offers", offer, newImages, false)
}

// Update submits changes for an existing offer with the PUT override.
func (s *Service) Update(ctx context.Context, id int64, offer models.Offer, newImages []models.PendingFile) error {
	return s.submit(ctx, "/offers/"+strconv.FormatInt(id, 10), offer, newImages, true)
}

func (s *Service) submit(ctx context.Context, path string, offer models.Offer, newImages []models.PendingFile, update bool) error {
	if err := checkPreconditions(offer, newImages); err != nil {
		metrics.SubmissionsTotal.WithLabelValues("offers", "precondition_failed").Inc()
		return err
	}

	body, contentType, err := assembler.BuildOfferForm(offer, newImages, update)
	if err != nil {
		metrics.SubmissionsTotal.WithLabelValues("offers", "error").Inc()
		return errors.NewNetworkFailureError(err)
	}

	if err := s.client.PostMultipart(ctx, path, body, contentType, nil); err != nil {
		metrics.SubmissionsTotal.WithLabelValues("offers", "error").Inc()
		return err
	}
	metrics.SubmissionsTotal.WithLabelValues("offers", "success").Inc()

	// Server-persisted options get real IDs, so the provisional previews are
	// no longer needed.
	for _, opt := range offer.Options {
		if models.IsDraftID(opt.ID) {
			if err := s.drafts.Delete(ctx, opt.ID); err != nil {
				s.log.Warn("Failed to drop cached draft previews", map[string]interface{}{
					"option_id": opt.ID,
					"error":     err.Error(),
				})
			}
		}
	}
	return nil
}

// checkPreconditions runs the client-side checks that block the request from
// being constructed at all.
func checkPreconditions(offer models.Offer, newImages []models.PendingFile) error {
	if len(offer.BranchIDs) == 0 {
		return errors.NewPreconditionFailedError("Select at least one branch", map[string]string{
			"branches": "Select at least one branch",
		})
	}

	total := len(offer.Images) + len(newImages)
	if total < minImages {
		return errors.NewPreconditionFailedError("At least one image is required", map[string]string{
			"images": "At least one image is required",
		})
	}
	if total > maxImages {
		msg := "At most " + strconv.Itoa(maxImages) + " images are allowed"
		return errors.NewPreconditionFailedError(msg, map[string]string{"images": msg})
	}
	return nil
}

// UpsertOption merges a finalized composer draft into the offer's working
// option list: an existing entry with the same ID is replaced in place, a new
// one is appended.
func UpsertOption(offer *models.Offer, opt models.OfferOption) {
	for i, existing := range offer.Options {
		if existing.ID == opt.ID {
			offer.Options[i] = opt
			return
		}
	}
	offer.Options = append(offer.Options, opt)
}

// RemoveOption drops an option from the working list and its cached previews.
func (s *Service) RemoveOption(ctx context.Context, offer *models.Offer, id string) {
	for i, existing := range offer.Options {
		if existing.ID == id {
			offer.Options = append(offer.Options[:i], offer.Options[i+1:]...)
			break
		}
	}
	if err := s.drafts.Delete(ctx, id); err != nil {
		s.log.Warn("Failed to drop cached draft previews", map[string]interface{}{
			"option_id": id,
			"error":     err.Error(),
		})
	}
}

// BackfillPreviews restores image previews for draft options that lost their
// in-memory image references, using the local cache. Purely cosmetic: a cache
// miss leaves the option without previews.
func (s *Service) BackfillPreviews(ctx context.Context, offer *models.Offer) {
	for i, opt := range offer.Options {
		if !models.IsDraftID(opt.ID) || len(opt.Images) > 0 {
			continue
		}
		rec, err := s.drafts.Get(ctx, opt.ID)
		if err != nil || rec == nil {
			continue
		}
		images := make([]models.OptionImage, 0, len(rec.Images))
		for _, url := range rec.Images {
			images = append(images, models.OptionImage{URL: url})
		}
		offer.Options[i].Images = images
	}
}
