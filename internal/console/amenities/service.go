// Package amenities serves the per-business-type amenity reference data used
// by the option composer. Names arrive as either plain strings or {en, ar}
// objects and are normalized to one display string at this boundary, so no
// downstream code handles the union shape.
package amenities

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
	"time"

	"partner-console/internal/common/api"
	"partner-console/internal/common/database"
	"partner-console/internal/common/errors"
	"partner-console/internal/common/logger"
	"partner-console/internal/console/selector"
	"partner-console/internal/models"
)

const cacheKeyPrefix = "console_amenities_"

// wireAmenity is the backend shape before name normalization.
type wireAmenity struct {
	ID   int64                `json:"id"`
	Name models.LocalizedText `json:"name"`
	Icon string               `json:"icon"`
}

type Service struct {
	client *api.Client
	cache  *database.RedisClient
	ttl    time.Duration
	log    logger.Logger
}

// NewService builds the amenity service. cache may be nil, in which case
// every call goes to the backend.
func NewService(client *api.Client, cache *database.RedisClient, ttl time.Duration, log logger.Logger) *Service {
	return &Service{client: client, cache: cache, ttl: ttl, log: log.Named("amenities")}
}

// ForBusinessType returns the amenities of one business type, read through the
// redis cache when available. Cache failures degrade to a backend fetch.
func (s *Service) ForBusinessType(ctx context.Context, businessTypeID int64) ([]models.Amenity, error) {
	key := cacheKeyPrefix + strconv.FormatInt(businessTypeID, 10)

	if s.cache != nil {
		var amenities []models.Amenity
		err := s.cache.GetJSON(ctx, key, &amenities)
		if err == nil {
			return amenities, nil
		}
		if err != database.ErrCacheMiss {
			// Unreadable or unreachable entry; refetch and overwrite.
			s.log.Warn("Amenity cache read failed", map[string]interface{}{
				"key":   key,
				"error": err.Error(),
			})
		}
	}

	amenities, err := s.fetch(ctx, businessTypeID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, key, amenities, s.ttl); err != nil {
			s.log.Warn("Amenity cache write failed", map[string]interface{}{
				"key":   key,
				"error": err.Error(),
			})
		}
	}

	return amenities, nil
}

func (s *Service) fetch(ctx context.Context, businessTypeID int64) ([]models.Amenity, error) {
	query := url.Values{"business_type_id": {strconv.FormatInt(businessTypeID, 10)}}

	var amenities []models.Amenity
	err := s.client.FetchAll(ctx, "/amenities", query, func(data json.RawMessage) error {
		var page []wireAmenity
		if err := json.Unmarshal(data, &page); err != nil {
			return errors.NewDecodeFailedError(err)
		}
		for _, w := range page {
			amenities = append(amenities, models.Amenity{
				ID:      w.ID,
				Name:    w.Name.Resolve("Unnamed Amenity"),
				IconURL: w.Icon,
			})
		}
		return nil
	})
	return amenities, err
}

// Loader adapts ForBusinessType into a selector loader keyed on the business
// type ID, for amenity filtering inside the composer.
func (s *Service) Loader() selector.Loader {
	return func(ctx context.Context, businessTypeID string) ([]selector.Option, error) {
		id, err := strconv.ParseInt(businessTypeID, 10, 64)
		if err != nil {
			return nil, errors.NewPreconditionFailedError("Invalid business type selection", nil)
		}
		amenities, err := s.ForBusinessType(ctx, id)
		if err != nil {
			return nil, err
		}
		options := make([]selector.Option, 0, len(amenities))
		for _, a := range amenities {
			options = append(options, selector.Option{
				Value: strconv.FormatInt(a.ID, 10),
				Label: a.Name,
			})
		}
		return options, nil
	}
}
