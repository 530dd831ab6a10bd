// Package locations serves the country/city/zone reference hierarchy the
// branch forms select from.
package locations

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"

	"partner-console/internal/common/api"
	"partner-console/internal/common/errors"
	"partner-console/internal/common/logger"
	"partner-console/internal/console/selector"
	"partner-console/internal/models"
)

type Service struct {
	client *api.Client
	log    logger.Logger
}

func NewService(client *api.Client, log logger.Logger) *Service {
	return &Service{client: client, log: log.Named("locations")}
}

// Countries returns the full country list across all pages.
func (s *Service) Countries(ctx context.Context) ([]models.Country, error) {
	var countries []models.Country
	err := s.client.FetchAll(ctx, "/countries", nil, func(data json.RawMessage) error {
		var page []models.Country
		if err := json.Unmarshal(data, &page); err != nil {
			return errors.NewDecodeFailedError(err)
		}
		countries = append(countries, page...)
		return nil
	})
	return countries, err
}

// Cities returns every city of one country.
func (s *Service) Cities(ctx context.Context, countryID int64) ([]models.City, error) {
	query := url.Values{"country_id": {strconv.FormatInt(countryID, 10)}}
	var cities []models.City
	err := s.client.FetchAll(ctx, "/cities", query, func(data json.RawMessage) error {
		var page []models.City
		if err := json.Unmarshal(data, &page); err != nil {
			return errors.NewDecodeFailedError(err)
		}
		cities = append(cities, page...)
		return nil
	})
	return cities, err
}

// Zones returns every zone of one city. The backend scopes zones to a single
// city, so the result is authoritative for zone validity.
func (s *Service) Zones(ctx context.Context, cityID int64) ([]models.Zone, error) {
	query := url.Values{"city_id": {strconv.FormatInt(cityID, 10)}}
	var zones []models.Zone
	err := s.client.FetchAll(ctx, "/zones", query, func(data json.RawMessage) error {
		var page []models.Zone
		if err := json.Unmarshal(data, &page); err != nil {
			return errors.NewDecodeFailedError(err)
		}
		zones = append(zones, page...)
		return nil
	})
	return zones, err
}

// CityLoader adapts Cities into a selector loader keyed on the country ID.
func (s *Service) CityLoader() selector.Loader {
	return func(ctx context.Context, countryID string) ([]selector.Option, error) {
		id, err := strconv.ParseInt(countryID, 10, 64)
		if err != nil {
			return nil, errors.NewPreconditionFailedError("Invalid country selection", nil)
		}
		cities, err := s.Cities(ctx, id)
		if err != nil {
			return nil, err
		}
		options := make([]selector.Option, 0, len(cities))
		for _, city := range cities {
			options = append(options, selector.Option{
				Value: strconv.FormatInt(city.ID, 10),
				Label: city.Name.Resolve("Unnamed City"),
			})
		}
		return options, nil
	}
}

// ZoneLoader adapts Zones into a selector loader keyed on the city ID.
func (s *Service) ZoneLoader() selector.Loader {
	return func(ctx context.Context, cityID string) ([]selector.Option, error) {
		id, err := strconv.ParseInt(cityID, 10, 64)
		if err != nil {
			return nil, errors.NewPreconditionFailedError("Invalid city selection", nil)
		}
		zones, err := s.Zones(ctx, id)
		if err != nil {
			return nil, err
		}
		options := make([]selector.Option, 0, len(zones))
		for _, zone := range zones {
			options = append(options, selector.Option{
				Value: strconv.FormatInt(zone.ID, 10),
				Label: zone.Name.Resolve("Unnamed Zone"),
			})
		}
		return options, nil
	}
}
