// Package providers loads provider records and their read-only aggregate
// statistics. A provider that fails to load blocks its whole screen; every
// other screen under it depends on the loaded record.
package providers

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
	return &Service{client: client, log: log.Named("providers")}
}

// Get loads one provider with its branches and aggregate stats.
func (s *Service) Get(ctx context.Context, id int64) (*models.Provider, error) {
	var envelope struct {
		Data models.Provider `json:"data"`
	}
	path := "/providers/" + strconv.FormatInt(id, 10)
	if err := s.client.GetJSON(ctx, path, nil, &envelope); err != nil {
		return nil, err
	}
	return &envelope.Data, nil
}

// List returns one page of providers together with the paging block.
func (s *Service) List(ctx context.Context, page int) ([]models.Provider, *api.Pagination, error) {
	envelope, err := s.client.GetPage(ctx, "/providers", nil, page)
	if err != nil {
		return nil, nil, err
	}
	var providers []models.Provider
	if err := json.Unmarshal(envelope.Data, &providers); err != nil {
		return nil, nil, errors.NewDecodeFailedError(err)
	}
	return providers, &envelope.Pagination, nil
}

// UpdateStatus toggles a provider's status. Updates travel as POST with the
// method override in the body.
func (s *Service) UpdateStatus(ctx context.Context, id int64, status models.EntityStatus) error {
	if !status.Valid() {
		return errors.NewPreconditionFailedError("Unknown provider status", nil)
	}
	path := "/providers/" + strconv.FormatInt(id, 10)
	body := map[string]interface{}{
		api.MethodOverrideField: api.MethodOverridePut,
		"status":                int(status),
	}
	return s.client.PostJSON(ctx, path, body, nil)
}

// UpdateCommission sets the provider's commission percentage.
func (s *Service) UpdateCommission(ctx context.Context, id int64, commission float64) error {
	if commission < 0 || commission > 100 {
		return errors.NewPreconditionFailedError("Commission must be between 0 and 100", map[string]string{
			"commission": "Commission must be between 0 and 100",
		})
	}
	path := "/providers/" + strconv.FormatInt(id, 10)
	body := map[string]interface{}{
		api.MethodOverrideField: api.MethodOverridePut,
		"commission":            commission,
	}
	return s.client.PostJSON(ctx, path, body, nil)
}

// BusinessTypes returns the business-type reference list.
func (s *Service) BusinessTypes(ctx context.Context) ([]models.BusinessType, error) {
	var types []models.BusinessType
	err := s.client.FetchAll(ctx, "/business-types", nil, func(data json.RawMessage) error {
		var page []models.BusinessType
		if err := json.Unmarshal(data, &page); err != nil {
			return errors.NewDecodeFailedError(err)
		}
		types = append(types, page...)
		return nil
	})
	return types, err
}

// BranchLoader adapts a provider's branch list into a selector loader keyed
// on the provider ID, used for offer branch targeting.
func (s *Service) BranchLoader() selector.Loader {
	return func(ctx context.Context, providerID string) ([]selector.Option, error) {
		id, err := strconv.ParseInt(providerID, 10, 64)
		if err != nil {
			return nil, errors.NewPreconditionFailedError("Invalid provider selection", nil)
		}

		query := url.Values{"provider_id": {strconv.FormatInt(id, 10)}}
		var options []selector.Option
		err = s.client.FetchAll(ctx, "/branches", query, func(data json.RawMessage) error {
			var page []models.Branch
			if err := json.Unmarshal(data, &page); err != nil {
				return errors.NewDecodeFailedError(err)
			}
			for _, branch := range page {
				options = append(options, selector.Option{
					Value: strconv.FormatInt(branch.ID, 10),
					Label: branch.Name.Resolve("Unnamed Branch"),
				})
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		return options, nil
	}
}
