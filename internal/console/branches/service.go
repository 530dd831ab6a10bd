// Package branches implements the branch form screen: dependent city/zone
// selection, client-side validation before any request leaves, and create and
// update submissions over the POST-with-override convention.
package branches

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"

	"partner-console/internal/common/api"
	"partner-console/internal/common/errors"
	"partner-console/internal/common/logger"
	"partner-console/internal/common/metrics"
	"partner-console/internal/console/locations"
	"partner-console/internal/console/selector"
	"partner-console/internal/models"
)

// Form is the branch form's working state. Selector-backed references keep
// their string option values until submission.
type Form struct {
	ProviderID int64
	NameEn     string
	NameAr     string
	AddressEn  string
	AddressAr  string
	Phone      string
	Latitude   string
	Longitude  string
	CityID     string
	ZoneID     string
	Status     models.EntityStatus
	IsMain     bool
}

func (f Form) values() map[string]interface{} {
	return map[string]interface{}{
		"name":       f.NameEn,
		"name_ar":    f.NameAr,
		"address":    f.AddressEn,
		"address_ar": f.AddressAr,
		"phone":      f.Phone,
		"latitude":   f.Latitude,
		"longitude":  f.Longitude,
		"city_id":    f.CityID,
		"zone_id":    f.ZoneID,
		"status":     strconv.Itoa(int(f.Status)),
	}
}

func (f Form) payload() map[string]interface{} {
	return map[string]interface{}{
		"provider_id": f.ProviderID,
		"name":        f.NameEn,
		"name_ar":     f.NameAr,
		"address":     f.AddressEn,
		"address_ar":  f.AddressAr,
		"phone":       f.Phone,
		"latitude":    f.Latitude,
		"longitude":   f.Longitude,
		"city_id":     f.CityID,
		"zone_id":     f.ZoneID,
		"status":      int(f.Status),
		"is_main":     f.IsMain,
	}
}

type Service struct {
	client *api.Client
	log    logger.Logger
}

func NewService(client *api.Client, log logger.Logger) *Service {
	return &Service{client: client, log: log.Named("branches")}
}

// LocationChain builds the city -> zone dependent selector pair for the
// branch form. The zone selector stays empty until a city is chosen.
func LocationChain(loc *locations.Service, log logger.Logger) *selector.Chain {
	city := selector.New("city", loc.CityLoader(), log)
	zone := selector.New("zone", loc.ZoneLoader(), log)
	return selector.NewChain(city, zone)
}

// List returns one page of a provider's branches.
func (s *Service) List(ctx context.Context, providerID int64, page int) ([]models.Branch, *api.Pagination, error) {
	query := url.Values{"provider_id": {strconv.FormatInt(providerID, 10)}}
	envelope, err := s.client.GetPage(ctx, "/branches", query, page)
	if err != nil {
		return nil, nil, err
	}
	var branches []models.Branch
	if err := json.Unmarshal(envelope.Data, &branches); err != nil {
		return nil, nil, errors.NewDecodeFailedError(err)
	}
	return branches, &envelope.Pagination, nil
}

// Create validates the form and posts a new branch. A validation failure is
// returned as a precondition error carrying the per-field messages and no
// request is sent.
func (s *Service) Create(ctx context.Context, form Form) error {
	return s.submit(ctx, "/branches", form, false)
}

// Update validates the form and posts changes for an existing branch with the
// PUT override.
func (s *Service) Update(ctx context.Context, branchID int64, form Form) error {
	return s.submit(ctx, "/branches/"+strconv.FormatInt(branchID, 10), form, true)
}

func (s *Service) submit(ctx context.Context, path string, form Form, update bool) error {
	if fieldErrors := validateForm(form.values()); len(fieldErrors) > 0 {
		metrics.SubmissionsTotal.WithLabelValues("branches", "precondition_failed").Inc()
		return errors.NewPreconditionFailedError(firstMessage(fieldErrors), fieldErrors)
	}

	payload := form.payload()
	if update {
		payload[api.MethodOverrideField] = api.MethodOverridePut
	}

	if err := s.client.PostJSON(ctx, path, payload, nil); err != nil {
		metrics.SubmissionsTotal.WithLabelValues("branches", "error").Inc()
		return err
	}
	metrics.SubmissionsTotal.WithLabelValues("branches", "success").Inc()
	return nil
}

// firstMessage picks a stable primary message from the field errors, walking
// the form's display order so the toast matches the topmost invalid field.
func firstMessage(fieldErrors map[string]string) string {
	for _, field := range formSchema.Required {
		if msg, ok := fieldErrors[field]; ok {
			return msg
		}
	}
	for _, msg := range fieldErrors {
		return msg
	}
	return "Validation failed"
}
