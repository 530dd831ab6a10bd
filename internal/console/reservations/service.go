// Package reservations serves the booking screens: paged and full listings,
// status filtering over the fixed enumeration, and the arrival-date approval
// flow.
package reservations

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"

	"partner-console/internal/common/api"
	"partner-console/internal/common/errors"
	"partner-console/internal/common/logger"
	"partner-console/internal/models"
)

type Service struct {
	client *api.Client
	log    logger.Logger
}

func NewService(client *api.Client, log logger.Logger) *Service {
	return &Service{client: client, log: log.Named("reservations")}
}

// List returns one page of a provider's reservations, optionally filtered by
// status. An unknown status is rejected before the request is built.
func (s *Service) List(ctx context.Context, providerID int64, status models.ReservationStatus, page int) ([]models.Reservation, *api.Pagination, error) {
	query := url.Values{"provider_id": {strconv.FormatInt(providerID, 10)}}
	if status != "" {
		if !knownStatus(status) {
			return nil, nil, errors.NewPreconditionFailedError("Unknown reservation status filter", nil)
		}
		query.Set("status", string(status))
	}

	envelope, err := s.client.GetPage(ctx, "/reservations", query, page)
	if err != nil {
		return nil, nil, err
	}
	var reservations []models.Reservation
	if err := json.Unmarshal(envelope.Data, &reservations); err != nil {
		return nil, nil, errors.NewDecodeFailedError(err)
	}
	return reservations, &envelope.Pagination, nil
}

// All walks every page of a provider's reservations, for exports and counts.
func (s *Service) All(ctx context.Context, providerID int64) ([]models.Reservation, error) {
	query := url.Values{"provider_id": {strconv.FormatInt(providerID, 10)}}
	var reservations []models.Reservation
	err := s.client.FetchAll(ctx, "/reservations", query, func(data json.RawMessage) error {
		var page []models.Reservation
		if err := json.Unmarshal(data, &page); err != nil {
			return errors.NewDecodeFailedError(err)
		}
		reservations = append(reservations, page...)
		return nil
	})
	return reservations, err
}

// Get loads one reservation with its booking options and coupons.
func (s *Service) Get(ctx context.Context, id int64) (*models.Reservation, error) {
	var envelope struct {
		Data models.Reservation `json:"data"`
	}
	if err := s.client.GetJSON(ctx, "/reservations/"+strconv.FormatInt(id, 10), nil, &envelope); err != nil {
		return nil, err
	}
	return &envelope.Data, nil
}

// ApproveArrivalDate accepts a customer's proposed new arrival date. Only a
// reservation currently awaiting approval can be approved.
func (s *Service) ApproveArrivalDate(ctx context.Context, reservation models.Reservation) error {
	if reservation.Status != models.ReservationNewArrivalDate {
		return errors.NewPreconditionFailedError("Reservation has no pending arrival date change", nil)
	}
	path := "/reservations/" + strconv.FormatInt(reservation.ID, 10) + "/arrival-date"
	body := map[string]interface{}{
		api.MethodOverrideField: api.MethodOverridePut,
		"approved":              true,
	}
	return s.client.PostJSON(ctx, path, body, nil)
}

// Cancel cancels a reservation that has not already finished.
func (s *Service) Cancel(ctx context.Context, reservation models.Reservation) error {
	switch reservation.Status {
	case models.ReservationCompleted, models.ReservationCancelled:
		return errors.NewPreconditionFailedError("Reservation is already closed", nil)
	}
	path := "/reservations/" + strconv.FormatInt(reservation.ID, 10)
	body := map[string]interface{}{
		api.MethodOverrideField: api.MethodOverridePut,
		"status":                string(models.ReservationCancelled),
	}
	return s.client.PostJSON(ctx, path, body, nil)
}

// UnusedCoupons counts the coupons not yet redeemed across the reservation's
// booking options.
func UnusedCoupons(reservation models.Reservation) int {
	unused := 0
	for _, opt := range reservation.Options {
		for _, coupon := range opt.Coupons {
			if !coupon.Used {
				unused++
			}
		}
	}
	return unused
}

func knownStatus(status models.ReservationStatus) bool {
	for _, known := range models.KnownReservationStatuses {
		if status == known {
			return true
		}
	}
	return false
}
