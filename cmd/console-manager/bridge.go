// cmd/console-manager/bridge.go
package main

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"partner-console/internal/common/api"
	"partner-console/internal/common/errors"
	"partner-console/internal/common/logger"
	"partner-console/internal/common/observability"
	"partner-console/internal/console/amenities"
	"partner-console/internal/console/branches"
	"partner-console/internal/console/locations"
	"partner-console/internal/console/offers"
	"partner-console/internal/console/providers"
	"partner-console/internal/console/reservations"
	"partner-console/internal/console/team"
	"partner-console/internal/models"
)

type bridgeServices struct {
	locations    *locations.Service
	amenities    *amenities.Service
	providers    *providers.Service
	branches     *branches.Service
	offers       *offers.Service
	reservations *reservations.Service
	team         *team.Service
}

// bridge exposes the screen services over a local JSON API the console front
// end talks to. Action errors are converted to notifications at this boundary
// and never surface as raw HTTP failures.
type bridge struct {
	svc     bridgeServices
	actions *errors.ActionHandler
	obs     *observability.Observability
	log     logger.Logger
}

func newBridge(svc bridgeServices, obs *observability.Observability, log logger.Logger) *bridge {
	return &bridge{
		svc:     svc,
		actions: errors.NewActionHandler(log),
		obs:     obs,
		log:     log.Named("bridge"),
	}
}

func (b *bridge) register(mux *http.ServeMux) {
	mux.HandleFunc("/screens/providers", b.instrument("providers", b.handleProviders))
	mux.HandleFunc("/screens/providers/status", b.instrument("providers", b.handleProviderStatus))
	mux.HandleFunc("/screens/branches", b.instrument("branches", b.handleBranches))
	mux.HandleFunc("/screens/offers", b.instrument("offers", b.handleOffers))
	mux.HandleFunc("/screens/reservations", b.instrument("reservations", b.handleReservations))
	mux.HandleFunc("/screens/reservations/cancel", b.instrument("reservations", b.handleReservationCancel))
	mux.HandleFunc("/screens/team", b.instrument("team", b.handleTeam))
	mux.HandleFunc("/screens/locations/countries", b.instrument("locations", b.handleCountries))
	mux.HandleFunc("/screens/locations/cities", b.instrument("locations", b.handleCities))
	mux.HandleFunc("/screens/locations/zones", b.instrument("locations", b.handleZones))
	mux.HandleFunc("/screens/amenities", b.instrument("amenities", b.handleAmenities))
}

// instrument records per-screen action counts and durations around a handler.
func (b *bridge) instrument(screen string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		h(w, r)
		b.obs.RecordAction(r.Context(), screen, strings.ToLower(r.Method))
		b.obs.RecordActionDuration(r.Context(), time.Since(start), screen)
	}
}

func (b *bridge) handleProviders(w http.ResponseWriter, r *http.Request) {
	list, pagination, err := b.svc.providers.List(r.Context(), pageOf(r))
	if err != nil {
		writeNotification(w, b.actions.HandleActionError("providers.list", err))
		return
	}
	writePage(w, list, pagination)
}

func (b *bridge) handleProviderStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req struct {
		ID     int64 `json:"id"`
		Status int   `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeNotification(w, b.actions.HandleActionError("providers.status", errors.NewDecodeFailedError(err)))
		return
	}
	if err := b.svc.providers.UpdateStatus(r.Context(), req.ID, models.EntityStatus(req.Status)); err != nil {
		writeNotification(w, b.actions.HandleActionError("providers.status", err))
		return
	}
	writeJSON(w, errors.Notification{Success: true, Message: "Provider status updated"})
}

func (b *bridge) handleBranches(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		list, pagination, err := b.svc.branches.List(r.Context(), idParam(r, "provider_id"), pageOf(r))
		if err != nil {
			writeNotification(w, b.actions.HandleActionError("branches.list", err))
			return
		}
		writePage(w, list, pagination)

	case http.MethodPost:
		var form branches.Form
		if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
			writeNotification(w, b.actions.HandleActionError("branches.save", errors.NewDecodeFailedError(err)))
			return
		}
		var err error
		if id := idParam(r, "id"); id > 0 {
			err = b.svc.branches.Update(r.Context(), id, form)
		} else {
			err = b.svc.branches.Create(r.Context(), form)
		}
		if err != nil {
			writeNotification(w, b.actions.HandleActionError("branches.save", err))
			return
		}
		writeJSON(w, errors.Notification{Success: true, Message: "Branch saved"})

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (b *bridge) handleOffers(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		list, pagination, err := b.svc.offers.List(r.Context(), idParam(r, "provider_id"), pageOf(r))
		if err != nil {
			writeNotification(w, b.actions.HandleActionError("offers.list", err))
			return
		}
		writePage(w, list, pagination)

	case http.MethodPost:
		// Image bytes never cross the bridge; only already-hosted images can
		// be referenced here, so new uploads stay with the in-process caller.
		var offer models.Offer
		if err := json.NewDecoder(r.Body).Decode(&offer); err != nil {
			writeNotification(w, b.actions.HandleActionError("offers.save", errors.NewDecodeFailedError(err)))
			return
		}
		var err error
		if id := idParam(r, "id"); id > 0 {
			err = b.svc.offers.Update(r.Context(), id, offer, nil)
		} else {
			err = b.svc.offers.Create(r.Context(), offer, nil)
		}
		if err != nil {
			writeNotification(w, b.actions.HandleActionError("offers.save", err))
			return
		}
		writeJSON(w, errors.Notification{Success: true, Message: "Offer saved"})

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (b *bridge) handleReservations(w http.ResponseWriter, r *http.Request) {
	status := models.ReservationStatus(r.URL.Query().Get("status"))
	list, pagination, err := b.svc.reservations.List(r.Context(), idParam(r, "provider_id"), status, pageOf(r))
	if err != nil {
		writeNotification(w, b.actions.HandleActionError("reservations.list", err))
		return
	}
	writePage(w, list, pagination)
}

func (b *bridge) handleReservationCancel(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	reservation, err := b.svc.reservations.Get(r.Context(), idParam(r, "id"))
	if err != nil {
		writeNotification(w, b.actions.HandleActionError("reservations.cancel", err))
		return
	}
	if err := b.svc.reservations.Cancel(r.Context(), *reservation); err != nil {
		writeNotification(w, b.actions.HandleActionError("reservations.cancel", err))
		return
	}
	writeJSON(w, errors.Notification{Success: true, Message: "Reservation cancelled"})
}

func (b *bridge) handleTeam(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		list, pagination, err := b.svc.team.List(r.Context(), pageOf(r))
		if err != nil {
			writeNotification(w, b.actions.HandleActionError("team.list", err))
			return
		}
		writePage(w, list, pagination)

	case http.MethodPost:
		var form team.Form
		if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
			writeNotification(w, b.actions.HandleActionError("team.save", errors.NewDecodeFailedError(err)))
			return
		}
		var err error
		if id := idParam(r, "id"); id > 0 {
			err = b.svc.team.Update(r.Context(), id, form)
		} else {
			err = b.svc.team.Create(r.Context(), form)
		}
		if err != nil {
			writeNotification(w, b.actions.HandleActionError("team.save", err))
			return
		}
		writeJSON(w, errors.Notification{Success: true, Message: "Team member saved"})

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (b *bridge) handleCountries(w http.ResponseWriter, r *http.Request) {
	list, err := b.svc.locations.Countries(r.Context())
	if err != nil {
		writeNotification(w, b.actions.HandleActionError("locations.countries", err))
		return
	}
	writeJSON(w, map[string]interface{}{"data": list})
}

func (b *bridge) handleCities(w http.ResponseWriter, r *http.Request) {
	list, err := b.svc.locations.Cities(r.Context(), idParam(r, "country_id"))
	if err != nil {
		writeNotification(w, b.actions.HandleActionError("locations.cities", err))
		return
	}
	writeJSON(w, map[string]interface{}{"data": list})
}

func (b *bridge) handleZones(w http.ResponseWriter, r *http.Request) {
	list, err := b.svc.locations.Zones(r.Context(), idParam(r, "city_id"))
	if err != nil {
		writeNotification(w, b.actions.HandleActionError("locations.zones", err))
		return
	}
	writeJSON(w, map[string]interface{}{"data": list})
}

func (b *bridge) handleAmenities(w http.ResponseWriter, r *http.Request) {
	list, err := b.svc.amenities.ForBusinessType(r.Context(), idParam(r, "business_type_id"))
	if err != nil {
		writeNotification(w, b.actions.HandleActionError("amenities.list", err))
		return
	}
	writeJSON(w, map[string]interface{}{"data": list})
}

func pageOf(r *http.Request) int {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	return page
}

func idParam(r *http.Request, name string) int64 {
	id, _ := strconv.ParseInt(r.URL.Query().Get(name), 10, 64)
	return id
}

func writePage(w http.ResponseWriter, data interface{}, pagination *api.Pagination) {
	writeJSON(w, map[string]interface{}{"data": data, "pagination": pagination})
}

func writeJSON(w http.ResponseWriter, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(payload)
}

// writeNotification reports a failed action. The HTTP status stays 200: the
// outcome travels in the notification body, mirroring how screens surface
// errors as toasts rather than transport failures.
func writeNotification(w http.ResponseWriter, n errors.Notification) {
	writeJSON(w, n)
}
