// internal/models/reservation.go
package models

// ReservationStatus is the backend's reservation status string enumeration.
type ReservationStatus string

const (
	ReservationActive              ReservationStatus = "Active"
	ReservationCompleted           ReservationStatus = "Completed"
	ReservationCancelled           ReservationStatus = "Cancelled"
	ReservationWaitingPayment      ReservationStatus = "Waiting Payment"
	ReservationWaitingConfirmation ReservationStatus = "Waiting Confirmation"
	ReservationWaitingCustomer     ReservationStatus = "Waiting Confirmation From Customer"
	ReservationNewArrivalDate      ReservationStatus = "New Arrival Date Awaits Your Approval"
)

// KnownReservationStatuses lists every status the console must map faithfully.
var KnownReservationStatuses = []ReservationStatus{
	ReservationActive,
	ReservationCompleted,
	ReservationCancelled,
	ReservationWaitingPayment,
	ReservationWaitingConfirmation,
	ReservationWaitingCustomer,
	ReservationNewArrivalDate,
}

// PaidState is the backend's numeric payment state.
type PaidState int

const (
	PaidFailed  PaidState = 0
	PaidSuccess PaidState = 1
	PaidUnpaid  PaidState = 2
)

func (p PaidState) String() string {
	switch p {
	case PaidFailed:
		return "failed"
	case PaidSuccess:
		return "success"
	case PaidUnpaid:
		return "unpaid"
	default:
		return "unknown"
	}
}

// Reservation is a customer's purchase of an offer.
type Reservation struct {
	ID          int64             `json:"id"`
	OfferID     int64             `json:"offer_id"`
	Customer    Person            `json:"user"`
	BookingDate string            `json:"booking_date"`
	ArrivalDate string            `json:"arrival_date"`
	Status      ReservationStatus `json:"status"`
	Paid        PaidState         `json:"paid"`
	CouponsQty  int               `json:"coupons_qty"`
	Options     []BookingOption   `json:"options,omitempty"`
}

// BookingOption references an offer option within a reservation.
type BookingOption struct {
	ID            int64    `json:"id"`
	OfferOptionID int64    `json:"offer_option_id"`
	Quantity      int      `json:"quantity"`
	Coupons       []Coupon `json:"coupons,omitempty"`
}

// Coupon is a redeemable code attached to a booking option.
type Coupon struct {
	ID       int64  `json:"id"`
	Code     string `json:"code"`
	Used     bool   `json:"used"`
	DayOfUse string `json:"day_of_use,omitempty"`
}
